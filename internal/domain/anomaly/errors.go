package anomaly

import "errors"

var (
	// ErrSequenceTooShort indicates no legal index exists for a mutation.
	ErrSequenceTooShort = errors.New("sequence too short for mutation")
	// ErrIndexOutOfRange indicates a mutation index outside the sequence.
	ErrIndexOutOfRange = errors.New("mutation index out of range")
	// ErrUnknownMutation indicates an unrecognized mutation kind.
	ErrUnknownMutation = errors.New("unknown mutation kind")
	// ErrUnknownVariant indicates an unrecognized anomalous variant.
	ErrUnknownVariant = errors.New("unknown anomaly variant")
	// ErrInvalidSegments indicates segment boundaries outside the sequence.
	ErrInvalidSegments = errors.New("invalid sequence segments")
)
