package anomaly

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/sequence"
)

// Variant names an anomalous sequence shape built up front.
type Variant string

const (
	AlarmSequence  Variant = "alarm_sequence"
	BatchDeletion  Variant = "batch_deletion"
	SolutionChange Variant = "solution_change"
	LogoutSequence Variant = "logout_sequence"
)

// Variants lists the shapes VariantBuilder.Random draws from.
var Variants = []Variant{AlarmSequence, BatchDeletion, SolutionChange, LogoutSequence}

// fallbackDeleter performs batch deletions when the pool has no other user.
const fallbackDeleter = "admin"

// Segments marks the layout of a normal sequence: records before PrefixEnd
// are the session prefix ending with batch start, records from SuffixStart
// on are the closing events.
type Segments struct {
	PrefixEnd   int `json:"prefix_end"`
	SuffixStart int `json:"suffix_start"`
}

func (s Segments) validate(n int) error {
	if s.PrefixEnd < 1 || s.PrefixEnd > s.SuffixStart || s.SuffixStart > n {
		return fmt.Errorf("%w: prefix end %d, suffix start %d, length %d", ErrInvalidSegments, s.PrefixEnd, s.SuffixStart, n)
	}
	return nil
}

// VariantBuilder turns a normal sequence into one of the anomalous shapes.
// Every event it introduces is flagged; events it keeps are left as they
// were. The result is re-stamped from start with Dwell.
type VariantBuilder struct {
	sampler *sequence.Sampler
	stamper *sequence.Stamper
	rng     *rand.Rand
	users   []string
	dwell   sequence.DwellFunc
}

// NewVariantBuilder creates a builder. users is the pool batch deletions
// are attributed to.
func NewVariantBuilder(cat *activity.Catalog, rng *rand.Rand, users []string, dwell sequence.DwellFunc) *VariantBuilder {
	return &VariantBuilder{
		sampler: sequence.NewSampler(cat, rng),
		stamper: sequence.NewStamper(rng),
		rng:     rng,
		users:   users,
		dwell:   dwell,
	}
}

// Random builds a uniformly chosen variant.
func (b *VariantBuilder) Random(normal record.Sequence, segs Segments, start time.Time) (record.Sequence, Variant, error) {
	variant := Variants[b.rng.IntN(len(Variants))]
	seq, err := b.Build(normal, segs, variant, start)
	return seq, variant, err
}

// Build applies variant to a copy of normal.
func (b *VariantBuilder) Build(normal record.Sequence, segs Segments, variant Variant, start time.Time) (record.Sequence, error) {
	if err := segs.validate(len(normal.Records)); err != nil {
		return record.Sequence{}, err
	}
	seq := normal.Clone()
	cause := string(variant)

	switch variant {
	case AlarmSequence:
		alarm, err := b.pickOption(activity.KindAlarmResolved)
		if err != nil {
			return record.Sequence{}, err
		}
		resolved, err := b.labelled(activity.KindAlarmResolved, alarm, seq.User, cause)
		if err != nil {
			return record.Sequence{}, err
		}
		acked, err := b.labelled(activity.KindAlarmAcknowledged, alarm, seq.User, cause)
		if err != nil {
			return record.Sequence{}, err
		}
		batchStart := segs.PrefixEnd - 1
		seq.Records = slices.Insert(seq.Records, batchStart, resolved, acked)

	case BatchDeletion:
		keep := min(segs.PrefixEnd+1, segs.SuffixStart)
		deleted, err := b.event(activity.KindBatchDeleted, seq.Batch, b.otherUser(seq.User), cause)
		if err != nil {
			return record.Sequence{}, err
		}
		seq.Records = append(seq.Records[:keep:keep], deleted)

	case SolutionChange:
		first, err := b.event(activity.KindSolutionChange, seq.Batch, seq.User, cause)
		if err != nil {
			return record.Sequence{}, err
		}
		second, err := b.event(activity.KindSolutionChange, seq.Batch, seq.User, cause)
		if err != nil {
			return record.Sequence{}, err
		}
		seq.Records = slices.Insert(seq.Records, segs.PrefixEnd, first, second)

	case LogoutSequence:
		logout, err := b.event(activity.KindLogout, seq.Batch, seq.User, cause)
		if err != nil {
			return record.Sequence{}, err
		}
		end, err := b.event(activity.KindBatchEnd, seq.Batch, seq.User, cause)
		if err != nil {
			return record.Sequence{}, err
		}
		seq.Records = append(seq.Records[:segs.SuffixStart:segs.SuffixStart], logout, end)

	default:
		return record.Sequence{}, fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
	}

	b.stamper.Stamp(seq.Records, start, b.dwell)
	return seq, nil
}

func (b *VariantBuilder) event(kind activity.KindID, batch, user, cause string) (record.LogRecord, error) {
	text, param, err := b.sampler.Render(kind, batch, true)
	if err != nil {
		return record.LogRecord{}, err
	}
	return newFlagged(kind, text, param, user, cause), nil
}

func (b *VariantBuilder) labelled(kind activity.KindID, label, user, cause string) (record.LogRecord, error) {
	text, param, err := b.sampler.RenderLabel(kind, label, true)
	if err != nil {
		return record.LogRecord{}, err
	}
	return newFlagged(kind, text, param, user, cause), nil
}

func (b *VariantBuilder) pickOption(kind activity.KindID) (string, error) {
	text, param, err := b.sampler.Render(kind, "", true)
	if err != nil {
		return "", err
	}
	if param == nil {
		return text, nil
	}
	return param.Label, nil
}

// otherUser picks a pool member other than owner.
func (b *VariantBuilder) otherUser(owner string) string {
	others := make([]string, 0, len(b.users))
	for _, u := range b.users {
		if u != owner {
			others = append(others, u)
		}
	}
	if len(others) == 0 {
		return fallbackDeleter
	}
	return others[b.rng.IntN(len(others))]
}

func newFlagged(kind activity.KindID, text string, param *record.Parameter, user, cause string) record.LogRecord {
	rec := record.LogRecord{
		User:     user,
		Kind:     kind,
		Activity: text,
		Reason:   record.ReasonNotAvailable,
		Param:    param,
	}
	rec.Flag(cause)
	return rec
}
