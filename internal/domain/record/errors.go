package record

import "errors"

var (
	// ErrUnresolvedActivity indicates a record still contains template placeholders.
	ErrUnresolvedActivity = errors.New("activity has unresolved placeholders")
	// ErrNotChronological indicates a sequence's timestamps decrease.
	ErrNotChronological = errors.New("sequence timestamps are not chronological")
)
