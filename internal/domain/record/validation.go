package record

import "fmt"

// Validate checks the invariants every emitted sequence must hold.
func (s Sequence) Validate() error {
	for i, rec := range s.Records {
		if !rec.Resolved() {
			return fmt.Errorf("%w: record %d %q", ErrUnresolvedActivity, i, rec.Activity)
		}
	}
	if !s.Chronological() {
		return ErrNotChronological
	}
	return nil
}
