package sequence

import (
	"math/rand/v2"
	"time"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/record"
)

// RelinearizeStep is the fixed spacing applied after anomaly injection.
const RelinearizeStep = 5 * time.Minute

// DwellFunc returns the minutes that may elapse after an event of kind.
type DwellFunc func(kind activity.KindID) activity.Range

// CatalogDwell uses each kind's configured dwell range.
func CatalogDwell(cat *activity.Catalog) DwellFunc {
	return cat.Dwell
}

// FixedDwell uses the same range for every kind.
func FixedDwell(r activity.Range) DwellFunc {
	return func(activity.KindID) activity.Range { return r }
}

// Stamper assigns timestamps to records in order.
type Stamper struct {
	rng *rand.Rand
}

// NewStamper creates a stamper drawing dwell times from rng.
func NewStamper(rng *rand.Rand) *Stamper {
	return &Stamper{rng: rng}
}

// Stamp sets records[0] to start and every later record to its
// predecessor's timestamp plus a whole number of minutes drawn uniformly
// from dwell(predecessor kind). Crossing midnight advances the date.
func (s *Stamper) Stamp(records []record.LogRecord, start time.Time, dwell DwellFunc) {
	for i := range records {
		if i == 0 {
			records[i].Timestamp = start
			continue
		}
		records[i].Timestamp = records[i-1].Timestamp.Add(s.Minutes(dwell(records[i-1].Kind)))
	}
}

// Minutes draws a duration uniformly from r.
func (s *Stamper) Minutes(r activity.Range) time.Duration {
	n := r.Min
	if r.Max > r.Min {
		n += s.rng.IntN(r.Max - r.Min + 1)
	}
	return time.Duration(n) * time.Minute
}

// Relinearize re-stamps every record at a fixed step from records[0]'s
// timestamp, discarding kind-specific dwell times.
func Relinearize(records []record.LogRecord, step time.Duration) {
	if len(records) == 0 {
		return
	}
	start := records[0].Timestamp
	for i := range records {
		records[i].Timestamp = start.Add(time.Duration(i) * step)
	}
}
