package sequence

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/record"
)

// Sampler draws parameter values for activity kinds and renders them into
// phrasings from the catalog.
type Sampler struct {
	catalog *activity.Catalog
	rng     *rand.Rand
}

// NewSampler creates a sampler over cat using rng.
func NewSampler(cat *activity.Catalog, rng *rand.Rand) *Sampler {
	return &Sampler{catalog: cat, rng: rng}
}

// Render produces the activity text for one occurrence of id. The template
// is chosen at random unless canonical is set. batch fills batch-numbered
// kinds and is ignored otherwise.
func (s *Sampler) Render(id activity.KindID, batch string, canonical bool) (string, *record.Parameter, error) {
	kind, err := s.catalog.Kind(id)
	if err != nil {
		return "", nil, err
	}

	label := ""
	switch kind.Family() {
	case activity.FamilyBatch:
		label = batch
	case activity.FamilyCategorical:
		label = kind.Param.Options[s.rng.IntN(len(kind.Param.Options))]
	}
	return s.render(kind, label, canonical)
}

// RenderLabel renders a categorical kind with a caller-chosen label.
func (s *Sampler) RenderLabel(id activity.KindID, label string, canonical bool) (string, *record.Parameter, error) {
	kind, err := s.catalog.Kind(id)
	if err != nil {
		return "", nil, err
	}
	return s.render(kind, label, canonical)
}

func (s *Sampler) render(kind activity.Kind, label string, canonical bool) (string, *record.Parameter, error) {
	tmpl := kind.Canonical
	if !canonical {
		tmpl = kind.Templates[s.rng.IntN(len(kind.Templates))]
	}

	if kind.Param == nil {
		text, err := activity.Fill(tmpl)
		return text, nil, err
	}

	param := &record.Parameter{
		Kind:     kind.ID,
		Family:   kind.Param.Family,
		Template: tmpl,
		Decimals: kind.Param.Decimals,
		Unit:     kind.Param.Unit,
		Label:    label,
	}
	if param.IsRange() {
		param.Label = ""
		param.From, param.To = s.SampleRange(*kind.Param)
	}

	text, err := param.Render()
	if err != nil {
		return "", nil, err
	}
	return text, param, nil
}

// SampleRange draws a from/to pair: from uniform in [Min, Max], to = from
// plus a symmetric jitter of at most Delta, clamped to [Min, Max].
func (s *Sampler) SampleRange(spec activity.ParamSpec) (from, to float64) {
	if spec.Decimals == 0 {
		lo, hi := int(math.Ceil(spec.Min)), int(math.Floor(spec.Max))
		v1 := lo + s.rng.IntN(hi-lo+1)
		d := int(spec.Delta)
		v2 := min(max(v1-d+s.rng.IntN(2*d+1), lo), hi)
		return float64(v1), float64(v2)
	}

	v1 := clamp(round(spec.Min+s.rng.Float64()*(spec.Max-spec.Min), spec.Decimals), spec.Min, spec.Max)
	delta := -spec.Delta + s.rng.Float64()*2*spec.Delta
	v2 := clamp(round(v1+delta, spec.Decimals), spec.Min, spec.Max)
	return v1, v2
}

// Populate renders one record per kind for user and batch. Timestamps are
// left zero for the stamper.
func (s *Sampler) Populate(kinds []activity.KindID, user, batch string, canonical bool) ([]record.LogRecord, error) {
	records := make([]record.LogRecord, 0, len(kinds))
	for _, id := range kinds {
		text, param, err := s.Render(id, batch, canonical)
		if err != nil {
			return nil, err
		}
		records = append(records, record.LogRecord{
			User:     user,
			Kind:     id,
			Activity: text,
			Reason:   record.ReasonNotAvailable,
			Param:    param,
		})
	}
	return records, nil
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseFromTo extracts the two numeric values of a rendered from/to phrase.
func ParseFromTo(text string) (from, to float64, ok bool) {
	matches := numberPattern.FindAllString(text, -1)
	if len(matches) != 2 {
		return 0, 0, false
	}
	from, err := strconv.ParseFloat(matches[0], 64)
	if err != nil {
		return 0, 0, false
	}
	to, err = strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return from, to, true
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
