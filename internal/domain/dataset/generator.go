package dataset

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/rpggio/auditsynth/internal/domain/activity"
)

// DefaultStart is the first session's date and time.
var DefaultStart = time.Date(2024, 8, 27, 8, 0, 0, 0, time.UTC)

// Options controls one generation call. A zero Sequences or Start and a nil
// pointer field take the generator's defaults; an explicit zero is kept.
type Options struct {
	Sequences          int       `json:"sequences"`
	Variants           *int      `json:"variants,omitempty"`
	Anomalies          *int      `json:"anomalies,omitempty"`
	AnomalyProbability *float64  `json:"anomaly_probability,omitempty"`
	Start              time.Time `json:"start"`
}

// Ptr returns a pointer to v, for setting optional Options fields.
func Ptr[T any](v T) *T {
	return &v
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (o Options) withDefaults(d Options) Options {
	if o.Sequences == 0 {
		o.Sequences = d.Sequences
	}
	if o.Variants == nil {
		o.Variants = d.Variants
	}
	if o.Anomalies == nil {
		o.Anomalies = d.Anomalies
	}
	if o.AnomalyProbability == nil {
		o.AnomalyProbability = d.AnomalyProbability
	}
	if o.Start.IsZero() {
		o.Start = DefaultStart
	}
	return o
}

func (o Options) validate() error {
	if o.Sequences < 1 {
		return fmt.Errorf("%w: sequences must be positive, got %d", ErrInvalidOptions, o.Sequences)
	}
	if (o.Variants != nil && *o.Variants < 0) || (o.Anomalies != nil && *o.Anomalies < 0) {
		return fmt.Errorf("%w: variants and anomalies must not be negative", ErrInvalidOptions)
	}
	if p := o.AnomalyProbability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("%w: anomaly probability %v outside [0,1]", ErrInvalidOptions, *p)
	}
	return nil
}

// Generator produces one or more named datasets.
type Generator interface {
	Name() string
	Defaults() Options
	Generate(rng *rand.Rand, opts Options) ([]Output, error)
}

// Registry looks generators up by name.
type Registry struct {
	generators map[string]Generator
}

// NewRegistry registers the built-in generators over cat.
func NewRegistry(cat *activity.Catalog) *Registry {
	r := &Registry{generators: map[string]Generator{}}
	for _, g := range []Generator{
		NewEnhanced(cat),
		NewAugmented(cat),
		NewMixed(cat),
	} {
		r.generators[g.Name()] = g
	}
	return r
}

// Get returns the generator registered under name.
func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
	}
	return g, nil
}

// Names lists registered generator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve fills zero fields of opts from g's defaults and validates them.
func Resolve(g Generator, opts Options) (Options, error) {
	opts = opts.withDefaults(g.Defaults())
	if err := opts.validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Generate resolves opts and runs g.
func Generate(g Generator, rng *rand.Rand, opts Options) ([]Output, error) {
	opts, err := Resolve(g, opts)
	if err != nil {
		return nil, err
	}
	return g.Generate(rng, opts)
}
