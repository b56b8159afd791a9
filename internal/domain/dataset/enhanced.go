package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/sequence"
)

const (
	EnhancedName   = "enhanced"
	EnhancedOutput = "enhanced_audit_logs.csv"
	enhancedPool   = "enhanced"
)

// Enhanced generates clean daily sessions with varied phrasing.
type Enhanced struct {
	cat     *activity.Catalog
	builder sequence.Builder
}

func NewEnhanced(cat *activity.Catalog) *Enhanced {
	return &Enhanced{cat: cat, builder: sequence.DefaultBuilder()}
}

func (g *Enhanced) Name() string { return EnhancedName }

func (g *Enhanced) Defaults() Options {
	return Options{Sequences: 1500, Start: DefaultStart}
}

// Generate builds one session per day starting at opts.Start.
func (g *Enhanced) Generate(rng *rand.Rand, opts Options) ([]Output, error) {
	users, err := g.cat.Users(enhancedPool)
	if err != nil {
		return nil, err
	}
	sampler := sequence.NewSampler(g.cat, rng)
	stamper := sequence.NewStamper(rng)
	dwell := sequence.CatalogDwell(g.cat)

	seqs := make([]record.Sequence, 0, opts.Sequences)
	for i := range opts.Sequences {
		user := users[rng.IntN(len(users))]
		batch := activity.FormatBatch(i + 1)
		records, err := sampler.Populate(g.builder.Build(rng), user, batch, false)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
		stamper.Stamp(records, opts.Start.AddDate(0, 0, i), dwell)
		seq := record.Sequence{User: user, Batch: batch, Records: records}
		if err := seq.Validate(); err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
		seqs = append(seqs, seq)
	}
	return []Output{{Name: EnhancedOutput, Dataset: Assemble(seqs...)}}, nil
}
