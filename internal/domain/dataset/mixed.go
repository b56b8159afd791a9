package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/anomaly"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/sequence"
)

const (
	MixedName   = "mixed"
	MixedOutput = "audit_logs_with_anomalies.csv"
	mixedPool   = "mixed"
)

var (
	mixedPrefix = []activity.KindID{
		activity.KindLogin,
		activity.KindBatchPrep,
		activity.KindEquipmentCheck,
		activity.KindCalibration,
		activity.KindBatchStart,
	}
	setpointKinds = []activity.KindID{
		activity.KindInletAirTemp,
		activity.KindSprayRate,
		activity.KindDrumSpeedSetpoint,
		activity.KindExhaustAirTemp,
		activity.KindAtomizationPressure,
	}
	mixedSuffix = []activity.KindID{
		activity.KindBatchEnd,
		activity.KindLogout,
	}
)

const (
	minSetpoints = 3
	maxSetpoints = 6
)

// MixedDwell is the dwell schedule of class-based sequences.
func MixedDwell(kind activity.KindID) activity.Range {
	switch kind {
	case activity.KindAlarmResolved:
		return activity.Range{Min: 1, Max: 1}
	case activity.KindBatchEnd, activity.KindAlarmAcknowledged:
		return activity.Range{Min: 5, Max: 5}
	default:
		return activity.Range{Min: 5, Max: 10}
	}
}

// Mixed generates daily sessions of which a share is anomalous.
type Mixed struct {
	cat *activity.Catalog
}

func NewMixed(cat *activity.Catalog) *Mixed {
	return &Mixed{cat: cat}
}

func (g *Mixed) Name() string { return MixedName }

func (g *Mixed) Defaults() Options {
	return Options{Sequences: 50, AnomalyProbability: Ptr(0.3), Start: DefaultStart}
}

// Generate draws, per day, either a normal sequence or a variant of one.
func (g *Mixed) Generate(rng *rand.Rand, opts Options) ([]Output, error) {
	users, err := g.cat.Users(mixedPool)
	if err != nil {
		return nil, err
	}
	sampler := sequence.NewSampler(g.cat, rng)
	stamper := sequence.NewStamper(rng)
	variants := anomaly.NewVariantBuilder(g.cat, rng, users, MixedDwell)

	p := value(opts.AnomalyProbability)
	seqs := make([]record.Sequence, 0, opts.Sequences)
	for i := range opts.Sequences {
		start := opts.Start.AddDate(0, 0, i)
		user := users[rng.IntN(len(users))]
		batch := activity.FormatBatch(i + 1)

		kinds := g.normalKinds(rng)
		records, err := sampler.Populate(kinds, user, batch, true)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
		stamper.Stamp(records, start, MixedDwell)
		seq := record.Sequence{User: user, Batch: batch, Records: records}

		if rng.Float64() < p {
			segs := anomaly.Segments{PrefixEnd: len(mixedPrefix), SuffixStart: len(kinds) - len(mixedSuffix)}
			seq, _, err = variants.Random(seq, segs, start)
			if err != nil {
				return nil, fmt.Errorf("sequence %d: %w", i+1, err)
			}
		}
		if err := seq.Validate(); err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
		seqs = append(seqs, seq)
	}
	return []Output{{Name: MixedOutput, Dataset: Assemble(seqs...)}}, nil
}

func (g *Mixed) normalKinds(rng *rand.Rand) []activity.KindID {
	n := minSetpoints + rng.IntN(maxSetpoints-minSetpoints+1)
	kinds := make([]activity.KindID, 0, len(mixedPrefix)+n+len(mixedSuffix))
	kinds = append(kinds, mixedPrefix...)
	for range n {
		kinds = append(kinds, setpointKinds[rng.IntN(len(setpointKinds))])
	}
	return append(kinds, mixedSuffix...)
}
