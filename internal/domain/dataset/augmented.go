package dataset

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/anomaly"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/sequence"
)

const (
	AugmentedName    = "augmented"
	CorrectOutput    = "correct_sequence.csv"
	augmentedPool    = "augmented"
	batchSpacing     = 2 * time.Hour
	augmentedStepMin = 5
)

// CorrectLayout is the reference procedure every correct batch follows.
var CorrectLayout = []activity.KindID{
	activity.KindLogin,
	activity.KindBatchPrep,
	activity.KindEquipmentCheck,
	activity.KindCalibration,
	activity.KindBatchStart,
	activity.KindTempAdjust,
	activity.KindSprayAdjust,
	activity.KindQualityCheck,
	activity.KindSolutionChange,
	activity.KindDrumSpeed,
	activity.KindFinalQualityCheck,
	activity.KindBatchEnd,
	activity.KindLogout,
}

// AnomalousOutput names the i-th (1-based) anomalous variant file.
func AnomalousOutput(i int) string {
	return fmt.Sprintf("anomalous_sequence_%d.csv", i)
}

// Augmented generates a correct reference dataset and mutated copies of it.
type Augmented struct {
	cat *activity.Catalog
}

func NewAugmented(cat *activity.Catalog) *Augmented {
	return &Augmented{cat: cat}
}

func (g *Augmented) Name() string { return AugmentedName }

func (g *Augmented) Defaults() Options {
	return Options{
		Sequences: 6,
		Variants:  Ptr(5),
		Anomalies: Ptr(anomaly.DefaultMutations),
		Start:     DefaultStart,
	}
}

// Generate returns the correct dataset first, then one dataset per variant.
// Each variant receives opts.Anomalies mutations spread over all batches.
func (g *Augmented) Generate(rng *rand.Rand, opts Options) ([]Output, error) {
	users, err := g.cat.Users(augmentedPool)
	if err != nil {
		return nil, err
	}
	user := users[0]
	sampler := sequence.NewSampler(g.cat, rng)
	stamper := sequence.NewStamper(rng)
	step := sequence.FixedDwell(activity.Range{Min: augmentedStepMin, Max: augmentedStepMin})

	correct := make([]record.Sequence, 0, opts.Sequences)
	for i := range opts.Sequences {
		batch := activity.FormatBatch(i + 1)
		records, err := sampler.Populate(CorrectLayout, user, batch, true)
		if err != nil {
			return nil, fmt.Errorf("batch %s: %w", batch, err)
		}
		stamper.Stamp(records, opts.Start.Add(time.Duration(i)*batchSpacing), step)
		correct = append(correct, record.Sequence{User: user, Batch: batch, Records: records})
	}

	outputs := []Output{{Name: CorrectOutput, Dataset: Assemble(correct...)}}
	injector := anomaly.NewInjector(g.cat, rng)
	for v := 1; v <= value(opts.Variants); v++ {
		mutated := make([]record.Sequence, len(correct))
		copy(mutated, correct)
		if _, err := injector.InjectAcross(mutated, value(opts.Anomalies)); err != nil {
			return nil, fmt.Errorf("variant %d: %w", v, err)
		}
		outputs = append(outputs, Output{Name: AnomalousOutput(v), Dataset: Assemble(mutated...)})
	}
	return outputs, nil
}
