package dataset_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/stretchr/testify/require"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestAssemble_PreservesOrder(t *testing.T) {
	at := time.Date(2024, 8, 27, 8, 0, 0, 0, time.UTC)
	a := record.Sequence{Records: []record.LogRecord{
		{Timestamp: at.Add(time.Hour), Activity: "a1"},
		{Timestamp: at.Add(2 * time.Hour), Activity: "a2", Anomaly: true},
	}}
	b := record.Sequence{Records: []record.LogRecord{
		{Timestamp: at, Activity: "b1"},
	}}

	ds := dataset.Assemble(a, b)
	require.Len(t, ds.Records, 3)
	require.Equal(t, "a1", ds.Records[0].Activity)
	require.Equal(t, "a2", ds.Records[1].Activity)
	require.Equal(t, "b1", ds.Records[2].Activity)
	require.Equal(t, dataset.Stats{Rows: 3, Anomalies: 1, Sequences: 2}, ds.Stats())
}

func TestAssemble_Empty(t *testing.T) {
	ds := dataset.Assemble()
	require.Empty(t, ds.Records)
	require.Equal(t, dataset.Stats{}, ds.Stats())
}

func TestRegistry(t *testing.T) {
	reg := dataset.NewRegistry(activity.Default())
	require.Equal(t, []string{"augmented", "enhanced", "mixed"}, reg.Names())

	g, err := reg.Get("mixed")
	require.NoError(t, err)
	require.Equal(t, "mixed", g.Name())

	_, err = reg.Get("nope")
	require.ErrorIs(t, err, dataset.ErrUnknownGenerator)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	reg := dataset.NewRegistry(activity.Default())
	g, err := reg.Get("mixed")
	require.NoError(t, err)

	_, err = dataset.Generate(g, newRNG(), dataset.Options{Sequences: -1})
	require.ErrorIs(t, err, dataset.ErrInvalidOptions)

	_, err = dataset.Generate(g, newRNG(), dataset.Options{Sequences: 2, AnomalyProbability: dataset.Ptr(1.5)})
	require.ErrorIs(t, err, dataset.ErrInvalidOptions)
}
