package anomaly_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/anomaly"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/sequence"
	"github.com/stretchr/testify/require"
)

var users = []string{"user123", "user456", "user789"}

// normalSequence has a 5-record prefix, 3 adjustments and a 2-record suffix.
func normalSequence(t *testing.T, rng *rand.Rand) (record.Sequence, anomaly.Segments) {
	t.Helper()
	kinds := []activity.KindID{
		activity.KindLogin, activity.KindBatchPrep, activity.KindEquipmentCheck,
		activity.KindCalibration, activity.KindBatchStart,
		activity.KindInletAirTemp, activity.KindSprayRate, activity.KindExhaustAirTemp,
		activity.KindBatchEnd, activity.KindLogout,
	}
	records, err := sequence.NewSampler(activity.Default(), rng).Populate(kinds, "user123", "004", true)
	require.NoError(t, err)
	sequence.NewStamper(rng).Stamp(records, start, sequence.FixedDwell(activity.Range{Min: 5, Max: 10}))
	return record.Sequence{User: "user123", Batch: "004", Records: records}, anomaly.Segments{PrefixEnd: 5, SuffixStart: 8}
}

func newVariantBuilder(rng *rand.Rand) *anomaly.VariantBuilder {
	return anomaly.NewVariantBuilder(activity.Default(), rng, users, sequence.FixedDwell(activity.Range{Min: 5, Max: 10}))
}

func flagged(seq record.Sequence) []record.LogRecord {
	var out []record.LogRecord
	for _, rec := range seq.Records {
		if rec.Anomaly {
			out = append(out, rec)
		}
	}
	return out
}

func TestVariant_AlarmSequence(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 1))
	normal, segs := normalSequence(t, rng)

	seq, err := newVariantBuilder(rng).Build(normal, segs, anomaly.AlarmSequence, start)
	require.NoError(t, err)
	require.Len(t, seq.Records, len(normal.Records)+2)

	resolved, acked := seq.Records[4], seq.Records[5]
	require.True(t, strings.HasPrefix(resolved.Activity, "Resolved alarm: "))
	require.True(t, strings.HasPrefix(acked.Activity, "Acknowledged alarm: "))
	require.Equal(t, strings.TrimPrefix(resolved.Activity, "Resolved alarm: "), strings.TrimPrefix(acked.Activity, "Acknowledged alarm: "))
	require.Equal(t, activity.KindBatchStart, seq.Records[6].Kind)
	require.Len(t, flagged(seq), 2)
	require.True(t, seq.Chronological())
	for _, rec := range seq.Records[:4] {
		require.False(t, rec.Anomaly)
	}
	require.Zero(t, normal.Anomalies(), "normal sequence must not be modified")
}

func TestVariant_BatchDeletion(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		rng := rand.New(rand.NewPCG(seed, 2))
		normal, segs := normalSequence(t, rng)

		seq, err := newVariantBuilder(rng).Build(normal, segs, anomaly.BatchDeletion, start)
		require.NoError(t, err)
		require.Len(t, seq.Records, segs.PrefixEnd+2)

		last := seq.Records[len(seq.Records)-1]
		require.Equal(t, "Deleted batch#004", last.Activity)
		require.NotEqual(t, normal.User, last.User)
		require.Contains(t, users, last.User)
		require.Len(t, flagged(seq), 1)
		require.True(t, seq.Chronological())
	}
}

func TestVariant_BatchDeletionSoleUser(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	normal, segs := normalSequence(t, rng)

	b := anomaly.NewVariantBuilder(activity.Default(), rng, []string{"user123"}, sequence.FixedDwell(activity.Range{Min: 5, Max: 10}))
	seq, err := b.Build(normal, segs, anomaly.BatchDeletion, start)
	require.NoError(t, err)
	require.Equal(t, "admin", seq.Records[len(seq.Records)-1].User)
}

func TestVariant_SolutionChange(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 3))
	normal, segs := normalSequence(t, rng)

	seq, err := newVariantBuilder(rng).Build(normal, segs, anomaly.SolutionChange, start)
	require.NoError(t, err)
	require.Len(t, seq.Records, len(normal.Records)+2)
	require.Equal(t, activity.KindSolutionChange, seq.Records[5].Kind)
	require.Equal(t, activity.KindSolutionChange, seq.Records[6].Kind)
	require.True(t, strings.HasPrefix(seq.Records[5].Activity, "Changed coating solution to type "))
	require.Len(t, flagged(seq), 2)
	require.True(t, seq.Chronological())
}

func TestVariant_LogoutSequence(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 4))
	normal, segs := normalSequence(t, rng)

	seq, err := newVariantBuilder(rng).Build(normal, segs, anomaly.LogoutSequence, start)
	require.NoError(t, err)
	require.Len(t, seq.Records, len(normal.Records))

	n := len(seq.Records)
	require.Equal(t, "Logged out of the system", seq.Records[n-2].Activity)
	require.Equal(t, "Stopped coating process for batch #004", seq.Records[n-1].Activity)
	require.True(t, seq.Records[n-2].Anomaly)
	require.True(t, seq.Records[n-1].Anomaly)
	require.Len(t, flagged(seq), 2)
	for _, rec := range seq.Records[:segs.SuffixStart] {
		require.False(t, rec.Anomaly)
	}
}

func TestVariant_Random(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 5))
	seen := map[anomaly.Variant]bool{}
	for i := 0; i < 100; i++ {
		normal, segs := normalSequence(t, rng)
		seq, variant, err := newVariantBuilder(rng).Random(normal, segs, start)
		require.NoError(t, err)
		require.NoError(t, seq.Validate())
		for _, rec := range flagged(seq) {
			require.Equal(t, string(variant), rec.Cause)
		}
		seen[variant] = true
	}
	require.Len(t, seen, len(anomaly.Variants))
}

func TestVariant_Errors(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 6))
	normal, segs := normalSequence(t, rng)
	b := newVariantBuilder(rng)

	_, err := b.Build(normal, segs, "meteor_strike", start)
	require.ErrorIs(t, err, anomaly.ErrUnknownVariant)

	_, err = b.Build(normal, anomaly.Segments{PrefixEnd: 5, SuffixStart: 40}, anomaly.AlarmSequence, start)
	require.ErrorIs(t, err, anomaly.ErrInvalidSegments)
}
