package sequence

import (
	"math/rand/v2"
	"slices"

	"github.com/rpggio/auditsynth/internal/domain/activity"
)

// Builder composes the ordered activity kinds of one batch: a fixed prefix,
// a shuffled random subset of an optional middle pool, and a fixed suffix.
type Builder struct {
	Prefix    []activity.KindID
	Middle    []activity.KindID
	Suffix    []activity.KindID
	MinMiddle int
}

// DefaultBuilder returns the coating-line batch layout.
func DefaultBuilder() Builder {
	return Builder{
		Prefix: []activity.KindID{
			activity.KindLogin,
			activity.KindBatchPrep,
			activity.KindEquipmentCheck,
			activity.KindCalibration,
			activity.KindBatchStart,
		},
		Middle: []activity.KindID{
			activity.KindProcessMonitoring,
			activity.KindTempAdjust,
			activity.KindSprayAdjust,
			activity.KindEnvironmentalCheck,
			activity.KindQualityCheck,
			activity.KindDrumSpeed,
			activity.KindSolutionChange,
			activity.KindDocumentation,
		},
		Suffix: []activity.KindID{
			activity.KindMaintenance,
			activity.KindBatchEnd,
			activity.KindLogout,
		},
		MinMiddle: 5,
	}
}

// Build returns prefix ++ selected middle ++ suffix. The middle selection
// has between MinMiddle and len(Middle) kinds in random order.
func (b Builder) Build(rng *rand.Rand) []activity.KindID {
	middle := slices.Clone(b.Middle)
	rng.Shuffle(len(middle), func(i, j int) {
		middle[i], middle[j] = middle[j], middle[i]
	})

	lo := min(max(b.MinMiddle, 0), len(middle))
	n := lo + rng.IntN(len(middle)-lo+1)

	kinds := make([]activity.KindID, 0, len(b.Prefix)+n+len(b.Suffix))
	kinds = append(kinds, b.Prefix...)
	kinds = append(kinds, middle[:n]...)
	kinds = append(kinds, b.Suffix...)
	return kinds
}

// Bounds returns the shortest and longest sequence Build can produce.
func (b Builder) Bounds() (shortest, longest int) {
	fixed := len(b.Prefix) + len(b.Suffix)
	return fixed + min(max(b.MinMiddle, 0), len(b.Middle)), fixed + len(b.Middle)
}
