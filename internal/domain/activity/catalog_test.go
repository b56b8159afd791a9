package activity_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Loads(t *testing.T) {
	cat := activity.Default()

	for _, id := range []activity.KindID{
		activity.KindLogin, activity.KindBatchPrep, activity.KindEquipmentCheck,
		activity.KindCalibration, activity.KindBatchStart, activity.KindProcessMonitoring,
		activity.KindTempAdjust, activity.KindSprayAdjust, activity.KindEnvironmentalCheck,
		activity.KindQualityCheck, activity.KindDrumSpeed, activity.KindSolutionChange,
		activity.KindDocumentation, activity.KindMaintenance, activity.KindBatchEnd,
		activity.KindLogout, activity.KindFinalQualityCheck, activity.KindInletAirTemp,
		activity.KindSprayRate, activity.KindDrumSpeedSetpoint, activity.KindExhaustAirTemp,
		activity.KindAtomizationPressure, activity.KindAlarmResolved,
		activity.KindAlarmAcknowledged, activity.KindBatchDeleted, activity.KindUnexpectedAction,
	} {
		_, err := cat.Kind(id)
		require.NoError(t, err, "kind %s", id)
	}
	require.Same(t, cat, activity.Default())
}

func TestCatalog_KindNotFound(t *testing.T) {
	_, err := activity.Default().Kind("teleport")
	require.ErrorIs(t, err, activity.ErrKindNotFound)
	require.Nil(t, activity.Default().Templates("teleport"))
}

func TestCatalog_TemplatesIdempotent(t *testing.T) {
	cat := activity.Default()

	first := cat.Templates(activity.KindCalibration)
	require.Len(t, first, 7)
	first[0] = "mutated by caller"

	second := cat.Templates(activity.KindCalibration)
	third := cat.Templates(activity.KindCalibration)
	require.Equal(t, second, third)
	require.Equal(t, "Verified calibration of scales", second[0])
}

func TestCatalog_PlaceholderArity(t *testing.T) {
	for _, kind := range activity.Default().Kinds() {
		for _, tmpl := range kind.Templates {
			require.Equal(t, kind.Family().Arity(), strings.Count(tmpl, activity.Placeholder), "kind %s: %q", kind.ID, tmpl)
		}
	}
}

func TestCatalog_CanonicalDefaultsToFirstTemplate(t *testing.T) {
	cat := activity.Default()

	prep, err := cat.Kind(activity.KindBatchPrep)
	require.NoError(t, err)
	require.Equal(t, "Loaded recipe for batch #{}", prep.Canonical)

	logout, err := cat.Kind(activity.KindLogout)
	require.NoError(t, err)
	require.Equal(t, "Logged out of the system", logout.Canonical)
}

func TestCatalog_PickReturnsCandidate(t *testing.T) {
	cat := activity.Default()
	rng := rand.New(rand.NewPCG(1, 2))

	candidates := cat.Templates(activity.KindUnexpectedAction)
	for i := 0; i < 50; i++ {
		got, err := cat.Pick(rng, activity.KindUnexpectedAction)
		require.NoError(t, err)
		require.Contains(t, candidates, got)
	}
}

func TestCatalog_Users(t *testing.T) {
	cat := activity.Default()

	users, err := cat.Users("enhanced")
	require.NoError(t, err)
	require.Len(t, users, 11)

	_, err = cat.Users("nobody")
	require.ErrorIs(t, err, activity.ErrUserPoolNotFound)
	require.Equal(t, []string{"augmented", "enhanced", "mixed"}, cat.UserPools())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "no kinds",
			doc:  "users: {a: [x]}\nkinds: []\n",
		},
		{
			name: "empty user pool",
			doc:  "users: {a: []}\nkinds:\n  - id: login\n    templates: [hi]\n",
		},
		{
			name: "missing templates",
			doc:  "users: {a: [x]}\nkinds:\n  - id: login\n",
		},
		{
			name: "arity mismatch",
			doc:  "users: {a: [x]}\nkinds:\n  - id: batch_end\n    param: {family: batch}\n    templates: [\"Stopped\"]\n",
		},
		{
			name: "range without fault envelope",
			doc:  "users: {a: [x]}\nkinds:\n  - id: t\n    param: {family: range, min: 1, max: 2}\n    templates: [\"{} to {}\"]\n",
		},
		{
			name: "inverted dwell",
			doc:  "users: {a: [x]}\nkinds:\n  - id: t\n    dwell: {min: 5, max: 2}\n    templates: [hi]\n",
		},
		{
			name: "duplicate kind",
			doc:  "users: {a: [x]}\nkinds:\n  - id: t\n    templates: [hi]\n  - id: t\n    templates: [ho]\n",
		},
		{
			name: "malformed yaml",
			doc:  "kinds: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := activity.Load([]byte(tt.doc))
			require.ErrorIs(t, err, activity.ErrInvalidCatalog)
		})
	}
}

func TestCatalog_SetpointJitter(t *testing.T) {
	cat := activity.Default()
	for _, id := range []activity.KindID{
		activity.KindTempAdjust, activity.KindSprayAdjust, activity.KindDrumSpeed,
		activity.KindInletAirTemp, activity.KindSprayRate, activity.KindDrumSpeedSetpoint,
		activity.KindExhaustAirTemp,
	} {
		kind, err := cat.Kind(id)
		require.NoError(t, err)
		require.Equal(t, 2.0, kind.Param.Delta, "kind %s", id)
	}

	kind, err := cat.Kind(activity.KindAtomizationPressure)
	require.NoError(t, err)
	require.Equal(t, 0.2, kind.Param.Delta)
	require.Less(t, kind.Param.Delta, kind.Param.Max-kind.Param.Min)
}
