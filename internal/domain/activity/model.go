package activity

// KindID identifies a category of audit-log event.
type KindID string

const (
	KindLogin              KindID = "login"
	KindBatchPrep          KindID = "batch_prep"
	KindEquipmentCheck     KindID = "equipment_check"
	KindCalibration        KindID = "calibration"
	KindBatchStart         KindID = "batch_start"
	KindProcessMonitoring  KindID = "process_monitoring"
	KindTempAdjust         KindID = "temp_adjust"
	KindSprayAdjust        KindID = "spray_adjust"
	KindEnvironmentalCheck KindID = "environmental_check"
	KindQualityCheck       KindID = "quality_check"
	KindDrumSpeed          KindID = "drum_speed"
	KindSolutionChange     KindID = "solution_change"
	KindDocumentation      KindID = "documentation"
	KindMaintenance        KindID = "maintenance"
	KindBatchEnd           KindID = "batch_end"
	KindLogout             KindID = "logout"

	KindFinalQualityCheck KindID = "final_quality_check"

	// Setpoint adjustments used by the class-based generator.
	KindInletAirTemp        KindID = "inlet_air_temp"
	KindSprayRate           KindID = "spray_rate"
	KindDrumSpeedSetpoint   KindID = "drum_speed_setpoint"
	KindExhaustAirTemp      KindID = "exhaust_air_temp"
	KindAtomizationPressure KindID = "atomization_pressure"

	KindAlarmResolved     KindID = "alarm_resolved"
	KindAlarmAcknowledged KindID = "alarm_acknowledged"
	KindBatchDeleted      KindID = "batch_deleted"
	KindUnexpectedAction  KindID = "unexpected_action"
)

// Family describes how a kind's template placeholders are filled.
type Family string

const (
	FamilyNone        Family = ""
	FamilyRange       Family = "range"
	FamilyCategorical Family = "categorical"
	FamilyBatch       Family = "batch"
)

// Arity returns the number of placeholders a template of this family takes.
func (f Family) Arity() int {
	switch f {
	case FamilyRange:
		return 2
	case FamilyCategorical, FamilyBatch:
		return 1
	default:
		return 0
	}
}

// Range is an inclusive integer interval, in minutes for dwell times.
type Range struct {
	Min int `yaml:"min" json:"min" validate:"gte=0"`
	Max int `yaml:"max" json:"max" validate:"gtefield=Min"`
}

// ParamSpec configures the values sampled for a parameterized kind.
type ParamSpec struct {
	Family   Family   `yaml:"family" json:"family" validate:"oneof=range categorical batch"`
	Min      float64  `yaml:"min" json:"min,omitempty"`
	Max      float64  `yaml:"max" json:"max,omitempty" validate:"gtefield=Min"`
	Delta    float64  `yaml:"delta" json:"delta,omitempty" validate:"gte=0"`
	Decimals int      `yaml:"decimals" json:"decimals,omitempty" validate:"gte=0,lte=3"`
	Unit     string   `yaml:"unit" json:"unit,omitempty"`
	Fault    *Range   `yaml:"fault" json:"fault,omitempty" validate:"required_if=Family range"`
	Options  []string `yaml:"options" json:"options,omitempty" validate:"required_if=Family categorical,dive,required"`
}

// Kind is a catalog entry: interchangeable phrasings plus timing and
// parameter configuration.
type Kind struct {
	ID        KindID     `yaml:"id" json:"id" validate:"required"`
	Canonical string     `yaml:"canonical" json:"canonical,omitempty"`
	Templates []string   `yaml:"templates" json:"templates" validate:"required,min=1,dive,required"`
	Dwell     Range      `yaml:"dwell" json:"dwell"`
	Param     *ParamSpec `yaml:"param" json:"param,omitempty" validate:"omitempty"`
}

// Family returns the placeholder family, FamilyNone for plain kinds.
func (k Kind) Family() Family {
	if k.Param == nil {
		return FamilyNone
	}
	return k.Param.Family
}
