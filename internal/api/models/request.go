package models

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	Config  SimConfig       `json:"config" binding:"required"`
	Options SimulateOptions `json:"options,omitempty"`
}

// SimConfig contains the system configuration, either inline, by preset
// file, or a preset file plus inline overrides
type SimConfig struct {
	SystemFile string       `json:"system_file,omitempty"`
	System     SystemConfig `json:"system,omitempty"`
}

// SystemConfig defines the physical parameters of the node
type SystemConfig struct {
	Name                string  `json:"name,omitempty"`
	ArrayAreaM2         float64 `json:"array_area_m2"`
	Efficiency          float64 `json:"efficiency"`
	OpenCircuitVoltageV float64 `json:"open_circuit_voltage_v"`
	CapacitanceF        float64 `json:"capacitance_f"`
	ESROhm              float64 `json:"esr_ohm"`
	InitialChargeC      float64 `json:"initial_charge_c,omitempty"`
	LoadPowerW          float64 `json:"load_power_w,omitempty"`
	VoltageThresholdV   float64 `json:"voltage_threshold_v,omitempty"`
	TimeStepS           float64 `json:"time_step_s"`
	DurationS           float64 `json:"duration_s"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	IncludeTrace bool `json:"include_trace,omitempty"` // default: false
	LimitSamples int  `json:"limit_samples,omitempty"` // 0 = all
}

// CompareRequest represents a request to compare multiple system setups
// over the same run
type CompareRequest struct {
	BaseConfig SimConfig   `json:"base_config" binding:"required"`
	Variations []Variation `json:"variations" binding:"required"`
}

// Variation defines a variation to test
type Variation struct {
	Name   string    `json:"name" binding:"required"`
	Config SimConfig `json:"config" binding:"required"`
}
