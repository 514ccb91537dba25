package models

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	Status  string       `json:"status"`
	Summary SimSummary   `json:"summary"`
	Trace   []TracePoint `json:"trace,omitempty"`
}

// SimSummary contains aggregated run results
type SimSummary struct {
	Samples                int     `json:"samples"`
	Steps                  int     `json:"steps"`
	ShortCircuitCurrentA   float64 `json:"short_circuit_current_a"`
	MinVolts               float64 `json:"min_volts"`
	MaxVolts               float64 `json:"max_volts"`
	MeanVolts              float64 `json:"mean_volts"`
	FinalVolts             float64 `json:"final_volts"`
	FinalChargeC           float64 `json:"final_charge_c"`
	FinalEnergyJ           float64 `json:"final_energy_j"`
	TimeAboveThresholdS    float64 `json:"time_above_threshold_s"`
	FractionAboveThreshold float64 `json:"fraction_above_threshold"`
}

// TracePoint represents one sample of the voltage trace
type TracePoint struct {
	TimeS float64 `json:"t_s"`
	Volts float64 `json:"volts"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string     `json:"name"`
	Summary SimSummary `json:"summary"`
}

// SystemInfo represents information about a system preset
type SystemInfo struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	File  string      `json:"file"`
	Specs SystemSpecs `json:"specs"`
}

// SystemSpecs contains the headline system figures
type SystemSpecs struct {
	ArrayAreaM2         float64 `json:"array_area_m2"`
	OpenCircuitVoltageV float64 `json:"open_circuit_voltage_v"`
	CapacitanceF        float64 `json:"capacitance_f"`
	LoadPowerW          float64 `json:"load_power_w"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
