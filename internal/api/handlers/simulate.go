package handlers

import (
	"errors"
	"net/http"

	"capsim/internal/analysis"
	"capsim/internal/api/models"
	"capsim/internal/config"
	"capsim/internal/model"
	"capsim/internal/sim"

	"github.com/gin-gonic/gin"
)

// SimulateHandler handles simulation requests
type SimulateHandler struct {
	systemDir string
}

// NewSimulateHandler creates a new simulation handler. Preset lookups go
// through the same directory the systems handler serves.
func NewSimulateHandler(systemDir string) *SimulateHandler {
	return &SimulateHandler{systemDir: systemDir}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	params, err := h.buildParams(req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	result, isc, err := runOnce(params)
	if err != nil {
		c.JSON(statusForRunError(err), models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    codeForRunError(err),
				Message: err.Error(),
			},
		})
		return
	}

	resp := models.SimulateResponse{
		Status:  "completed",
		Summary: buildSummary(params, isc, result),
	}
	if req.Options.IncludeTrace {
		resp.Trace = convertTrace(result.Trace, req.Options.LimitSamples)
	}
	c.JSON(http.StatusOK, resp)
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulateHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, variation := range req.Variations {
		merged := req.BaseConfig
		merged.System = models.SystemConfig(config.MergeSystem(config.SystemConfig(req.BaseConfig.System), config.SystemConfig(variation.Config.System)))
		if variation.Config.SystemFile != "" {
			merged.SystemFile = variation.Config.SystemFile
		}

		params, err := h.buildParams(merged)
		if err != nil {
			continue // Skip invalid configs
		}
		result, isc, err := runOnce(params)
		if err != nil {
			continue // Skip failed runs
		}
		comparison = append(comparison, models.ComparisonResult{
			Name:    variation.Name,
			Summary: buildSummary(params, isc, result),
		})
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// Helper methods

func (h *SimulateHandler) buildParams(req models.SimConfig) (model.SystemParams, error) {
	sys := config.SystemConfig{
		Name:                req.System.Name,
		ArrayAreaM2:         req.System.ArrayAreaM2,
		Efficiency:          req.System.Efficiency,
		OpenCircuitVoltageV: req.System.OpenCircuitVoltageV,
		CapacitanceF:        req.System.CapacitanceF,
		ESROhm:              req.System.ESROhm,
		InitialChargeC:      req.System.InitialChargeC,
		LoadPowerW:          req.System.LoadPowerW,
		VoltageThresholdV:   req.System.VoltageThresholdV,
		TimeStepS:           req.System.TimeStepS,
		DurationS:           req.System.DurationS,
	}

	// If system_file is set, it is just the preset name (e.g. "garden_light");
	// files are always looked up in the preset directory. Request fields
	// override the preset field by field.
	if req.SystemFile != "" {
		loaded, err := loadPreset(h.systemDir, req.SystemFile)
		if err != nil {
			return model.SystemParams{}, err
		}
		sys = config.MergeSystem(loaded, sys)
	}

	params := sys.ToModelParams()
	if err := params.Validate(); err != nil {
		return model.SystemParams{}, err
	}
	return params, nil
}

func runOnce(params model.SystemParams) (*sim.Result, float64, error) {
	engine, err := sim.New(params)
	if err != nil {
		return nil, 0, err
	}
	result, err := engine.Run()
	if err != nil {
		return nil, 0, err
	}
	return result, engine.ShortCircuitCurrentA(), nil
}

func statusForRunError(err error) int {
	if errors.Is(err, model.ErrDivisionByZero) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func codeForRunError(err error) string {
	if errors.Is(err, model.ErrDivisionByZero) {
		return "DIVISION_BY_ZERO"
	}
	return "SIMULATION_ERROR"
}

func buildSummary(params model.SystemParams, iscA float64, result *sim.Result) models.SimSummary {
	st := analysis.ComputeStats(result.Trace, params.VoltageThresholdV, params.TimeStepS)
	v := st.FinalVolts
	return models.SimSummary{
		Samples:                st.Samples,
		Steps:                  result.Steps,
		ShortCircuitCurrentA:   iscA,
		MinVolts:               st.MinVolts,
		MaxVolts:               st.MaxVolts,
		MeanVolts:              st.MeanVolts,
		FinalVolts:             v,
		FinalChargeC:           result.FinalState.ChargeC,
		FinalEnergyJ:           0.5 * params.CapacitanceF * v * v,
		TimeAboveThresholdS:    st.TimeAboveThresholdS,
		FractionAboveThreshold: st.FractionAboveThreshold,
	}
}

func convertTrace(trace sim.Trace, limit int) []models.TracePoint {
	n := len(trace)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.TracePoint, n)
	for i := 0; i < n; i++ {
		out[i] = models.TracePoint{TimeS: trace[i].TimeS, Volts: trace[i].Volts}
	}
	return out
}
