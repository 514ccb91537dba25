package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"capsim/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	preset := `system:
  name: garden_light
  array_area_m2: 1.0
  efficiency: 0.2
  open_circuit_voltage_v: 5.0
  capacitance_f: 0.01
  esr_ohm: 0.1
  load_power_w: 0.5
  voltage_threshold_v: 3.0
  time_step_s: 1.0
  duration_s: 5.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garden_light.yaml"), []byte(preset), 0o644))

	router := gin.New()
	sh := NewSimulateHandler(dir)
	sys := NewSystemsHandler(dir)
	api := router.Group("/api/v1")
	api.POST("/simulate", sh.RunSimulation)
	api.POST("/simulate/compare", sh.CompareSimulations)
	api.GET("/systems", sys.ListSystems)
	return router, dir
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func gardenSystem() models.SystemConfig {
	return models.SystemConfig{
		ArrayAreaM2:         1.0,
		Efficiency:          0.2,
		OpenCircuitVoltageV: 5.0,
		CapacitanceF:        0.01,
		ESROhm:              0.1,
		LoadPowerW:          0.5,
		VoltageThresholdV:   3.0,
		TimeStepS:           1.0,
		DurationS:           5.0,
	}
}

func TestRunSimulation_Inline(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/simulate", models.SimulateRequest{
		Config:  models.SimConfig{System: gardenSystem()},
		Options: models.SimulateOptions{IncludeTrace: true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 6, resp.Summary.Samples)
	assert.Equal(t, 5, resp.Summary.Steps)
	assert.InDelta(t, 54.644, resp.Summary.ShortCircuitCurrentA, 1e-9)
	require.Len(t, resp.Trace, 6)
	assert.Equal(t, 0.0, resp.Trace[0].TimeS)
}

func TestRunSimulation_Preset(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/simulate", models.SimulateRequest{
		Config: models.SimConfig{
			SystemFile: "garden_light",
			System:     models.SystemConfig{DurationS: 10},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Preset fields plus the duration override: 10s at 1s steps.
	assert.Equal(t, 11, resp.Summary.Samples)
	assert.Empty(t, resp.Trace)
}

func TestRunSimulation_InvalidConfig(t *testing.T) {
	router, _ := newTestRouter(t)

	sys := gardenSystem()
	sys.CapacitanceF = 0
	w := postJSON(t, router, "/api/v1/simulate", models.SimulateRequest{
		Config: models.SimConfig{System: sys},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestRunSimulation_ZeroVoc(t *testing.T) {
	router, _ := newTestRouter(t)

	sys := gardenSystem()
	sys.OpenCircuitVoltageV = 0
	w := postJSON(t, router, "/api/v1/simulate", models.SimulateRequest{
		Config: models.SimConfig{System: sys},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DIVISION_BY_ZERO", resp.Error.Code)
}

func TestCompareSimulations(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/simulate/compare", models.CompareRequest{
		BaseConfig: models.SimConfig{System: gardenSystem()},
		Variations: []models.Variation{
			{Name: "base", Config: models.SimConfig{System: models.SystemConfig{Name: "base"}}},
			{Name: "finer steps", Config: models.SimConfig{System: models.SystemConfig{TimeStepS: 0.5}}},
			{Name: "broken", Config: models.SimConfig{SystemFile: "missing_preset"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// The broken variation is skipped, the other two run.
	require.Len(t, resp.Comparison, 2)
	assert.Equal(t, "base", resp.Comparison[0].Name)
	assert.Equal(t, 6, resp.Comparison[0].Summary.Samples)
	assert.Equal(t, "finer steps", resp.Comparison[1].Name)
	assert.Equal(t, 11, resp.Comparison[1].Summary.Samples)
}

func TestListSystems(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/systems", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Systems []models.SystemInfo `json:"systems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Systems, 1)
	assert.Equal(t, "garden_light", resp.Systems[0].ID)
	assert.Equal(t, 0.01, resp.Systems[0].Specs.CapacitanceF)
}
