package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"capsim/internal/api/models"
	"capsim/internal/config"

	"github.com/gin-gonic/gin"
)

// SystemsHandler serves the YAML system presets
type SystemsHandler struct {
	systemDir string
}

func NewSystemsHandler(systemDir string) *SystemsHandler {
	return &SystemsHandler{systemDir: systemDir}
}

// ResolveSystemDir returns the preset directory: SYSTEM_DIR if set,
// otherwise examples/systems under the working directory.
func ResolveSystemDir() string {
	dir := os.Getenv("SYSTEM_DIR")
	if dir == "" {
		wd, err := os.Getwd()
		if err == nil {
			dir = filepath.Join(wd, "examples", "systems")
		} else {
			dir = "./examples/systems"
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

// ListSystems handles GET /api/v1/systems
func (h *SystemsHandler) ListSystems(c *gin.Context) {
	systems := []models.SystemInfo{}

	entries, err := os.ReadDir(h.systemDir)
	if err != nil {
		log.Printf("SystemsHandler: failed to read %s: %v", h.systemDir, err)
		c.JSON(http.StatusOK, gin.H{"systems": systems})
		return
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".yaml")
		cfg, err := config.LoadUnchecked(filepath.Join(h.systemDir, e.Name()))
		if err != nil {
			log.Printf("SystemsHandler: skipping %s: %v", e.Name(), err)
			continue
		}
		name := cfg.System.Name
		if name == "" {
			name = id
		}
		systems = append(systems, models.SystemInfo{
			ID:   id,
			Name: name,
			File: e.Name(),
			Specs: models.SystemSpecs{
				ArrayAreaM2:         cfg.System.ArrayAreaM2,
				OpenCircuitVoltageV: cfg.System.OpenCircuitVoltageV,
				CapacitanceF:        cfg.System.CapacitanceF,
				LoadPowerW:          cfg.System.LoadPowerW,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"systems": systems})
}

// loadPreset loads a system preset by bare name from the preset directory.
func loadPreset(dir, name string) (config.SystemConfig, error) {
	path := filepath.Join(dir, name+".yaml")
	cfg, err := config.LoadUnchecked(path)
	if err != nil {
		return config.SystemConfig{}, fmt.Errorf("system preset %q: %w", name, err)
	}
	return cfg.System, nil
}
