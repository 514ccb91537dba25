package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"capsim/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load system parameters from a separate YAML
	// (e.g. examples/systems/*.yaml). If both SystemFile and System are
	// provided, System overrides SystemFile field by field.
	SystemFile string       `yaml:"system_file"`
	System     SystemConfig `yaml:"system"`
	Output     OutputConfig `yaml:"output"`
}

type SystemConfig struct {
	Name                string  `yaml:"name"`
	ArrayAreaM2         float64 `yaml:"array_area_m2"`
	Efficiency          float64 `yaml:"efficiency"`
	OpenCircuitVoltageV float64 `yaml:"open_circuit_voltage_v"`
	CapacitanceF        float64 `yaml:"capacitance_f"`
	ESROhm              float64 `yaml:"esr_ohm"`
	InitialChargeC      float64 `yaml:"initial_charge_c"`
	LoadPowerW          float64 `yaml:"load_power_w"`
	VoltageThresholdV   float64 `yaml:"voltage_threshold_v"`
	TimeStepS           float64 `yaml:"time_step_s"`
	DurationS           float64 `yaml:"duration_s"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Output.Path == "" {
		c.Output.Path = "log.csv"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If system_file is set, load it and merge in any explicit overrides
	// from c.System.
	if c.SystemFile != "" {
		systemPath := c.SystemFile
		if !filepath.IsAbs(systemPath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, but fall back to the provided path (relative
			// to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), systemPath)
			if _, err := os.Stat(cand); err == nil {
				systemPath = cand
			}
		}
		loaded, err := loadSystemFile(systemPath)
		if err != nil {
			return nil, err
		}
		c.System = MergeSystem(loaded, c.System)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	params := c.System.ToModelParams()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("system config invalid: %w", err)
	}
	return nil
}

func (s SystemConfig) ToModelParams() model.SystemParams {
	return model.SystemParams{
		ArrayAreaM2:         s.ArrayAreaM2,
		Efficiency:          s.Efficiency,
		OpenCircuitVoltageV: s.OpenCircuitVoltageV,
		CapacitanceF:        s.CapacitanceF,
		ESROhm:              s.ESROhm,
		InitialChargeC:      s.InitialChargeC,
		LoadPowerW:          s.LoadPowerW,
		VoltageThresholdV:   s.VoltageThresholdV,
		TimeStepS:           s.TimeStepS,
		DurationS:           s.DurationS,
	}
}

type systemFileWrapper struct {
	System SystemConfig `yaml:"system"`
}

func loadSystemFile(path string) (SystemConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SystemConfig{}, err
	}
	var w systemFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SystemConfig{}, err
	}
	return w.System, nil
}

// MergeSystem overlays non-zero fields from override onto base.
// This is used when loading a system file and then applying overrides
// from the config or an API request.
func MergeSystem(base, override SystemConfig) SystemConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.ArrayAreaM2 != 0 {
		out.ArrayAreaM2 = override.ArrayAreaM2
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	if override.OpenCircuitVoltageV != 0 {
		out.OpenCircuitVoltageV = override.OpenCircuitVoltageV
	}
	if override.CapacitanceF != 0 {
		out.CapacitanceF = override.CapacitanceF
	}
	if override.ESROhm != 0 {
		out.ESROhm = override.ESROhm
	}
	// Note: initial charge, load power and threshold are legitimately zero
	// in many setups; a zero override keeps the base value, same convention
	// as the rest of the merge.
	if override.InitialChargeC != 0 {
		out.InitialChargeC = override.InitialChargeC
	}
	if override.LoadPowerW != 0 {
		out.LoadPowerW = override.LoadPowerW
	}
	if override.VoltageThresholdV != 0 {
		out.VoltageThresholdV = override.VoltageThresholdV
	}
	if override.TimeStepS != 0 {
		out.TimeStepS = override.TimeStepS
	}
	if override.DurationS != 0 {
		out.DurationS = override.DurationS
	}
	return out
}
