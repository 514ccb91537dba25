package model

import (
	"errors"
)

// SolarIrradianceWPerM2 is the solar flux at the reference distance.
// It is a physical constant, not a tunable parameter.
const SolarIrradianceWPerM2 = 1366.1

// ErrDivisionByZero marks a zero denominator in a physical relation:
// a zero open-circuit voltage when deriving the short-circuit current,
// or a zero node voltage while the load is drawing power.
var ErrDivisionByZero = errors.New("division by zero")

// SystemParams defines the physical parameters of the solar-charged
// capacitor node. Units:
// - ArrayAreaM2: m^2
// - Efficiency: 0..1
// - OpenCircuitVoltageV, VoltageThresholdV: V
// - CapacitanceF: F
// - ESROhm: ohm
// - InitialChargeC: C
// - LoadPowerW: W
// - TimeStepS, DurationS: s
type SystemParams struct {
	ArrayAreaM2         float64
	Efficiency          float64
	OpenCircuitVoltageV float64
	CapacitanceF        float64
	ESROhm              float64
	InitialChargeC      float64
	LoadPowerW          float64
	VoltageThresholdV   float64
	TimeStepS           float64
	DurationS           float64
}

func (p SystemParams) Validate() error {
	if p.ArrayAreaM2 < 0 {
		return errors.New("ArrayAreaM2 must be >= 0")
	}
	if p.Efficiency < 0 || p.Efficiency > 1 {
		return errors.New("Efficiency must be in [0, 1]")
	}
	if p.CapacitanceF <= 0 {
		return errors.New("CapacitanceF must be > 0")
	}
	if p.ESROhm < 0 {
		return errors.New("ESROhm must be >= 0")
	}
	if p.InitialChargeC < 0 {
		return errors.New("InitialChargeC must be >= 0")
	}
	if p.LoadPowerW < 0 {
		return errors.New("LoadPowerW must be >= 0")
	}
	if p.VoltageThresholdV < 0 {
		return errors.New("VoltageThresholdV must be >= 0")
	}
	if p.TimeStepS <= 0 {
		return errors.New("TimeStepS must be > 0")
	}
	if p.DurationS < 0 {
		return errors.New("DurationS must be >= 0")
	}
	return nil
}

// ShortCircuitCurrentA derives the maximum current the panel can supply.
func (p SystemParams) ShortCircuitCurrentA() (float64, error) {
	if p.OpenCircuitVoltageV == 0 {
		return 0, ErrDivisionByZero
	}
	return SolarIrradianceWPerM2 * p.ArrayAreaM2 * p.Efficiency / p.OpenCircuitVoltageV, nil
}

// SystemState captures the evolving node state. It has exactly one owner
// (the run loop); the engine mutates it in place each step.
type SystemState struct {
	// ChargeC is the capacitor charge, clamped to be non-negative.
	ChargeC float64
	// SourceCurrentA is either the short-circuit current or zero.
	SourceCurrentA float64
	// LoadPowerW is the effective load draw: the configured value or zero.
	LoadPowerW float64
	// NodeVoltageV is the non-negative root of the node equation.
	NodeVoltageV float64
	// ElapsedS increases by exactly one time step per iteration.
	ElapsedS float64
}
