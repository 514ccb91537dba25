package sim

import (
	"fmt"
	"math"

	"capsim/internal/model"
)

// Engine advances a solar-charged capacitor node one fixed time step at a
// time. Construction validates the parameters and fixes the short-circuit
// current for the whole run; all remaining state lives in a SystemState
// owned by the caller.
type Engine struct {
	params model.SystemParams
	iscA   float64
}

func New(params model.SystemParams) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("system params invalid: %w", err)
	}
	isc, err := params.ShortCircuitCurrentA()
	if err != nil {
		return nil, fmt.Errorf("short-circuit current: open-circuit voltage is zero: %w", err)
	}
	return &Engine{params: params, iscA: isc}, nil
}

func (e *Engine) Params() model.SystemParams { return e.params }

func (e *Engine) ShortCircuitCurrentA() float64 { return e.iscA }

// discriminant is the quantity under the square root of the node equation:
// (q/C + i*r)^2 - 4*p*r. It must be non-negative for a real voltage.
func (e *Engine) discriminant(chargeC, sourceA, loadW float64) float64 {
	vc := chargeC/e.params.CapacitanceF + sourceA*e.params.ESROhm
	return vc*vc - 4*loadW*e.params.ESROhm
}

// solve returns the larger root of the node equation and the load power
// actually sustained. A negative discriminant means the requested load
// cannot be drawn through the series resistance at the present charge;
// the load is forced off and the solve retried, which with p=0 leaves a
// perfect square under the root.
func (e *Engine) solve(chargeC, sourceA, loadW float64) (voltageV, sustainedLoadW float64) {
	d := e.discriminant(chargeC, sourceA, loadW)
	if d < 0 {
		loadW = 0
		d = e.discriminant(chargeC, sourceA, loadW)
	}
	v := (chargeC/e.params.CapacitanceF + sourceA*e.params.ESROhm + math.Sqrt(d)) / 2
	return v, loadW
}

// applySwitchRules runs the post-solve mode switches, in order: the panel
// disconnects once the node reaches open-circuit voltage (it cannot
// back-feed), then the load sheds below the undervoltage threshold.
func (e *Engine) applySwitchRules(s *model.SystemState) {
	if s.NodeVoltageV >= e.params.OpenCircuitVoltageV && s.SourceCurrentA != 0 {
		s.SourceCurrentA = 0
	}
	if s.NodeVoltageV < e.params.VoltageThresholdV {
		s.LoadPowerW = 0
	}
}

// InitialState solves the node at time zero with the panel connected and
// the configured load requested, then applies the switch rules.
func (e *Engine) InitialState() model.SystemState {
	s := model.SystemState{
		ChargeC:        e.params.InitialChargeC,
		SourceCurrentA: e.iscA,
		LoadPowerW:     e.params.LoadPowerW,
	}
	s.NodeVoltageV, s.LoadPowerW = e.solve(s.ChargeC, s.SourceCurrentA, s.LoadPowerW)
	e.applySwitchRules(&s)
	return s
}

// Step advances the state by exactly one time step:
// load current, charge update with zero clamp, load re-enable, source
// reconnect, node solve, switch rules, elapsed-time advance.
//
// The load re-enable intentionally compares against the open-circuit
// voltage while the cutoff compares against the threshold, giving the
// asymmetric hysteresis band of the reference system.
func (e *Engine) Step(s *model.SystemState) error {
	loadA := 0.0
	if s.LoadPowerW != 0 {
		if s.NodeVoltageV == 0 {
			return fmt.Errorf("load current at t=%gs with load %gW: node voltage is zero: %w",
				s.ElapsedS, s.LoadPowerW, model.ErrDivisionByZero)
		}
		loadA = s.LoadPowerW / s.NodeVoltageV
	}

	s.ChargeC += (s.SourceCurrentA - loadA) * e.params.TimeStepS
	if s.ChargeC < 0 {
		s.ChargeC = 0
	}

	if s.LoadPowerW == 0 && s.NodeVoltageV >= e.params.OpenCircuitVoltageV {
		s.LoadPowerW = e.params.LoadPowerW
	}

	if s.NodeVoltageV >= 0 && s.NodeVoltageV < e.params.OpenCircuitVoltageV {
		s.SourceCurrentA = e.iscA
	} else {
		s.SourceCurrentA = 0
	}

	s.NodeVoltageV, s.LoadPowerW = e.solve(s.ChargeC, s.SourceCurrentA, s.LoadPowerW)
	e.applySwitchRules(s)

	s.ElapsedS += e.params.TimeStepS
	return nil
}

// Run records the time-zero sample and then steps until the last recorded
// time reaches the configured duration. A division error mid-run aborts
// with no partial trace.
func (e *Engine) Run() (*Result, error) {
	s := e.InitialState()

	trace := make(Trace, 0, traceCapHint(e.params.DurationS, e.params.TimeStepS))
	trace = append(trace, Sample{TimeS: s.ElapsedS, Volts: s.NodeVoltageV})

	for trace[len(trace)-1].TimeS < e.params.DurationS {
		if err := e.Step(&s); err != nil {
			return nil, err
		}
		trace = append(trace, Sample{TimeS: s.ElapsedS, Volts: s.NodeVoltageV})
	}

	return &Result{
		Trace:      trace,
		FinalState: s,
		Steps:      len(trace) - 1,
	}, nil
}

// traceCapHint sizes the trace allocation up front. The step count of a
// valid configuration can still exceed what fits in an int, and the hint
// is only an allocation size, so it is bounded rather than exact.
func traceCapHint(durationS, timeStepS float64) int {
	const maxHint = 1 << 20
	steps := durationS / timeStepS
	if steps > maxHint-2 {
		return maxHint
	}
	return int(steps) + 2
}
