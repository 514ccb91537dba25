package sim

import "capsim/internal/model"

// Sample is one row of per-step output: elapsed time and node voltage.
// This is the primary artifact for "what happened" in a run.
type Sample struct {
	TimeS float64
	Volts float64
}

// Trace is the ordered, append-only sample sequence, one entry per step
// plus the time-zero entry.
type Trace []Sample

func (t Trace) Final() Sample {
	if len(t) == 0 {
		return Sample{}
	}
	return t[len(t)-1]
}

type Result struct {
	Trace      Trace
	FinalState model.SystemState
	Steps      int
}
