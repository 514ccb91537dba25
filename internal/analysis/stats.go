package analysis

import (
	"math"

	"capsim/internal/sim"
)

// TraceStats is a run-level summary of a voltage trace. It intentionally
// depends only on the (time, voltage) samples plus the threshold the run
// was configured with, so it can be computed for traces loaded from disk
// as well as fresh results.
type TraceStats struct {
	Samples int

	MinVolts   float64
	MaxVolts   float64
	MeanVolts  float64
	FinalVolts float64

	// TimeAboveThresholdS is the simulated time whose sample voltage was at
	// or above the threshold, counting each sample for one time step.
	TimeAboveThresholdS float64
	// FractionAboveThreshold is the fraction of samples at or above the
	// threshold. A fully-above trace is exactly 1.
	FractionAboveThreshold float64
}

func ComputeStats(trace sim.Trace, thresholdV, timeStepS float64) TraceStats {
	st := TraceStats{}
	if len(trace) == 0 {
		return st
	}
	st.Samples = len(trace)
	st.FinalVolts = trace.Final().Volts

	sum := 0.0
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	above := 0
	for _, s := range trace {
		sum += s.Volts
		if s.Volts < minV {
			minV = s.Volts
		}
		if s.Volts > maxV {
			maxV = s.Volts
		}
		if s.Volts >= thresholdV {
			above++
		}
	}
	st.MinVolts = minV
	st.MaxVolts = maxV
	st.MeanVolts = sum / float64(len(trace))

	st.TimeAboveThresholdS = float64(above) * timeStepS
	st.FractionAboveThreshold = float64(above) / float64(len(trace))
	return st
}
