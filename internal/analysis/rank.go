package analysis

import (
	"sort"

	"capsim/internal/model"
	"capsim/internal/sim"
)

// SystemRun pairs a finished trace with the parameters that produced it.
type SystemRun struct {
	Params model.SystemParams
	Trace  sim.Trace
}

type RankedSystem struct {
	Name  string
	Stats TraceStats

	// FinalEnergyJ is the energy left on the capacitor at the end of the
	// run, 0.5*C*v^2.
	FinalEnergyJ float64
}

// RankByFinalEnergy summarizes each run and sorts descending by the energy
// stored at the end of the trace.
func RankByFinalEnergy(runs map[string]SystemRun) []RankedSystem {
	out := make([]RankedSystem, 0, len(runs))
	for name, run := range runs {
		st := ComputeStats(run.Trace, run.Params.VoltageThresholdV, run.Params.TimeStepS)
		v := st.FinalVolts
		out = append(out, RankedSystem{
			Name:         name,
			Stats:        st,
			FinalEnergyJ: 0.5 * run.Params.CapacitanceF * v * v,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalEnergyJ != out[j].FinalEnergyJ {
			return out[i].FinalEnergyJ > out[j].FinalEnergyJ
		}
		return out[i].Name < out[j].Name
	})
	return out
}
