package main

import (
	"flag"
	"fmt"
	"os"

	"capsim/internal/config"
	"capsim/internal/model"
	"capsim/internal/sim"
)

// Demo:
// - Build a small garden-light sized system (or load one from YAML)
// - Step the engine by hand to show how the model and engine fit together
// - Print the per-step node state including switch modes
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	n := flag.Int("n", 12, "Number of steps to print")
	outCSV := flag.String("out", "", "Optional path to write the trace CSV")
	flag.Parse()

	// Defaults (can be overridden via --config).
	params := model.SystemParams{
		ArrayAreaM2:         1.0,
		Efficiency:          0.2,
		OpenCircuitVoltageV: 5.0,
		CapacitanceF:        0.01,
		ESROhm:              0.1,
		InitialChargeC:      0.0,
		LoadPowerW:          0.5,
		VoltageThresholdV:   3.0,
		TimeStepS:           1.0,
		DurationS:           5.0,
	}

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		params = cfg.System.ToModelParams()
	}

	engine, err := sim.New(params)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Short-circuit current: %.4f A\n", engine.ShortCircuitCurrentA())
	fmt.Printf("Stepping %.0f s at dt=%.3g s\n\n", params.DurationS, params.TimeStepS)

	state := engine.InitialState()
	printRow(state)
	for i := 0; i < *n && state.ElapsedS < params.DurationS; i++ {
		if err := engine.Step(&state); err != nil {
			fmt.Fprintln(os.Stderr, "run aborted:", err)
			os.Exit(1)
		}
		printRow(state)
	}

	if *outCSV != "" {
		result, err := engine.Run()
		if err != nil {
			panic(err)
		}
		if err := sim.WriteTraceCSV(*outCSV, result.Trace); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. Final v=%.4f V  charge=%.6f C\n", state.NodeVoltageV, state.ChargeC)
}

func printRow(s model.SystemState) {
	fmt.Printf("t=%6.2fs  v=%8.4fV  q=%10.6fC  source=%-12s  load=%-4s\n",
		s.ElapsedS,
		s.NodeVoltageV,
		s.ChargeC,
		model.SourceModeFromCurrent(s.SourceCurrentA),
		model.LoadModeFromPower(s.LoadPowerW),
	)
}
