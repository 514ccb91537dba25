package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"capsim/internal/analysis"
	"capsim/internal/config"
	"capsim/internal/model"
	"capsim/internal/plot"
	"capsim/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	case "plot":
		cmdPlot(os.Args[2:])
	default:
		// Bare numeric arguments are the classic invocation:
		// cli sa_m2 eff voc c_f r_esr q0_c p_on_w v_thresh dt_s dur_s
		cmdPositional(os.Args[1:])
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli sa_m2 eff voc c_f r_esr q0_c p_on_w v_thresh dt_s dur_s")
	fmt.Println("  cli simulate --config examples/config.yaml [--out results/log.csv]")
	fmt.Println("  cli rank --configs examples/systems")
	fmt.Println("  cli plot --trace log.csv --out trace.png")
	fmt.Println("  cli plot --config examples/config.yaml --out trace.png")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - the positional form writes log.csv in the working directory")
	fmt.Println("  - rank runs every system YAML in a directory and sorts by final stored energy")
}

// cmdPositional runs the simulation from ten positional numeric arguments
// and writes log.csv, mirroring the original script's contract.
func cmdPositional(args []string) {
	if len(args) != 10 {
		usage()
		os.Exit(2)
	}
	vals := make([]float64, 10)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fmt.Printf("argument %d: %q is not a number\n\n", i+1, a)
			usage()
			os.Exit(2)
		}
		vals[i] = v
	}

	params := model.SystemParams{
		ArrayAreaM2:         vals[0],
		Efficiency:          vals[1],
		OpenCircuitVoltageV: vals[2],
		CapacitanceF:        vals[3],
		ESROhm:              vals[4],
		InitialChargeC:      vals[5],
		LoadPowerW:          vals[6],
		VoltageThresholdV:   vals[7],
		TimeStepS:           vals[8],
		DurationS:           vals[9],
	}

	result := mustRun(params)
	if err := sim.WriteTraceCSV("log.csv", result.Trace); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %d rows to log.csv\n", len(result.Trace))
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "", "Output CSV path (overrides config output.path)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	params := cfg.System.ToModelParams()
	result := mustRun(params)

	out := cfg.Output.Path
	if *outPath != "" {
		out = *outPath
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatal(err)
		}
	}
	if err := sim.WriteTraceCSV(out, result.Trace); err != nil {
		fatal(err)
	}

	st := analysis.ComputeStats(result.Trace, params.VoltageThresholdV, params.TimeStepS)
	fmt.Printf("Wrote %d rows to %s\n", len(result.Trace), out)
	fmt.Printf("Final v=%.4fV  min=%.4f  max=%.4f  above threshold %.0f%% of the run\n",
		st.FinalVolts, st.MinVolts, st.MaxVolts, 100*st.FractionAboveThreshold)
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	dir := fs.String("configs", "examples/systems", "Directory of system YAML files")
	_ = fs.Parse(args)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		fatal(err)
	}

	runs := map[string]analysis.SystemRun{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		cfg, err := config.Load(filepath.Join(*dir, e.Name()))
		if err != nil {
			fmt.Printf("skipping %s: %v\n", e.Name(), err)
			continue
		}
		params := cfg.System.ToModelParams()
		result := mustRun(params)
		name := cfg.System.Name
		if name == "" {
			name = strings.TrimSuffix(e.Name(), ".yaml")
		}
		runs[name] = analysis.SystemRun{Params: params, Trace: result.Trace}
	}

	ranked := analysis.RankByFinalEnergy(runs)
	fmt.Printf("%-4s %-20s %-8s %-10s %-10s %-10s %-12s\n",
		"rank", "system", "samples", "min V", "max V", "final V", "energy J")
	for i, r := range ranked {
		fmt.Printf("%-4d %-20s %-8d %-10.3f %-10.3f %-10.3f %-12.4f\n",
			i+1,
			r.Name,
			r.Stats.Samples,
			r.Stats.MinVolts,
			r.Stats.MaxVolts,
			r.Stats.FinalVolts,
			r.FinalEnergyJ,
		)
	}
}

func cmdPlot(args []string) {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	tracePath := fs.String("trace", "", "Path to a previously written trace CSV")
	cfgPath := fs.String("config", "", "Path to YAML config (simulate then plot)")
	outPath := fs.String("out", "trace.png", "Output image path")
	_ = fs.Parse(args)

	var trace sim.Trace
	title := "node voltage"
	switch {
	case *tracePath != "":
		var err error
		trace, err = sim.ReadTraceCSV(*tracePath)
		if err != nil {
			fatal(err)
		}
		title = filepath.Base(*tracePath)
	case *cfgPath != "":
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fatal(err)
		}
		result := mustRun(cfg.System.ToModelParams())
		trace = result.Trace
		if cfg.System.Name != "" {
			title = cfg.System.Name
		}
	default:
		fmt.Println("one of --trace or --config is required")
		os.Exit(2)
	}

	if err := plot.WriteVoltagePNG(*outPath, title, trace); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote plot to %s\n", *outPath)
}

func mustRun(params model.SystemParams) *sim.Result {
	engine, err := sim.New(params)
	if err != nil {
		fatal(err)
	}
	result, err := engine.Run()
	if err != nil {
		fatal(err)
	}
	return result
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
