package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// traceHeader is the on-disk column contract; downstream tooling keys on it.
var traceHeader = []string{"t_s", "volts"}

func WriteTraceCSV(path string, trace Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(traceHeader); err != nil {
		return err
	}
	for _, s := range trace {
		row := []string{fmtFloat(s.TimeS), fmtFloat(s.Volts)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadTraceCSV loads a trace previously written by WriteTraceCSV, so a
// finished run can be re-plotted without re-simulating.
func ReadTraceCSV(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty trace file", path)
	}
	if len(rows[0]) != 2 || rows[0][0] != traceHeader[0] || rows[0][1] != traceHeader[1] {
		return nil, fmt.Errorf("%s: unexpected header %v", path, rows[0])
	}

	trace := make(Trace, 0, len(rows)-1)
	for i, row := range rows[1:] {
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad time %q", path, i+1, row[0])
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad voltage %q", path, i+1, row[1])
		}
		trace = append(trace, Sample{TimeS: t, Volts: v})
	}
	return trace, nil
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
