// Package plot renders voltage-vs-time traces to image files.
package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"capsim/internal/sim"
)

// WriteVoltagePNG renders the trace as a single line chart. The output
// format follows the file extension (.png, .svg, .pdf, ...).
func WriteVoltagePNG(path, title string, trace sim.Trace) error {
	if len(trace) == 0 {
		return fmt.Errorf("plot %s: empty trace", path)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t [s]"
	p.Y.Label.Text = "node voltage [V]"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(trace))
	for i, s := range trace {
		pts[i].X = s.TimeS
		pts[i].Y = s.Volts
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add("node voltage", line)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
