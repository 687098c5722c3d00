// Package chart plots propeller coefficient curves against advance ratio.
package chart

import (
	"bytes"
	"fmt"

	"Propmatic/internal/calc/propeller"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// New builds a plot holding every thrust and power curve of s.
func New(s propeller.Spec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s pitch, %.1f ft, %d blades", s.Pitch, s.DiameterFt, s.Blades)
	p.X.Label.Text = "Advance ratio J"
	p.Y.Label.Text = "Coefficient"
	p.Add(plotter.NewGrid())

	var series []interface{}
	for _, t := range []propeller.Table{s.Thrust, s.Power} {
		for _, c := range t.Curves {
			series = append(series, label(t.Name, c), xys(c))
		}
	}
	if err := plotutil.AddLinePoints(p, series...); err != nil {
		return nil, fmt.Errorf("plotting curves: %w", err)
	}
	p.Legend.Top = true
	return p, nil
}

// PNG renders the chart for s.
func PNG(s propeller.Spec, w, h vg.Length) ([]byte, error) {
	p, err := New(s)
	if err != nil {
		return nil, err
	}
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xys(c propeller.Curve) plotter.XYs {
	pts := make(plotter.XYs, len(c.Points))
	for i, pt := range c.Points {
		pts[i].X = pt.J
		pts[i].Y = pt.Value
	}
	return pts
}

func label(table string, c propeller.Curve) string {
	name := "Ct"
	if table == propeller.PowerTableName {
		name = "Cp"
	}
	if c.PitchDeg == 0 {
		return name
	}
	return fmt.Sprintf("%s %g deg", name, c.PitchDeg)
}
