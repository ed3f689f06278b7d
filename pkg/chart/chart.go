package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
)

// Size is the output canvas in inches at DPI.
type Size struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

// DefaultSize is used when a Size field is zero.
var DefaultSize = Size{WidthIn: 6, HeightIn: 4, DPI: 96}

func (s Size) orDefault() Size {
	if s.WidthIn <= 0 {
		s.WidthIn = DefaultSize.WidthIn
	}
	if s.HeightIn <= 0 {
		s.HeightIn = DefaultSize.HeightIn
	}
	if s.DPI <= 0 {
		s.DPI = DefaultSize.DPI
	}
	return s
}

var scoreColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}

func newPlot(title, xlabel string, v *fuzzy.Variable) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "membership"
	p.X.Min, p.X.Max = v.Min(), v.Max()
	p.Y.Min, p.Y.Max = 0, 1.05
	p.Title.Padding = vg.Points(6)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// Membership plots every set of v over its universe.
func Membership(v *fuzzy.Variable) (*plot.Plot, error) {
	p := newPlot(v.Name()+" membership", v.Name(), v)
	u := v.Universe()
	for i, s := range v.Sets() {
		line, err := plotter.NewLine(xys(u, s.Curve(u)))
		if err != nil {
			return nil, fmt.Errorf("chart: %s.%s: %w", v.Name(), s.Name, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	return p, nil
}

// Aggregate plots an aggregated consequent curve over the universe of v,
// with the set outlines dashed behind it and a vertical marker at score.
func Aggregate(v *fuzzy.Variable, curve []float64, score float64) (*plot.Plot, error) {
	u := v.Universe()
	if len(curve) != len(u) {
		return nil, fmt.Errorf("chart: curve has %d points, %s universe has %d", len(curve), v.Name(), len(u))
	}
	p := newPlot(fmt.Sprintf("%s = %.1f", v.Name(), score), v.Name(), v)

	for i, s := range v.Sets() {
		line, err := plotter.NewLine(xys(u, s.Curve(u)))
		if err != nil {
			return nil, fmt.Errorf("chart: %s.%s: %w", v.Name(), s.Name, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	// Close the area down to the axis at both ends.
	area := make(plotter.XYs, 0, len(u)+2)
	area = append(area, plotter.XY{X: u[0], Y: 0})
	area = append(area, xys(u, curve)...)
	area = append(area, plotter.XY{X: u[len(u)-1], Y: 0})
	poly, err := plotter.NewPolygon(area)
	if err != nil {
		return nil, fmt.Errorf("chart: aggregate: %w", err)
	}
	poly.Color = color.RGBA{R: 70, G: 130, B: 180, A: 140}
	poly.LineStyle.Width = 0
	p.Add(poly)

	marker, err := plotter.NewLine(plotter.XYs{{X: score, Y: 0}, {X: score, Y: 1}})
	if err != nil {
		return nil, fmt.Errorf("chart: marker: %w", err)
	}
	marker.LineStyle.Width = vg.Points(2.5)
	marker.LineStyle.Color = scoreColor
	p.Add(marker)
	p.Legend.Add("score", marker)
	return p, nil
}

// PNG rasterises p to w.
func PNG(p *plot.Plot, w io.Writer, size Size) error {
	size = size.orDefault()
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(size.WidthIn)*vg.Inch, vg.Length(size.HeightIn)*vg.Inch),
		vgimg.UseDPI(size.DPI),
	)
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("chart: write png: %w", err)
	}
	return nil
}

// MembershipPNG renders Membership(v) as PNG bytes.
func MembershipPNG(v *fuzzy.Variable, size Size) ([]byte, error) {
	p, err := Membership(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := PNG(p, &buf, size); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AggregatePNG renders Aggregate(v, curve, score) as PNG bytes.
func AggregatePNG(v *fuzzy.Variable, curve []float64, score float64, size Size) ([]byte, error) {
	p, err := Aggregate(v, curve, score)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := PNG(p, &buf, size); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
