// Package chart derives the plot geometry of a solved production plan and
// renders it as an image.
package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/internal/solver"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/samber/lo"
)

var (
	// ErrNoSolution is returned when asked to chart a failed solve.
	ErrNoSolution = errors.New("no feasible solution to chart")

	// ErrUnsupportedFormat is returned for image formats other than png and svg.
	ErrUnsupportedFormat = errors.New("unsupported chart format")
)

// LineKind tells how a resource constraint appears in the tea/juice plane.
type LineKind int

const (
	LineSloped LineKind = iota
	LineVertical
)

func (k LineKind) String() string {
	if k == LineVertical {
		return "vertical"
	}
	return "sloped"
}

// MarshalText lets LineKind appear as a string in JSON payloads.
func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (k *LineKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sloped":
		*k = LineSloped
	case "vertical":
		*k = LineVertical
	default:
		return fmt.Errorf("unknown line kind %q", text)
	}
	return nil
}

// Options controls sampling and image size.
type Options struct {
	Samples int
	Width   int
	Height  int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Samples: constants.DefaultChartSamples,
		Width:   constants.DefaultChartWidth,
		Height:  constants.DefaultChartHeight,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Samples < 2 {
		o.Samples = d.Samples
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// Point is a location in the tea (X) / juice (Y) plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ConstraintLine is the boundary of one resource constraint.
type ConstraintLine struct {
	Resource model.Resource `json:"-"`
	Name     string         `json:"resource"`
	Label    string         `json:"label"`
	Kind     LineKind       `json:"kind"`

	// XValues and YValues sample the whole line over [0, XMax]. A vertical
	// line has two samples at its x position spanning [0, YMax].
	XValues []float64 `json:"xValues"`
	YValues []float64 `json:"yValues"`

	// Segment is the part of the line inside the plot box; empty when the
	// line misses the box.
	Segment []Point `json:"segment,omitempty"`
}

// Geometry is everything needed to draw the feasible region and optimum.
type Geometry struct {
	XMax    float64          `json:"xMax"`
	YMax    float64          `json:"yMax"`
	XLabel  string           `json:"xLabel"`
	YLabel  string           `json:"yLabel"`
	Lines   []ConstraintLine `json:"lines"`
	Optimum Point            `json:"optimum"`
	Label   string           `json:"label"`
	LabelAt Point            `json:"labelAt"`
}

// Derive computes the plot domain, the constraint lines and the optimum marker.
// Resources that no product consumes produce no line.
func Derive(in model.Input, sol solver.Solution, opts Options) (Geometry, error) {
	if !sol.Success {
		return Geometry{}, ErrNoSolution
	}
	opts = opts.normalized()

	optimum := Point{X: sol.Quantity(model.TeaBottle), Y: sol.Quantity(model.FruitJuice)}
	g := Geometry{
		XMax:    AxisMax(in, model.TeaBottle, optimum.X),
		YMax:    AxisMax(in, model.FruitJuice, optimum.Y),
		XLabel:  model.TeaBottle.Label() + " (X1)",
		YLabel:  model.FruitJuice.Label() + " (X2)",
		Optimum: optimum,
		Label:   fmt.Sprintf("(%.1f, %.1f)", optimum.X, optimum.Y),
	}
	g.LabelAt = Point{
		X: optimum.X + constants.ChartLabelOffset*g.XMax,
		Y: optimum.Y + constants.ChartLabelOffset*g.YMax,
	}

	xs := linspace(0, g.XMax, opts.Samples)
	for _, r := range model.Resources {
		if line, ok := constraintLine(in, r, xs, g.XMax, g.YMax); ok {
			g.Lines = append(g.Lines, line)
		}
	}

	return g, nil
}

// AxisMax returns the plot span for product p's axis: 1.2 times the larger of
// the planned quantity and the furthest single-resource intercept, or the
// nominal span when both are zero.
func AxisMax(in model.Input, p model.Product, quantity float64) float64 {
	intercepts := lo.FilterMap(model.Resources, func(r model.Resource, _ int) (float64, bool) {
		req := in.Requirement(p, r)
		if req <= 0 {
			return 0, false
		}
		return in.Capacities.Of(r) / req, true
	})

	span := math.Max(quantity, lo.Max(intercepts)) * constants.ChartPaddingFactor
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return constants.ChartNominalSpan
	}
	return span
}

func constraintLine(in model.Input, r model.Resource, xs []float64, xMax, yMax float64) (ConstraintLine, bool) {
	a := in.Requirement(model.TeaBottle, r)
	b := in.Requirement(model.FruitJuice, r)
	c := in.Capacities.Of(r)

	line := ConstraintLine{
		Resource: r,
		Name:     r.String(),
		Label:    r.Label() + " limit",
	}

	switch {
	case b != 0:
		line.Kind = LineSloped
		line.XValues = xs
		line.YValues = lo.Map(xs, func(x float64, _ int) float64 {
			return (c - a*x) / b
		})
		line.Segment = clipSloped(a, b, c, xMax, yMax)
	case a != 0:
		x := c / a
		line.Kind = LineVertical
		line.XValues = []float64{x, x}
		line.YValues = []float64{0, yMax}
		if x >= 0 && x <= xMax {
			line.Segment = []Point{{X: x, Y: 0}, {X: x, Y: yMax}}
		}
	default:
		return ConstraintLine{}, false
	}

	return line, true
}

// clipSloped intersects a·x + b·y = c (b != 0) with [0, xMax] × [0, yMax].
func clipSloped(a, b, c, xMax, yMax float64) []Point {
	y := func(x float64) float64 { return (c - a*x) / b }

	lower, upper := 0.0, xMax
	if a == 0 {
		if v := c / b; v < 0 || v > yMax {
			return nil
		}
	} else {
		// x where the line crosses y = 0 and y = yMax.
		x0 := c / a
		x1 := (c - b*yMax) / a
		lower = math.Max(lower, math.Min(x0, x1))
		upper = math.Min(upper, math.Max(x0, x1))
	}
	if lower >= upper {
		return nil
	}
	return []Point{{X: lower, Y: y(lower)}, {X: upper, Y: y(upper)}}
}

func linspace(start, end float64, n int) []float64 {
	step := (end - start) / float64(n-1)
	return lo.Times(n, func(i int) float64 {
		if i == n-1 {
			return end
		}
		return start + float64(i)*step
	})
}
