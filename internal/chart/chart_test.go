package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/internal/solver"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	"github.com/iwvelando/production-optimizer/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"
)

func referenceSolution() solver.Solution {
	return solver.Solution{
		Success:    true,
		Status:     solver.StatusOptimal,
		Quantities: []float64{0, 50},
		Profit:     250000,
	}
}

func TestAxisMaxUsesLargestIntercept(t *testing.T) {
	in := testutil.ReferenceInput()

	// Tea intercepts: water 40, sugar 80, labor 100.
	assert.InDelta(t, 120, AxisMax(in, model.TeaBottle, 0), 1e-9)
	// Juice intercepts: water 50, sugar 57.14, labor 83.33.
	assert.InDelta(t, 100, AxisMax(in, model.FruitJuice, 50), 1e-9)
}

func TestAxisMaxUsesQuantityWhenLarger(t *testing.T) {
	in := testutil.ReferenceInput()

	assert.InDelta(t, 240, AxisMax(in, model.TeaBottle, 200), 1e-9)
}

func TestAxisMaxSkipsZeroRequirements(t *testing.T) {
	in := testutil.ReferenceInput()
	in.TeaBottle.Labor = 0
	in.TeaBottle.Sugar = 0

	assert.InDelta(t, 48, AxisMax(in, model.TeaBottle, 0), 1e-9)
}

func TestAxisMaxFallsBackToNominalSpan(t *testing.T) {
	in := model.Input{Capacities: model.Capacities{Water: 100, Sugar: 100, Labor: 100}}

	assert.Equal(t, constants.ChartNominalSpan, AxisMax(in, model.TeaBottle, 0))
	assert.Equal(t, constants.ChartNominalSpan, AxisMax(in, model.FruitJuice, 0))
}

func TestDeriveReferenceGeometry(t *testing.T) {
	in := testutil.ReferenceInput()

	g, err := Derive(in, referenceSolution(), Options{Samples: 11})
	require.NoError(t, err)

	assert.InDelta(t, 120, g.XMax, 1e-9)
	assert.InDelta(t, 100, g.YMax, 1e-9)
	assert.Equal(t, Point{X: 0, Y: 50}, g.Optimum)
	assert.Equal(t, "(0.0, 50.0)", g.Label)
	assert.InDelta(t, 2.4, g.LabelAt.X, 1e-9)
	assert.InDelta(t, 52, g.LabelAt.Y, 1e-9)

	require.Len(t, g.Lines, 3)
	for i, r := range model.Resources {
		line := g.Lines[i]
		assert.Equal(t, r, line.Resource)
		assert.Equal(t, LineSloped, line.Kind)
		require.Len(t, line.XValues, 11)
		require.Len(t, line.YValues, 11)
		assert.Equal(t, 0.0, line.XValues[0])
		assert.Equal(t, g.XMax, line.XValues[10])
	}

	water := g.Lines[0]
	assert.InDelta(t, 50, water.YValues[0], 1e-9)
	// (20000 - 500*120) / 400
	assert.InDelta(t, -100, water.YValues[10], 1e-9)

	require.Len(t, water.Segment, 2)
	assert.InDelta(t, 0, water.Segment[0].X, 1e-9)
	assert.InDelta(t, 50, water.Segment[0].Y, 1e-9)
	assert.InDelta(t, 40, water.Segment[1].X, 1e-9)
	assert.InDelta(t, 0, water.Segment[1].Y, 1e-9)
}

func TestDeriveLineKinds(t *testing.T) {
	in := testutil.ReferenceInput()
	in.FruitJuice.Sugar = 0 // sugar becomes a vertical line at x = 80
	in.TeaBottle.Labor = 0
	in.FruitJuice.Labor = 0 // labor contributes nothing

	g, err := Derive(in, referenceSolution(), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, g.Lines, 2)
	assert.Equal(t, model.Water, g.Lines[0].Resource)

	sugar := g.Lines[1]
	assert.Equal(t, model.Sugar, sugar.Resource)
	assert.Equal(t, LineVertical, sugar.Kind)
	assert.Equal(t, []float64{80, 80}, sugar.XValues)
	assert.Equal(t, []float64{0, g.YMax}, sugar.YValues)
	assert.Equal(t, []Point{{X: 80, Y: 0}, {X: 80, Y: g.YMax}}, sugar.Segment)
}

func TestDeriveHorizontalLine(t *testing.T) {
	in := testutil.ReferenceInput()
	in.TeaBottle.Water = 0

	g, err := Derive(in, referenceSolution(), Options{Samples: 5})
	require.NoError(t, err)

	water := g.Lines[0]
	assert.Equal(t, LineSloped, water.Kind)
	for _, y := range water.YValues {
		assert.InDelta(t, 50, y, 1e-9)
	}
	require.Len(t, water.Segment, 2)
	assert.Equal(t, 0.0, water.Segment[0].X)
	assert.Equal(t, g.XMax, water.Segment[1].X)
}

func TestDeriveRejectsFailedSolution(t *testing.T) {
	_, err := Derive(testutil.ReferenceInput(), solver.Solution{Status: solver.StatusInfeasible}, DefaultOptions())

	assert.True(t, errors.Is(err, ErrNoSolution))
}

func TestClipSloped(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  float64
		expected []Point
	}{
		{name: "crosses both axes", a: 1, b: 1, c: 10, expected: []Point{{X: 0, Y: 10}, {X: 10, Y: 0}}},
		{name: "clipped at top", a: 1, b: 1, c: 30, expected: []Point{{X: 10, Y: 20}, {X: 20, Y: 10}}},
		{name: "outside the box", a: 1, b: 1, c: 100, expected: nil},
		{name: "below the box", a: 1, b: 1, c: -5, expected: nil},
		{name: "horizontal above the box", a: 0, b: 1, c: 25, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipSloped(tt.a, tt.b, tt.c, 20, 20)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.InDelta(t, tt.expected[i].X, got[i].X, 1e-9)
				assert.InDelta(t, tt.expected[i].Y, got[i].Y, 1e-9)
			}
		})
	}
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, linspace(0, 10, 5))
}

func TestRenderPNG(t *testing.T) {
	g, err := Derive(testutil.ReferenceInput(), referenceSolution(), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(g, constants.ChartFormatPNG, Options{Width: 640, Height: 480}, &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "expected PNG signature")
}

func TestRenderSVG(t *testing.T) {
	in := testutil.ReferenceInput()
	in.FruitJuice.Sugar = 0

	g, err := Derive(in, referenceSolution(), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(g, constants.ChartFormatSVG, DefaultOptions(), &buf))

	svg := buf.String()
	assert.True(t, strings.Contains(svg, "<svg"))
	assert.True(t, strings.Contains(svg, "(0.0, 50.0)"))
}

func TestRenderDrawsMajorGrid(t *testing.T) {
	g, err := Derive(testutil.ReferenceInput(), referenceSolution(), DefaultOptions())
	require.NoError(t, err)

	graph := newGraph(g, DefaultOptions())
	for _, style := range []gochart.Style{graph.XAxis.GridMajorStyle, graph.YAxis.GridMajorStyle} {
		assert.Equal(t, gochart.ColorLightGray, style.StrokeColor)
		assert.Equal(t, 1.0, style.StrokeWidth)
		assert.False(t, style.Hidden)
	}

	var buf bytes.Buffer
	require.NoError(t, Render(g, constants.ChartFormatSVG, DefaultOptions(), &buf))
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "stroke:"+gochart.ColorLightGray.String()), 2,
		"expected grid lines on both axes")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	err := Render(Geometry{XMax: 1, YMax: 1}, "gif", DefaultOptions(), &bytes.Buffer{})

	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestContentType(t *testing.T) {
	ct, err := ContentType(constants.ChartFormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	ct, err = ContentType(constants.ChartFormatSVG)
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", ct)

	_, err = ContentType("bmp")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
