package chart

import (
	"fmt"
	"io"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/pkg/constants"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const title = "Production Constraints and Optimal Solution"

var gridStyle = gochart.Style{StrokeColor: gochart.ColorLightGray, StrokeWidth: 1}

// ContentType returns the MIME type of a chart format.
func ContentType(format string) (string, error) {
	switch format {
	case constants.ChartFormatPNG:
		return gochart.ContentTypePNG, nil
	case constants.ChartFormatSVG:
		return gochart.ContentTypeSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Render draws the geometry as a png or svg image into w.
func Render(g Geometry, format string, opts Options, w io.Writer) error {
	var provider gochart.RendererProvider
	switch format {
	case constants.ChartFormatPNG:
		provider = gochart.PNG
	case constants.ChartFormatSVG:
		provider = gochart.SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	graph := newGraph(g, opts.normalized())
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", format, err)
	}
	return nil
}

// newGraph lays out the constraint series, the optimum marker and its label
// on fixed axes with a major grid.
func newGraph(g Geometry, opts Options) gochart.Chart {
	series := make([]gochart.Series, 0, len(g.Lines)+2)
	for _, line := range g.Lines {
		if len(line.Segment) < 2 {
			continue
		}
		style := gochart.Style{
			StrokeColor: lineColor(line.Resource),
			StrokeWidth: 2,
		}
		if line.Kind == LineVertical {
			style.StrokeDashArray = []float64{6, 4}
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    line.Label,
			Style:   style,
			XValues: []float64{line.Segment[0].X, line.Segment[1].X},
			YValues: []float64{line.Segment[0].Y, line.Segment[1].Y},
		})
	}

	// A single point is duplicated so the series always has two values.
	series = append(series,
		gochart.ContinuousSeries{
			Name: "Optimal solution",
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    7,
				DotColor:    gochart.ColorRed,
			},
			XValues: []float64{g.Optimum.X, g.Optimum.X},
			YValues: []float64{g.Optimum.Y, g.Optimum.Y},
		},
		gochart.AnnotationSeries{
			Annotations: []gochart.Value2{{
				XValue: g.LabelAt.X,
				YValue: g.LabelAt.Y,
				Label:  g.Label,
				Style:  gochart.Style{FontColor: gochart.ColorRed, StrokeColor: gochart.ColorRed},
			}},
		},
	)

	graph := gochart.Chart{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           g.XLabel,
			Range:          &gochart.ContinuousRange{Min: 0, Max: g.XMax},
			GridMajorStyle: gridStyle,
		},
		YAxis: gochart.YAxis{
			Name:           g.YLabel,
			Range:          &gochart.ContinuousRange{Min: 0, Max: g.YMax},
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph
}

func lineColor(r model.Resource) drawing.Color {
	switch r {
	case model.Water:
		return gochart.ColorBlue
	case model.Sugar:
		return gochart.ColorGreen
	case model.Labor:
		return gochart.ColorOrange
	default:
		return gochart.ColorBlack
	}
}
