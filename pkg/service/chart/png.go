package chart

import (
	"io"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	pngWidth  = 1024
	pngHeight = 512
)

// RenderPNG draws a static rendition of a figure for export. Stacked bars
// and scatter plots keep their shape; radar, map and treemap figures are
// flattened to a bar per category. Placeholders and scatter matrices cannot
// be drawn and return an error tagged ErrTagRender.
func RenderPNG(fig *model.Figure, w io.Writer) error {
	if fig.IsPlaceholder() {
		return goerr.New("nothing to render", goerr.T(model.ErrTagRender))
	}

	title := ""
	if fig.Layout.Title != nil {
		title = fig.Layout.Title.Text
	}

	var renderer interface {
		Render(gochart.RendererProvider, io.Writer) error
	}

	first := fig.Data[0]
	switch first.Type {
	case "bar":
		renderer = stackedBarPNG(title, fig.Data)
	case "scatter":
		renderer = scatterPNG(title, fig)
	case "scatterpolar":
		n := len(first.R)
		if n > 1 && len(first.Theta) == n && first.Theta[0] == first.Theta[n-1] {
			n-- // drop the closing spoke
		}
		renderer = barPNG(title, first.Theta[:n], first.R[:n])
	case "choropleth":
		renderer = barPNG(title, first.Locations, first.Z)
	case "treemap":
		var labels []string
		var values []float64
		for i, parent := range first.Parents {
			if parent == "" || parent == model.RootOccupationLabel {
				continue
			}
			labels = append(labels, first.Labels[i])
			values = append(values, first.Values[i])
		}
		renderer = barPNG(title, labels, values)
	default:
		return goerr.New("chart type cannot be exported as PNG",
			goerr.V("type", first.Type),
			goerr.T(model.ErrTagRender))
	}

	if err := renderer.Render(gochart.PNG, w); err != nil {
		return goerr.Wrap(err, "failed to render PNG",
			goerr.V("type", first.Type),
			goerr.T(model.ErrTagRender))
	}
	return nil
}

func hexColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}

func barPNG(title string, labels []string, values []float64) *gochart.BarChart {
	bars := make([]gochart.Value, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		bars = append(bars, gochart.Value{
			Label: label,
			Value: v,
			Style: gochart.Style{FillColor: hexColor(colorAt(i)), StrokeColor: hexColor(colorAt(i))},
		})
	}

	bc := &gochart.BarChart{
		Title:      title,
		Width:      pngWidth,
		Height:     pngHeight,
		BarWidth:   barWidth(len(bars)),
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Bars:       bars,
	}
	if lo, hi, ok := flatRange(values); ok {
		// go-chart refuses a zero-height value range
		bc.YAxis.Range = &gochart.ContinuousRange{Min: math.Min(0, lo), Max: math.Max(1, hi)}
	}
	return bc
}

// flatRange reports whether every value is the same
func flatRange(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, lo == hi
}

func barWidth(n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Max(4, float64(pngWidth)/float64(n)*0.6))
}

// stackedBarPNG turns one trace per stack segment into one bar per category
func stackedBarPNG(title string, traces []model.Trace) *gochart.StackedBarChart {
	categories, _ := traces[0].Y.([]string)

	bars := make([]gochart.StackedBar, 0, len(categories))
	for i, category := range categories {
		sb := gochart.StackedBar{Name: category}
		for t, tr := range traces {
			x, _ := tr.X.([]float64)
			if i >= len(x) {
				continue
			}
			sb.Values = append(sb.Values, gochart.Value{
				Label: tr.Name,
				Value: x[i],
				Style: gochart.Style{FillColor: hexColor(colorAt(t)), StrokeColor: hexColor(colorAt(t))},
			})
		}
		bars = append(bars, sb)
	}

	return &gochart.StackedBarChart{
		Title:      title,
		Width:      pngWidth,
		Height:     pngHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Bars:       bars,
	}
}

// pointStyle renders points only, without connecting lines
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    6,
		DotColor:    col,
	}
}

func scatterPNG(title string, fig *model.Figure) *gochart.Chart {
	var series []gochart.Series
	for i, tr := range fig.Data {
		xs, _ := tr.X.([]float64)
		ys, _ := tr.Y.([]float64)
		if len(xs) == 0 || len(xs) != len(ys) {
			continue
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    tr.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(hexColor(colorAt(i))),
		})
	}

	xName, yName := "", ""
	if ax := fig.Layout.XAxis; ax != nil && ax.Title != nil {
		xName = ax.Title.Text
	}
	if ax := fig.Layout.YAxis; ax != nil && ax.Title != nil {
		yName = ax.Title.Text
	}

	ch := &gochart.Chart{
		Title:      title,
		Width:      pngWidth,
		Height:     pngHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 160, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: xName, Range: &gochart.ContinuousRange{Min: 0, Max: 24}},
		YAxis:      gochart.YAxis{Name: yName, Range: &gochart.ContinuousRange{Min: 0, Max: 24}},
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.LegendLeft(ch)}
	return ch
}
