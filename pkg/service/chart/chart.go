// Package chart maps aggregate tables onto Plotly figures. Builders never
// fail: an empty or undrawable aggregate becomes a placeholder figure.
package chart

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Default color palette for categorical series
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

const (
	highlightColor = "#EF4444"
	mutedColor     = "#94A3B8"
	kpiColorScale  = "YlOrRd"
	chartHeight    = 450
)

func colorAt(i int) string {
	return defaultColors[i%len(defaultColors)]
}

// Builder builds figures. It resolves KPI labels and state names from the
// mapping tables.
type Builder struct {
	mappings *model.Mappings
}

// New creates a chart builder
func New(mappings *model.Mappings) *Builder {
	return &Builder{mappings: mappings}
}

// Options carries the display parameters shared by all chart kinds
type Options struct {
	State types.StateCode
	KPI   types.KPI
}

func (o Options) kpi() types.KPI {
	if o.KPI == "" {
		return types.DefaultKPI
	}
	return o.KPI
}

// Build dispatches to the builder of kind. A payload whose type does not
// match the kind yields a placeholder figure together with an error tagged
// ErrTagRender, so the caller can log it and still render something.
func (b *Builder) Build(kind types.ChartKind, payload any, opts Options) (*model.Figure, error) {
	var fig *model.Figure
	ok := true

	switch kind {
	case types.ChartRadar:
		var v []model.RadarPoint
		if v, ok = payload.([]model.RadarPoint); ok {
			fig = b.Radar(v, opts)
		}
	case types.ChartMap:
		var v []model.StateStats
		if v, ok = payload.([]model.StateStats); ok {
			fig = b.Choropleth(v, opts)
		}
	case types.ChartSplom:
		var v []model.StateStats
		if v, ok = payload.([]model.StateStats); ok {
			fig = b.Splom(v, opts)
		}
	case types.ChartTreemap:
		var v []model.TreemapRow
		if v, ok = payload.([]model.TreemapRow); ok {
			fig = b.Treemap(v, opts)
		}
	case types.ChartScatter:
		var v []model.ScatterRow
		if v, ok = payload.([]model.ScatterRow); ok {
			fig = b.Scatter(v, opts)
		}
	case types.ChartStackedBar:
		var v *model.StackedBar
		if v, ok = payload.(*model.StackedBar); ok {
			fig = b.StackedBar(v, opts)
		}
	default:
		return Placeholder(kind.String(), model.NoDataMessage),
			goerr.New("unknown chart kind", goerr.V("kind", kind), goerr.T(model.ErrTagRender))
	}

	if !ok {
		return Placeholder(b.title(kind, opts), model.NoDataMessage),
			goerr.New("payload does not match chart kind",
				goerr.V("kind", kind),
				goerr.V("payload", typeName(payload)),
				goerr.T(model.ErrTagRender))
	}
	return fig, nil
}

func (b *Builder) title(kind types.ChartKind, opts Options) string {
	state := b.mappings.StateName(opts.State)
	switch kind {
	case types.ChartRadar:
		return "Safety profile of " + state
	case types.ChartMap:
		return b.mappings.KPILabel(opts.kpi()) + " by state"
	case types.ChartSplom:
		return "State indicators"
	case types.ChartTreemap:
		return b.mappings.KPILabel(opts.kpi()) + " by occupation in " + state
	case types.ChartScatter:
		return "Shift start vs incident time by industry in " + state
	case types.ChartStackedBar:
		return "Incident outcome by establishment type in " + state
	default:
		return kind.String()
	}
}

// Placeholder returns a figure without traces that shows msg in the middle
// of hidden axes
func Placeholder(title, msg string) *model.Figure {
	hidden := false
	return &model.Figure{
		Data: []model.Trace{},
		Layout: model.Layout{
			Title: &model.Title{Text: title},
			XAxis: &model.Axis{Visible: &hidden},
			YAxis: &model.Axis{Visible: &hidden},
			Annotations: []model.Annotation{
				{
					Text:      msg,
					XRef:      "paper",
					YRef:      "paper",
					X:         0.5,
					Y:         0.5,
					ShowArrow: false,
				},
			},
			Height: chartHeight,
		},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
