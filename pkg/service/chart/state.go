package chart

import (
	"math"

	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Choropleth colors every state by the KPI value. The selected state is
// outlined.
func (b *Builder) Choropleth(stats []model.StateStats, opts Options) *model.Figure {
	title := b.title(types.ChartMap, opts)
	if len(stats) == 0 {
		return Placeholder(title, model.NoDataMessage)
	}

	kpiLabel := b.mappings.KPILabel(opts.kpi())
	locations := make([]string, len(stats))
	z := make([]float64, len(stats))
	text := make([]string, len(stats))
	zMin, zMax := stats[0].KPIValue, stats[0].KPIValue
	for i, s := range stats {
		locations[i] = s.State.String()
		z[i] = s.KPIValue
		text[i] = b.mappings.StateName(s.State)
		zMin = math.Min(zMin, s.KPIValue)
		zMax = math.Max(zMax, s.KPIValue)
	}

	fig := &model.Figure{
		Data: []model.Trace{
			{
				Type:          "choropleth",
				Name:          kpiLabel,
				Locations:     locations,
				LocationMode:  "USA-states",
				Z:             z,
				ZMin:          &zMin,
				ZMax:          &zMax,
				Text:          text,
				ColorScale:    kpiColorScale,
				ColorBar:      &model.ColorBar{Title: kpiLabel},
				HoverTemplate: "%{text}<br>" + kpiLabel + ": %{z:.2f}<extra></extra>",
			},
		},
		Layout: model.Layout{
			Title:  &model.Title{Text: title},
			Geo:    &model.Geo{Scope: "usa"},
			Height: chartHeight,
			Margin: &model.Margin{L: 0, R: 0, T: 40, B: 0},
		},
	}

	for i, s := range stats {
		if s.State != opts.State {
			continue
		}
		fig.Data = append(fig.Data, model.Trace{
			Type:          "choropleth",
			Name:          text[i],
			Locations:     []string{locations[i]},
			LocationMode:  "USA-states",
			Z:             []float64{z[i]},
			ZMin:          &zMin,
			ZMax:          &zMax,
			Text:          []string{text[i]},
			ColorScale:    kpiColorScale,
			ShowScale:     boolPtr(false),
			Marker:        &model.Marker{Line: &model.Line{Color: highlightColor, Width: 3}},
			HoverTemplate: "%{text}<br>" + kpiLabel + ": %{z:.2f}<extra></extra>",
		})
	}
	return fig
}

// Splom draws the scatter plot matrix of the per-state indicators. At least
// two states are needed for a comparison.
func (b *Builder) Splom(stats []model.StateStats, opts Options) *model.Figure {
	title := b.title(types.ChartSplom, opts)
	if len(stats) < 2 {
		return Placeholder(title, model.NoDataMessage)
	}

	columns := []struct {
		label string
		value func(s *model.StateStats) float64
	}{
		{"Mean employees", func(s *model.StateStats) float64 { return s.MeanEmployees }},
		{"Mean hours worked", func(s *model.StateStats) float64 { return s.MeanHoursWorked }},
		{"Mean days away", func(s *model.StateStats) float64 { return s.MeanDaysAway }},
		{"Mean days transferred", func(s *model.StateStats) float64 { return s.MeanDaysTransfer }},
		{"Mean deaths", func(s *model.StateStats) float64 { return s.MeanDeath }},
		{"Injury density", func(s *model.StateStats) float64 { return s.InjuryDensity }},
		{b.mappings.KPILabel(opts.kpi()), func(s *model.StateStats) float64 { return s.KPIValue }},
	}

	dims := make([]model.SplomDimension, len(columns))
	for c, col := range columns {
		values := make([]float64, len(stats))
		for i := range stats {
			values[i] = col.value(&stats[i])
		}
		dims[c] = model.SplomDimension{Label: col.label, Values: values}
	}

	text := make([]string, len(stats))
	colors := make([]string, len(stats))
	sizes := make([]float64, len(stats))
	for i, s := range stats {
		text[i] = b.mappings.StateName(s.State)
		colors[i] = mutedColor
		sizes[i] = 5
		if s.State == opts.State {
			colors[i] = highlightColor
			sizes[i] = 10
		}
	}

	return &model.Figure{
		Data: []model.Trace{
			{
				Type:          "splom",
				Dimensions:    dims,
				Diagonal:      &model.Visibility{Visible: false},
				Text:          text,
				HoverTemplate: "%{text}<extra></extra>",
				Marker:        &model.Marker{Color: colors, Size: sizes, Opacity: 0.8},
			},
		},
		Layout: model.Layout{
			Title:      &model.Title{Text: title},
			ShowLegend: boolPtr(false),
			Height:     800,
			DragMode:   "select",
		},
	}
}
