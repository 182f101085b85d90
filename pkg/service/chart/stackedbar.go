package chart

import (
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// StackedBar draws one horizontal bar per incident outcome, stacked by
// establishment type share. Outcomes are on the y axis, which is what a bar
// click reports back.
func (b *Builder) StackedBar(bar *model.StackedBar, opts Options) *model.Figure {
	title := b.title(types.ChartStackedBar, opts)
	if bar.IsEmpty() || len(bar.EstablishmentTypes) == 0 {
		return Placeholder(title, model.NoDataMessage)
	}

	outcomes := make([]string, len(bar.Rows))
	for i, row := range bar.Rows {
		outcomes[i] = row.Outcome
	}

	traces := make([]model.Trace, 0, len(bar.EstablishmentTypes))
	for t, est := range bar.EstablishmentTypes {
		shares := make([]float64, len(bar.Rows))
		for i, row := range bar.Rows {
			if t < len(row.Shares) {
				shares[i] = row.Shares[t]
			}
		}
		traces = append(traces, model.Trace{
			Type:          "bar",
			Name:          est,
			Orientation:   "h",
			X:             shares,
			Y:             outcomes,
			Marker:        &model.Marker{Color: colorAt(t)},
			HoverTemplate: "%{y}<br>%{fullData.name}: %{x:.1%}<extra></extra>",
		})
	}

	return &model.Figure{
		Data: traces,
		Layout: model.Layout{
			Title:   &model.Title{Text: title},
			BarMode: "stack",
			XAxis: &model.Axis{
				Title:      &model.Title{Text: "Share of cases"},
				Range:      []float64{0, 1},
				TickFormat: ".0%",
			},
			YAxis:      &model.Axis{Title: &model.Title{Text: "Incident outcome"}},
			ShowLegend: boolPtr(true),
			Height:     chartHeight,
			Margin:     &model.Margin{L: 180, R: 10, T: 40, B: 40},
		},
	}
}
