package chart

import (
	"math"
	"strconv"

	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

const maxMarkerSize = 40.0

// Scatter plots each industry at its mean shift start (x) and mean incident
// time (y), both in hours. Marker area follows the case count and industries
// are split into one trace per modal establishment type. Zooming on this
// chart drives the work window drill-down.
func (b *Builder) Scatter(rows []model.ScatterRow, opts Options) *model.Figure {
	title := b.title(types.ChartScatter, opts)
	if len(rows) == 0 {
		return Placeholder(title, model.NoDataMessage)
	}

	maxCases := 0
	for _, r := range rows {
		if r.Cases > maxCases {
			maxCases = r.Cases
		}
	}
	sizeRef := 2 * float64(maxCases) / math.Pow(maxMarkerSize, 2)

	byType := make(map[string]int)
	var traces []model.Trace
	for _, r := range rows {
		idx, ok := byType[r.EstablishmentType]
		if !ok {
			idx = len(traces)
			byType[r.EstablishmentType] = idx
			traces = append(traces, model.Trace{
				Type: "scatter",
				Mode: "markers",
				Name: r.EstablishmentType,
				X:    []float64{},
				Y:    []float64{},
				Marker: &model.Marker{
					Color:    colorAt(idx),
					Size:     []float64{},
					SizeMode: "area",
					SizeRef:  sizeRef,
					Opacity:  0.75,
				},
				HoverTemplate: "%{text}<br>Started work: %{customdata[0]}<br>" +
					"Incident: %{customdata[1]}<br>Cases: %{customdata[2]}<extra>%{fullData.name}</extra>",
			})
		}

		tr := &traces[idx]
		tr.X = append(tr.X.([]float64), r.MeanStartHour)
		tr.Y = append(tr.Y.([]float64), r.MeanIncidentHour)
		tr.Marker.Size = append(tr.Marker.Size.([]float64), float64(r.Cases))
		tr.Text = append(tr.Text, r.Industry)
		tr.CustomData = append(tr.CustomData, []string{r.StartedWork, r.IncidentTime, strconv.Itoa(r.Cases)})
	}

	return &model.Figure{
		Data: traces,
		Layout: model.Layout{
			Title: &model.Title{Text: title},
			XAxis: &model.Axis{
				Title: &model.Title{Text: "Mean time started work (h)"},
				Range: []float64{0, 24},
			},
			YAxis: &model.Axis{
				Title: &model.Title{Text: "Mean time of incident (h)"},
				Range: []float64{0, 24},
			},
			ShowLegend: boolPtr(true),
			DragMode:   "zoom",
			Height:     chartHeight,
		},
	}
}
