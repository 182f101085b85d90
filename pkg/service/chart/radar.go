package chart

import (
	"strconv"

	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

const usAverageName = "US average"

// Radar draws the scaled KPIs of the selected state against the scaled
// cross-state mean. Theta labels are the KPI display labels, which is what
// a radar click reports back.
func (b *Builder) Radar(points []model.RadarPoint, opts Options) *model.Figure {
	title := b.title(types.ChartRadar, opts)
	if len(points) == 0 {
		return Placeholder(title, model.NoDataMessage)
	}

	// Close the polygon by repeating the first spoke
	n := len(points) + 1
	theta := make([]string, 0, n)
	stateR := make([]float64, 0, n)
	meanR := make([]float64, 0, n)
	stateRaw := make([][]string, 0, n)
	meanRaw := make([][]string, 0, n)

	for i := 0; i < n; i++ {
		p := points[i%len(points)]
		theta = append(theta, b.mappings.KPILabel(p.KPI))
		stateR = append(stateR, p.ScaledValue)
		meanR = append(meanR, p.ScaledMeanValue)
		stateRaw = append(stateRaw, []string{formatValue(p.Value)})
		meanRaw = append(meanRaw, []string{formatValue(p.MeanValue)})
	}

	const hover = "%{theta}: %{customdata[0]}<extra>%{fullData.name}</extra>"

	return &model.Figure{
		Data: []model.Trace{
			{
				Type:          "scatterpolar",
				Name:          b.mappings.StateName(opts.State),
				R:             stateR,
				Theta:         theta,
				Fill:          "toself",
				CustomData:    stateRaw,
				HoverTemplate: hover,
				Line:          &model.Line{Color: highlightColor, Width: 2},
			},
			{
				Type:          "scatterpolar",
				Name:          usAverageName,
				R:             meanR,
				Theta:         theta,
				Fill:          "toself",
				CustomData:    meanRaw,
				HoverTemplate: hover,
				Line:          &model.Line{Color: mutedColor, Width: 1, Dash: "dash"},
			},
		},
		Layout: model.Layout{
			Title: &model.Title{Text: title},
			Polar: &model.Polar{
				RadialAxis: &model.Axis{Range: []float64{0, 1}, Visible: boolPtr(true)},
			},
			ShowLegend: boolPtr(true),
			Height:     chartHeight,
		},
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
