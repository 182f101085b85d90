package chart

import (
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Treemap nests occupation minor groups under their major group under a
// single root. Tile area is the case count and tile color the KPI. Parent
// colors are the count weighted mean of their children.
//
// Node ids are chosen so a click reports parent and label the way the
// occupation drill-down expects: a major group's parent is the root, a minor
// group's parent is its major group name.
func (b *Builder) Treemap(rows []model.TreemapRow, opts Options) *model.Figure {
	title := b.title(types.ChartTreemap, opts)
	if len(rows) == 0 {
		return Placeholder(title, model.NoDataMessage)
	}

	type parentAccum struct {
		count  int
		metric float64
	}

	var (
		ids     = []string{model.RootOccupationLabel}
		labels  = []string{model.RootOccupationLabel}
		parents = []string{""}
		values  = []float64{0}
		colors  = []float64{0}
	)

	majors := make(map[string]*parentAccum)
	var majorOrder []string
	total := &parentAccum{}

	for _, r := range rows {
		acc, ok := majors[r.Major]
		if !ok {
			acc = &parentAccum{}
			majors[r.Major] = acc
			majorOrder = append(majorOrder, r.Major)
		}
		acc.count += r.Count
		acc.metric += r.Metric * float64(r.Count)
		total.count += r.Count
		total.metric += r.Metric * float64(r.Count)
	}

	for _, major := range majorOrder {
		acc := majors[major]
		ids = append(ids, major)
		labels = append(labels, major)
		parents = append(parents, model.RootOccupationLabel)
		values = append(values, float64(acc.count))
		colors = append(colors, weightedMean(acc.metric, acc.count))
	}

	for _, r := range rows {
		ids = append(ids, r.Major+"/"+r.Minor)
		labels = append(labels, r.Minor)
		parents = append(parents, r.Major)
		values = append(values, float64(r.Count))
		colors = append(colors, r.Metric)
	}

	values[0] = float64(total.count)
	colors[0] = weightedMean(total.metric, total.count)

	kpiLabel := b.mappings.KPILabel(opts.kpi())
	return &model.Figure{
		Data: []model.Trace{
			{
				Type:         "treemap",
				IDs:          ids,
				Labels:       labels,
				Parents:      parents,
				Values:       values,
				BranchValues: "total",
				Marker: &model.Marker{
					Colors:     colors,
					ColorScale: kpiColorScale,
					ShowScale:  true,
					ColorBar:   &model.ColorBar{Title: kpiLabel},
				},
				HoverTemplate: "%{label}<br>Cases: %{value}<br>" + kpiLabel + ": %{color:.2f}<extra></extra>",
			},
		},
		Layout: model.Layout{
			Title:  &model.Title{Text: title},
			Height: chartHeight,
			Margin: &model.Margin{L: 10, R: 10, T: 40, B: 10},
		},
	}
}

func weightedMean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
