// Package metric filters injury records and aggregates them into the
// summary tables behind each chart. Every function is pure: records are
// never modified and outputs are sorted by their group keys.
package metric

import (
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
)

// FilterAndAggregate applies the whole selection to the dataset and returns
// the selected KPI per industry of the selected state, or per state when no
// state is selected. A state without records gives an empty result.
func FilterAndAggregate(ds interfaces.Dataset, sel *model.Selection) ([]model.KPIRow, error) {
	records, err := Filter(ds, sel)
	if err != nil {
		return nil, err
	}
	records = Drill(records, sel)

	if sel.State == "" {
		return ComputeKPI(records, sel.KPIOrDefault(), nil)
	}
	return ComputeKPI(FilterState(records, sel.State), sel.KPIOrDefault(), ByIndustry)
}

// SelectionStats describes the size and range of an aggregate
type SelectionStats struct {
	Rows int     `json:"rows"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Summarize returns the row count and value range of an aggregate
func Summarize(rows []model.KPIRow) SelectionStats {
	stats := SelectionStats{Rows: len(rows)}
	for i, r := range rows {
		if i == 0 || r.Value < stats.Min {
			stats.Min = r.Value
		}
		if i == 0 || r.Value > stats.Max {
			stats.Max = r.Value
		}
	}
	return stats
}
