package metric

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

type occupationKey struct {
	major string
	minor string
}

// Treemap breaks the state's records down by occupation major and minor
// group. Each row carries the record count and the KPI computed over that
// group alone. Unclassified occupations are left out.
func Treemap(records []*model.InjuryRecord, state types.StateCode, kpi types.KPI) ([]model.TreemapRow, error) {
	if !kpi.IsValid() {
		return nil, goerr.Wrap(model.ErrUnknownKPI, "cannot build treemap", goerr.V("kpi", kpi))
	}

	groups := make(map[occupationKey][]*model.InjuryRecord)
	for _, r := range FilterState(records, state) {
		if r.OccupationMajor == model.OccupationInsufficientInfo || r.OccupationMajor == model.OccupationNotAssigned {
			continue
		}
		k := occupationKey{major: r.OccupationMajor, minor: r.OccupationMinor}
		groups[k] = append(groups[k], r)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	rows := make([]model.TreemapRow, 0, len(groups))
	for k, group := range groups {
		scores := SafetyScores(group, nil)
		var value float64
		if len(scores) > 0 {
			value = scores[0].Get(kpi)
		}
		rows = append(rows, model.TreemapRow{
			Major:  k.major,
			Minor:  k.minor,
			Count:  len(group),
			Metric: value,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Major != rows[j].Major {
			return rows[i].Major < rows[j].Major
		}
		return rows[i].Minor < rows[j].Minor
	})
	return rows, nil
}
