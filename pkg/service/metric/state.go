package metric

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

type stateAccum struct {
	companies      int
	totalEmployees float64
	totalHours     float64
	cases          int
	daysAway       float64
	daysTransfer   float64
	death          float64
}

// StateData summarises each state for the map and the scatter matrix.
// Employee and hours figures are averaged over companies; case level
// figures are averaged over cases.
func StateData(records []*model.InjuryRecord, kpi types.KPI) ([]model.StateStats, error) {
	kpiRows, err := ComputeKPI(records, kpi, nil)
	if err != nil {
		return nil, err
	}
	if len(kpiRows) == 0 {
		return nil, nil
	}

	accums := make(map[types.StateCode]*stateAccum)
	seen := make(map[model.CompanyKey]struct{})
	for _, r := range records {
		a, ok := accums[r.StateCode]
		if !ok {
			a = &stateAccum{}
			accums[r.StateCode] = a
		}

		a.cases++
		a.daysAway += r.DaysAwayFromWork
		a.daysTransfer += r.DaysJobTransfer
		a.death += r.Death

		if _, dup := seen[r.Company()]; !dup {
			seen[r.Company()] = struct{}{}
			a.companies++
			a.totalEmployees += r.AnnualAverageEmployees
			a.totalHours += r.TotalHoursWorked
		}
	}

	stats := make([]model.StateStats, 0, len(kpiRows))
	for _, row := range kpiRows {
		a, ok := accums[row.State]
		if !ok {
			return nil, goerr.New("state missing from accumulation", goerr.V("state", row.State))
		}

		s := model.StateStats{
			State:            row.State,
			TotalEmployees:   a.totalEmployees,
			MeanEmployees:    a.totalEmployees / float64(a.companies),
			MeanHoursWorked:  a.totalHours / float64(a.companies),
			MeanDaysAway:     a.daysAway / float64(a.cases),
			MeanDaysTransfer: a.daysTransfer / float64(a.cases),
			MeanDeath:        a.death / float64(a.cases),
			Cases:            a.cases,
			KPI:              kpi,
			KPIValue:         row.Value,
		}
		if s.MeanEmployees > 0 {
			s.InjuryDensity = float64(a.cases) / a.totalEmployees
		}
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].State < stats[j].State })
	return stats, nil
}
