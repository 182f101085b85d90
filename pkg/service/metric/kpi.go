package metric

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Danger score weights and rate scales
const (
	dangerWeightIncident = 2.38
	dangerWeightFatality = 3.33
	dangerWeightLostDays = 0.37
	dangerWeightExposure = 1.4
	incidentRatePerHours = 1e5
	fatalityRatePerCases = 1e4
	exposurePerEmployees = 1e2
)

// Column extracts an extra grouping value from a record
type Column func(*model.InjuryRecord) string

// Grouping columns for KPI breakdowns
var (
	ByIndustry          Column = func(r *model.InjuryRecord) string { return r.Industry }
	ByOccupationMajor   Column = func(r *model.InjuryRecord) string { return r.OccupationMajor }
	ByOccupationMinor   Column = func(r *model.InjuryRecord) string { return r.OccupationMinor }
	ByEstablishmentType Column = func(r *model.InjuryRecord) string { return r.EstablishmentType }
	ByIncidentOutcome   Column = func(r *model.InjuryRecord) string { return r.IncidentOutcome }
)

type groupKey struct {
	state types.StateCode
	group string
}

// tally accumulates case level sums and company level sums of one group.
// Company level fields are counted once per (state, company), on the first
// record seen for that company.
type tally struct {
	cases        int
	death        float64
	daysAway     float64
	daysTransfer float64
	hours        float64
	employees    float64
}

func (t *tally) incidentRate() float64 {
	if t.hours <= 0 {
		return 0
	}
	return float64(t.cases) / t.hours * incidentRatePerHours
}

func (t *tally) fatalityRate() float64 {
	if t.cases == 0 {
		return 0
	}
	return t.death / float64(t.cases) * fatalityRatePerCases
}

func (t *tally) lostWorkdayRate() float64 {
	if t.cases == 0 {
		return 0
	}
	return (t.daysAway + t.daysTransfer) / float64(t.cases)
}

func (t *tally) workforceExposure() float64 {
	if t.cases == 0 || t.employees <= 0 {
		return 0
	}
	return float64(t.cases) / t.employees * exposurePerEmployees
}

func (t *tally) score(k groupKey) model.SafetyScore {
	s := model.SafetyScore{
		State:             k.state,
		Group:             k.group,
		IncidentRate:      t.incidentRate(),
		FatalityRate:      t.fatalityRate(),
		LostWorkdayRate:   t.lostWorkdayRate(),
		WorkforceExposure: t.workforceExposure(),
	}
	s.DangerScore = dangerWeightIncident*s.IncidentRate +
		dangerWeightFatality*s.FatalityRate +
		dangerWeightLostDays*s.LostWorkdayRate +
		dangerWeightExposure*s.WorkforceExposure
	return s
}

// tallies groups records by state and the optional column. Keys come back
// sorted by state, then group.
func tallies(records []*model.InjuryRecord, by Column) (map[groupKey]*tally, []groupKey) {
	groups := make(map[groupKey]*tally)
	var keys []groupKey
	seen := make(map[model.CompanyKey]struct{})

	for _, r := range records {
		k := groupKey{state: r.StateCode}
		if by != nil {
			k.group = by(r)
		}

		t, ok := groups[k]
		if !ok {
			t = &tally{}
			groups[k] = t
			keys = append(keys, k)
		}

		t.cases++
		t.death += r.Death
		t.daysAway += r.DaysAwayFromWork
		t.daysTransfer += r.DaysJobTransfer

		if _, dup := seen[r.Company()]; !dup {
			seen[r.Company()] = struct{}{}
			t.hours += r.TotalHoursWorked
			t.employees += r.AnnualAverageEmployees
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].state != keys[j].state {
			return keys[i].state < keys[j].state
		}
		return keys[i].group < keys[j].group
	})
	return groups, keys
}

// SafetyScores computes every KPI per state, or per state and column value
// when by is not nil
func SafetyScores(records []*model.InjuryRecord, by Column) []model.SafetyScore {
	groups, keys := tallies(records, by)
	if len(keys) == 0 {
		return nil
	}

	scores := make([]model.SafetyScore, 0, len(keys))
	for _, k := range keys {
		scores = append(scores, groups[k].score(k))
	}
	return scores
}

// ComputeKPI computes one KPI per state, or per state and column value
func ComputeKPI(records []*model.InjuryRecord, kpi types.KPI, by Column) ([]model.KPIRow, error) {
	if !kpi.IsValid() {
		return nil, goerr.Wrap(model.ErrUnknownKPI, "cannot compute KPI", goerr.V("kpi", kpi))
	}

	scores := SafetyScores(records, by)
	if len(scores) == 0 {
		return nil, nil
	}

	rows := make([]model.KPIRow, 0, len(scores))
	for i := range scores {
		rows = append(rows, model.KPIRow{
			State: scores[i].State,
			Group: scores[i].Group,
			Value: scores[i].Get(kpi),
		})
	}
	return rows, nil
}

// Reference computes min, max and mean of every KPI across the given
// per-state scores
func Reference(scores []model.SafetyScore) *model.KPIReference {
	ref := &model.KPIReference{
		Min:  make(map[types.KPI]float64, len(types.AllKPIs)),
		Max:  make(map[types.KPI]float64, len(types.AllKPIs)),
		Mean: make(map[types.KPI]float64, len(types.AllKPIs)),
	}
	if len(scores) == 0 {
		return ref
	}

	for _, k := range types.AllKPIs {
		lo, hi, sum := scores[0].Get(k), scores[0].Get(k), 0.0
		for i := range scores {
			v := scores[i].Get(k)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			sum += v
		}
		ref.Min[k] = lo
		ref.Max[k] = hi
		ref.Mean[k] = sum / float64(len(scores))
	}
	return ref
}
