package model

import "github.com/safetylens/safetytracker/pkg/domain/types"

// KPIRow is one KPI value for a state, optionally broken down by a group
type KPIRow struct {
	State types.StateCode `json:"state"`
	Group string          `json:"group,omitempty"`
	Value float64         `json:"value"`
}

// SafetyScore holds all KPIs of a state (and optional group) side by side
type SafetyScore struct {
	State             types.StateCode `json:"state"`
	Group             string          `json:"group,omitempty"`
	IncidentRate      float64         `json:"incident_rate"`
	FatalityRate      float64         `json:"fatality_rate"`
	LostWorkdayRate   float64         `json:"lost_workday_rate"`
	WorkforceExposure float64         `json:"workforce_exposure"`
	DangerScore       float64         `json:"danger_score"`
}

// Get returns the value of one KPI
func (s *SafetyScore) Get(k types.KPI) float64 {
	switch k {
	case types.KPIIncidentRate:
		return s.IncidentRate
	case types.KPIFatalityRate:
		return s.FatalityRate
	case types.KPILostWorkdayRate:
		return s.LostWorkdayRate
	case types.KPIWorkforceExposure:
		return s.WorkforceExposure
	case types.KPIDangerScore:
		return s.DangerScore
	default:
		return 0
	}
}

// KPIReference holds per-KPI extremes and means over a set of states. It
// scales radar values to 0-1.
type KPIReference struct {
	Min  map[types.KPI]float64 `json:"min"`
	Max  map[types.KPI]float64 `json:"max"`
	Mean map[types.KPI]float64 `json:"mean"`
}

// Scale maps v onto 0-1 using the KPI's min and max. A degenerate range
// scales to 0.
func (r *KPIReference) Scale(k types.KPI, v float64) float64 {
	lo, hi := r.Min[k], r.Max[k]
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// StateStats is the per-state summary behind the map and the scatter matrix
type StateStats struct {
	State            types.StateCode `json:"state"`
	MeanEmployees    float64         `json:"mean_employees"`
	TotalEmployees   float64         `json:"total_employees"`
	MeanHoursWorked  float64         `json:"mean_hours_worked"`
	MeanDaysAway     float64         `json:"mean_days_away"`
	MeanDaysTransfer float64         `json:"mean_days_transfer"`
	MeanDeath        float64         `json:"mean_death"`
	Cases            int             `json:"cases"`
	InjuryDensity    float64         `json:"injury_density"`
	KPI              types.KPI       `json:"kpi"`
	KPIValue         float64         `json:"kpi_value"`
}

// RadarPoint is one spoke of the radar chart
type RadarPoint struct {
	KPI             types.KPI `json:"kpi"`
	Value           float64   `json:"value"`
	ScaledValue     float64   `json:"scaled_value"`
	MeanValue       float64   `json:"mean_value"`
	ScaledMeanValue float64   `json:"scaled_mean_value"`
}

// TreemapRow is one occupation minor group within its major group
type TreemapRow struct {
	Major  string  `json:"major"`
	Minor  string  `json:"minor"`
	Count  int     `json:"count"`
	Metric float64 `json:"metric"`
}

// ScatterRow summarises the cases of one industry
type ScatterRow struct {
	Industry          string  `json:"industry"`
	Cases             int     `json:"cases"`
	MeanStartHour     float64 `json:"mean_start_hour"`
	MeanIncidentHour  float64 `json:"mean_incident_hour"`
	StartedWork       string  `json:"started_work"`
	IncidentTime      string  `json:"incident_time"`
	EstablishmentType string  `json:"establishment_type"`
}

// StackedBarRow holds the establishment type shares of one incident outcome.
// Shares are aligned with StackedBar.EstablishmentTypes and sum to 1.
type StackedBarRow struct {
	Outcome string    `json:"outcome"`
	Shares  []float64 `json:"shares"`
}

// StackedBar is the outcome by establishment type proportion table
type StackedBar struct {
	EstablishmentTypes []string        `json:"establishment_types"`
	Rows               []StackedBarRow `json:"rows"`
}

// IsEmpty returns true if the table has no rows
func (s *StackedBar) IsEmpty() bool {
	return s == nil || len(s.Rows) == 0
}
