package types

// KPI is the internal key of a key performance indicator
type KPI string

const (
	KPIIncidentRate      KPI = "incident_rate"
	KPIFatalityRate      KPI = "fatality_rate"
	KPILostWorkdayRate   KPI = "lost_workday_rate"
	KPIWorkforceExposure KPI = "workforce_exposure"
	KPIDangerScore       KPI = "danger_score"
)

// AllKPIs lists KPIs in display order
var AllKPIs = []KPI{
	KPIIncidentRate,
	KPIFatalityRate,
	KPILostWorkdayRate,
	KPIWorkforceExposure,
	KPIDangerScore,
}

// DefaultKPI is selected when the UI has no KPI yet
const DefaultKPI = KPIIncidentRate

// String returns the string representation of the KPI
func (k KPI) String() string {
	return string(k)
}

// IsValid checks if the KPI is known
func (k KPI) IsValid() bool {
	switch k {
	case KPIIncidentRate, KPIFatalityRate, KPILostWorkdayRate, KPIWorkforceExposure, KPIDangerScore:
		return true
	default:
		return false
	}
}
