package model

import (
	"time"

	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Occupation labels excluded from occupation breakdowns
const (
	OccupationInsufficientInfo = "Insufficient info"
	OccupationNotAssigned      = "Not assigned"
)

// Establishment type labels excluded from establishment breakdowns
const (
	EstablishmentNotStated    = "Not Stated"
	EstablishmentInvalidEntry = "Invalid Entry"
)

// InjuryRecord is one reported injury or illness case. Establishment level
// fields (employees, hours) repeat on every case of the same company.
type InjuryRecord struct {
	CaseNumber             string
	CompanyName            string
	EstablishmentType      string
	StateCode              types.StateCode
	Industry               string // NAICS level 5 description
	OccupationMajor        string // SOC major group description
	OccupationMinor        string // SOC minor group description
	TypeOfIncident         string
	IncidentOutcome        string
	DateOfIncident         time.Time
	TimeStartedWork        time.Time
	TimeOfIncident         time.Time
	AnnualAverageEmployees float64
	TotalHoursWorked       float64
	Death                  float64
	DaysAwayFromWork       float64
	DaysJobTransfer        float64
}

// StartedWorkHour returns the shift start as fractional hours since midnight
func (r *InjuryRecord) StartedWorkHour() float64 {
	return fractionalHour(r.TimeStartedWork)
}

// IncidentHour returns the incident time as fractional hours since midnight
func (r *InjuryRecord) IncidentHour() float64 {
	return fractionalHour(r.TimeOfIncident)
}

func fractionalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// CompanyKey identifies the establishment a record belongs to
type CompanyKey struct {
	State   types.StateCode
	Company string
}

// Company returns the deduplication key for establishment level fields
func (r *InjuryRecord) Company() CompanyKey {
	return CompanyKey{State: r.StateCode, Company: r.CompanyName}
}
