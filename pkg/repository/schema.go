package repository

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Column names of the preprocessed dataset
const (
	colCaseNumber             = "case_number"
	colCompanyName            = "company_name"
	colEstablishmentType      = "establishment_type"
	colStateCode              = "state_code"
	colIndustry               = "naics_description_5"
	colOccupationMajor        = "soc_description_1"
	colOccupationMinor        = "soc_description_2"
	colTypeOfIncident         = "type_of_incident"
	colIncidentOutcome        = "incident_outcome"
	colDateOfIncident         = "date_of_incident"
	colTimeStartedWork        = "time_started_work"
	colTimeOfIncident         = "time_of_incident"
	colAnnualAverageEmployees = "annual_average_employees"
	colTotalHoursWorked       = "total_hours_worked"
	colDeath                  = "death"
	colDaysAwayFromWork       = "dafw_num_away"
	colDaysJobTransfer        = "djtr_num_tr"
)

// requiredColumns lists every column the dashboard reads, in load order
var requiredColumns = []string{
	colCaseNumber,
	colCompanyName,
	colEstablishmentType,
	colStateCode,
	colIndustry,
	colOccupationMajor,
	colOccupationMinor,
	colTypeOfIncident,
	colIncidentOutcome,
	colDateOfIncident,
	colTimeStartedWork,
	colTimeOfIncident,
	colAnnualAverageEmployees,
	colTotalHoursWorked,
	colDeath,
	colDaysAwayFromWork,
	colDaysJobTransfer,
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	// Postgres renders timestamptz as text in these shapes
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

// parseTimestamp accepts dates, datetimes and bare clock times. An empty
// value yields the zero time.
func parseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, goerr.New("unsupported timestamp format", goerr.V("value", v))
}

// parseNumber parses a numeric cell. Empty and NaN cells count as 0.
func parseNumber(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "nan") {
		return 0, nil
	}
	if b, err := strconv.ParseBool(v); err == nil && !isDigit(v) {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid number", goerr.V("value", v))
	}
	return f, nil
}

func isDigit(v string) bool {
	return v == "0" || v == "1"
}

// recordFromFields builds a record from string cells keyed by column name
func recordFromFields(fields map[string]string) (*model.InjuryRecord, error) {
	r := &model.InjuryRecord{
		CaseNumber:        fields[colCaseNumber],
		CompanyName:       fields[colCompanyName],
		EstablishmentType: fields[colEstablishmentType],
		StateCode:         types.StateCode(strings.ToUpper(strings.TrimSpace(fields[colStateCode]))),
		Industry:          fields[colIndustry],
		OccupationMajor:   fields[colOccupationMajor],
		OccupationMinor:   fields[colOccupationMinor],
		TypeOfIncident:    fields[colTypeOfIncident],
		IncidentOutcome:   fields[colIncidentOutcome],
	}

	timestamps := []struct {
		col string
		dst *time.Time
	}{
		{colDateOfIncident, &r.DateOfIncident},
		{colTimeStartedWork, &r.TimeStartedWork},
		{colTimeOfIncident, &r.TimeOfIncident},
	}
	for _, ts := range timestamps {
		t, err := parseTimestamp(fields[ts.col])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid timestamp column", goerr.V("column", ts.col))
		}
		*ts.dst = t
	}

	numbers := []struct {
		col string
		dst *float64
	}{
		{colAnnualAverageEmployees, &r.AnnualAverageEmployees},
		{colTotalHoursWorked, &r.TotalHoursWorked},
		{colDeath, &r.Death},
		{colDaysAwayFromWork, &r.DaysAwayFromWork},
		{colDaysJobTransfer, &r.DaysJobTransfer},
	}
	for _, n := range numbers {
		f, err := parseNumber(fields[n.col])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid numeric column", goerr.V("column", n.col))
		}
		*n.dst = f
	}

	return r, nil
}
