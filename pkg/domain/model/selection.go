package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// DateLayout is the wire format of dates in selections
const DateLayout = "2006-01-02"

// RootOccupationLabel is the treemap root node
const RootOccupationLabel = "US Market"

// WorkWindow restricts records by shift start hour (X) and incident hour (Y),
// both expressed as fractional hours since midnight. Nil bounds are open.
type WorkWindow struct {
	StartMin    *float64 `json:"start_min,omitempty"`
	StartMax    *float64 `json:"start_max,omitempty"`
	IncidentMin *float64 `json:"incident_min,omitempty"`
	IncidentMax *float64 `json:"incident_max,omitempty"`
}

// IsEmpty returns true if no bound is set on either axis
func (w *WorkWindow) IsEmpty() bool {
	if w == nil {
		return true
	}
	return !w.HasStartRange() && !w.HasIncidentRange()
}

// HasStartRange returns true if both shift start bounds are set
func (w *WorkWindow) HasStartRange() bool {
	return w != nil && w.StartMin != nil && w.StartMax != nil
}

// HasIncidentRange returns true if both incident time bounds are set
func (w *WorkWindow) HasIncidentRange() bool {
	return w != nil && w.IncidentMin != nil && w.IncidentMax != nil
}

// Selection is the set of UI control values that scope a computation
type Selection struct {
	State         types.StateCode `json:"state"`
	KPI           types.KPI       `json:"kpi"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	IncidentTypes []string        `json:"incident_types,omitempty"`

	// Drill-down filters set by chart interactions
	Outcome          string      `json:"outcome,omitempty"`
	OccupationParent string      `json:"occupation_parent,omitempty"`
	OccupationLabel  string      `json:"occupation_label,omitempty"`
	Window           *WorkWindow `json:"window,omitempty"`
}

// DateRange returns the parsed start and end dates. Empty values fall back
// to the given extent.
func (s *Selection) DateRange(minDate, maxDate time.Time) (time.Time, time.Time, error) {
	start, end := minDate, maxDate
	if s.StartDate != "" {
		t, err := parseDate(s.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, goerr.Wrap(err, "invalid start date",
				goerr.V("start_date", s.StartDate),
				goerr.T(ErrTagValidation))
		}
		start = t
	}
	if s.EndDate != "" {
		t, err := parseDate(s.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, goerr.Wrap(err, "invalid end date",
				goerr.V("end_date", s.EndDate),
				goerr.T(ErrTagValidation))
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, goerr.Wrap(ErrInvalidDateRange, "end date before start date",
			goerr.V("start_date", s.StartDate),
			goerr.V("end_date", s.EndDate))
	}
	return start, end, nil
}

// parseDate accepts both plain dates and the ISO timestamps sent by date pickers
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

// KPIOrDefault returns the selected KPI or the default one if unset
func (s *Selection) KPIOrDefault() types.KPI {
	if s.KPI == "" {
		return types.DefaultKPI
	}
	return s.KPI
}

// Key returns a canonical string that identifies the selection. Incident
// types are order-insensitive.
func (s *Selection) Key() string {
	incidentTypes := append([]string(nil), s.IncidentTypes...)
	sort.Strings(incidentTypes)

	var b strings.Builder
	fmt.Fprintf(&b, "state=%s|kpi=%s|from=%s|to=%s|types=%s",
		s.State, s.KPIOrDefault(), s.StartDate, s.EndDate, strings.Join(incidentTypes, ","))
	if s.Outcome != "" {
		fmt.Fprintf(&b, "|outcome=%s", s.Outcome)
	}
	if s.OccupationLabel != "" {
		fmt.Fprintf(&b, "|occ=%s/%s", s.OccupationParent, s.OccupationLabel)
	}
	if !s.Window.IsEmpty() {
		w := s.Window
		if w.HasStartRange() {
			fmt.Fprintf(&b, "|x=%g..%g", *w.StartMin, *w.StartMax)
		}
		if w.HasIncidentRange() {
			fmt.Fprintf(&b, "|y=%g..%g", *w.IncidentMin, *w.IncidentMax)
		}
	}
	return b.String()
}

// BaseFilterKey identifies only the date range and incident type part of the
// selection, which is what the shared filter step depends on
func (s *Selection) BaseFilterKey() string {
	incidentTypes := append([]string(nil), s.IncidentTypes...)
	sort.Strings(incidentTypes)
	return fmt.Sprintf("from=%s|to=%s|types=%s", s.StartDate, s.EndDate, strings.Join(incidentTypes, ","))
}

// Validate checks that the selection only references values known to the
// mapping tables and the dataset. Errors are tagged with ErrTagValidation.
func (s *Selection) Validate(m *Mappings, incidentTypes []string) error {
	if s.State != "" && !m.IsKnownState(s.State) {
		return goerr.Wrap(ErrUnknownState, "state is not in mapping table", goerr.V("state", s.State))
	}
	if s.KPI != "" && (!s.KPI.IsValid() || !m.IsKnownKPI(s.KPI)) {
		return goerr.Wrap(ErrUnknownKPI, "KPI is not selectable", goerr.V("kpi", s.KPI))
	}

	known := make(map[string]bool, len(incidentTypes))
	for _, t := range incidentTypes {
		known[t] = true
	}
	for _, t := range s.IncidentTypes {
		if !known[t] {
			return goerr.Wrap(ErrUnknownIncidentType, "incident type is not in dataset", goerr.V("incident_type", t))
		}
	}

	return nil
}
