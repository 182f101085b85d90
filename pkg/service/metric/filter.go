package metric

import (
	"time"

	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Filter applies the date range and incident type part of a selection to
// the dataset. When the range covers the whole dataset and no incident type
// is chosen, the dataset's own slice is returned as is.
func Filter(ds interfaces.Dataset, sel *model.Selection) ([]*model.InjuryRecord, error) {
	minDate, maxDate := ds.DateExtent()
	start, end, err := sel.DateRange(minDate, maxDate)
	if err != nil {
		return nil, err
	}

	if start.Equal(minDate) && end.Equal(maxDate) && len(sel.IncidentTypes) == 0 {
		return ds.Records(), nil
	}

	return FilterRecords(ds.Records(), start, end, sel.IncidentTypes), nil
}

// FilterRecords keeps records whose incident date is within [start, end]
// and, if incidentTypes is not empty, whose incident type is one of them
func FilterRecords(records []*model.InjuryRecord, start, end time.Time, incidentTypes []string) []*model.InjuryRecord {
	var allowed map[string]struct{}
	if len(incidentTypes) > 0 {
		allowed = make(map[string]struct{}, len(incidentTypes))
		for _, t := range incidentTypes {
			allowed[t] = struct{}{}
		}
	}

	result := make([]*model.InjuryRecord, 0, len(records))
	for _, r := range records {
		if r.DateOfIncident.Before(start) || r.DateOfIncident.After(end) {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[r.TypeOfIncident]; !ok {
				continue
			}
		}
		result = append(result, r)
	}
	return result
}

func filterBy(records []*model.InjuryRecord, keep func(*model.InjuryRecord) bool) []*model.InjuryRecord {
	result := make([]*model.InjuryRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			result = append(result, r)
		}
	}
	return result
}

// FilterState keeps records of one state
func FilterState(records []*model.InjuryRecord, state types.StateCode) []*model.InjuryRecord {
	return filterBy(records, func(r *model.InjuryRecord) bool {
		return r.StateCode == state
	})
}

// FilterOutcome keeps records with the given incident outcome. An empty
// outcome keeps everything.
func FilterOutcome(records []*model.InjuryRecord, outcome string) []*model.InjuryRecord {
	if outcome == "" {
		return records
	}
	return filterBy(records, func(r *model.InjuryRecord) bool {
		return r.IncidentOutcome == outcome
	})
}

// FilterOccupation narrows records to a treemap node. A parent other than the
// root selects one minor group; otherwise a label other than the root selects
// a whole major group. The root node keeps everything.
func FilterOccupation(records []*model.InjuryRecord, parent, label string) []*model.InjuryRecord {
	switch {
	case parent != "" && parent != model.RootOccupationLabel:
		return filterBy(records, func(r *model.InjuryRecord) bool {
			return r.OccupationMajor == parent && r.OccupationMinor == label
		})
	case label != "" && label != model.RootOccupationLabel:
		return filterBy(records, func(r *model.InjuryRecord) bool {
			return r.OccupationMajor == label
		})
	default:
		return records
	}
}

// FilterWindow keeps records whose shift start and incident time fall in
// the window. Each axis is only applied when both of its bounds are set.
func FilterWindow(records []*model.InjuryRecord, w *model.WorkWindow) []*model.InjuryRecord {
	if w.IsEmpty() {
		return records
	}
	return filterBy(records, func(r *model.InjuryRecord) bool {
		if w.HasStartRange() {
			h := r.StartedWorkHour()
			if h < *w.StartMin || h > *w.StartMax {
				return false
			}
		}
		if w.HasIncidentRange() {
			h := r.IncidentHour()
			if h < *w.IncidentMin || h > *w.IncidentMax {
				return false
			}
		}
		return true
	})
}

// Drill applies the chart drill-down fields of a selection
func Drill(records []*model.InjuryRecord, sel *model.Selection) []*model.InjuryRecord {
	records = FilterOutcome(records, sel.Outcome)
	records = FilterOccupation(records, sel.OccupationParent, sel.OccupationLabel)
	return FilterWindow(records, sel.Window)
}
