package repository

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Memory is an immutable in-memory dataset. Every accessor returns data
// computed once in NewMemory; nothing mutates it afterwards, so it is safe
// for concurrent readers without locking.
type Memory struct {
	id            types.DatasetID
	source        string
	records       []*model.InjuryRecord
	states        []types.StateCode
	incidentTypes []string
	minDate       time.Time
	maxDate       time.Time
}

// NewMemory builds a dataset from loaded records and derives its metadata
func NewMemory(source string, records []*model.InjuryRecord) (interfaces.Dataset, error) {
	if len(records) == 0 {
		return nil, goerr.Wrap(model.ErrEmptyDataset, "no records loaded", goerr.V("source", source))
	}

	stateSet := make(map[types.StateCode]struct{})
	typeSet := make(map[string]struct{})
	var minDate, maxDate time.Time

	for i, r := range records {
		if r == nil {
			return nil, goerr.New("nil record", goerr.V("index", i), goerr.T(model.ErrTagLoad))
		}
		if r.StateCode != "" {
			stateSet[r.StateCode] = struct{}{}
		}
		if r.TypeOfIncident != "" {
			typeSet[r.TypeOfIncident] = struct{}{}
		}
		if r.DateOfIncident.IsZero() {
			continue
		}
		if minDate.IsZero() || r.DateOfIncident.Before(minDate) {
			minDate = r.DateOfIncident
		}
		if maxDate.IsZero() || r.DateOfIncident.After(maxDate) {
			maxDate = r.DateOfIncident
		}
	}

	states := make([]types.StateCode, 0, len(stateSet))
	for s := range stateSet {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	incidentTypes := make([]string, 0, len(typeSet))
	for t := range typeSet {
		incidentTypes = append(incidentTypes, t)
	}
	sort.Strings(incidentTypes)

	// Copy the slice header so later appends by the caller can't alias
	owned := make([]*model.InjuryRecord, len(records))
	copy(owned, records)

	return &Memory{
		id:            types.NewDatasetID(),
		source:        source,
		records:       owned,
		states:        states,
		incidentTypes: incidentTypes,
		minDate:       minDate,
		maxDate:       maxDate,
	}, nil
}

// ID returns the load identifier
func (m *Memory) ID() types.DatasetID {
	return m.id
}

// Source returns where the records were loaded from
func (m *Memory) Source() string {
	return m.source
}

// Records returns all rows
func (m *Memory) Records() []*model.InjuryRecord {
	return m.records
}

// Len returns the number of rows
func (m *Memory) Len() int {
	return len(m.records)
}

// States returns the distinct state codes
func (m *Memory) States() []types.StateCode {
	return append([]types.StateCode(nil), m.states...)
}

// IncidentTypes returns the distinct incident types
func (m *Memory) IncidentTypes() []string {
	return append([]string(nil), m.incidentTypes...)
}

// DateExtent returns the earliest and latest incident dates
func (m *Memory) DateExtent() (time.Time, time.Time) {
	return m.minDate, m.maxDate
}
