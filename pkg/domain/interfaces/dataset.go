package interfaces

import (
	"time"

	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Dataset is the read-only table of injury records loaded at startup
type Dataset interface {
	// ID identifies this load of the dataset
	ID() types.DatasetID
	// Source is where the dataset was loaded from
	Source() string
	// Records returns all rows. Callers must not modify them.
	Records() []*model.InjuryRecord
	// Len returns the number of rows
	Len() int
	// States returns the sorted distinct state codes present in the data
	States() []types.StateCode
	// IncidentTypes returns the sorted distinct incident types present in the data
	IncidentTypes() []string
	// DateExtent returns the earliest and latest incident dates
	DateExtent() (time.Time, time.Time)
}
