package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures by how the dashboard recovers from them
var (
	// ErrTagLoad marks dataset load failures. They are fatal at startup.
	ErrTagLoad = goerr.NewTag("load")
	// ErrTagValidation marks selections that reference unknown values.
	// Callers recover by returning an empty aggregate.
	ErrTagValidation = goerr.NewTag("validation")
	// ErrTagRender marks aggregates that cannot be mapped onto a chart.
	// Callers recover by returning a placeholder figure.
	ErrTagRender = goerr.NewTag("render")
)

// Sentinel errors for domain operations
var (
	ErrUnknownState        = goerr.New("unknown state code", goerr.T(ErrTagValidation))
	ErrUnknownKPI          = goerr.New("unknown KPI", goerr.T(ErrTagValidation))
	ErrUnknownIncidentType = goerr.New("unknown incident type", goerr.T(ErrTagValidation))
	ErrInvalidDateRange    = goerr.New("invalid date range", goerr.T(ErrTagValidation))
	ErrEmptyDataset        = goerr.New("dataset has no records", goerr.T(ErrTagLoad))
)
