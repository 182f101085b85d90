package types

import (
	"github.com/google/uuid"
)

// StateCode represents a two-letter US state or territory abbreviation
type StateCode string

// String returns the string representation
func (s StateCode) String() string {
	return string(s)
}

// DatasetID identifies one load of the dataset for the lifetime of the process
type DatasetID string

// String returns the string representation
func (id DatasetID) String() string {
	return string(id)
}

// NewDatasetID creates a new DatasetID
func NewDatasetID() DatasetID {
	return DatasetID(uuid.New().String())
}

// Tab identifies a dashboard tab
type Tab string

const (
	TabStateAnalysis  Tab = "state_analysis_tab"
	TabMetricAnalysis Tab = "metric_analysis_tab"
)

// String returns the string representation
func (t Tab) String() string {
	return string(t)
}

// IsValid checks if the tab is known
func (t Tab) IsValid() bool {
	switch t {
	case TabStateAnalysis, TabMetricAnalysis:
		return true
	default:
		return false
	}
}

// ChartKind identifies a chart builder
type ChartKind string

const (
	ChartRadar      ChartKind = "radar"
	ChartMap        ChartKind = "map"
	ChartSplom      ChartKind = "splom"
	ChartTreemap    ChartKind = "treemap"
	ChartScatter    ChartKind = "scatter"
	ChartStackedBar ChartKind = "stacked_bar"
)

// String returns the string representation
func (k ChartKind) String() string {
	return string(k)
}

// IsValid checks if the chart kind is known
func (k ChartKind) IsValid() bool {
	switch k {
	case ChartRadar, ChartMap, ChartSplom, ChartTreemap, ChartScatter, ChartStackedBar:
		return true
	default:
		return false
	}
}
