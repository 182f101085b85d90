package model

import (
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// DashboardTitle is shown in the page header and browser title
const DashboardTitle = "US Workplace Safety Tracker"

// NoDataMessage is shown instead of charts when filters match nothing
const NoDataMessage = "No data for filters. Try to change the filters or refresh the page to reset them"

// Control kinds understood by the frontend
const (
	ControlDropdown      = "dropdown"
	ControlMultiDropdown = "multi_dropdown"
	ControlDateRange     = "date_range"
)

// Option is a value/label pair for dropdown controls
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Control declares one sidebar input
type Control struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Kind        string   `json:"kind"`
	Options     []Option `json:"options,omitempty"`
	Default     any      `json:"default,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Clearable   bool     `json:"clearable"`
	// Tabs lists the tabs that show this control; empty means all
	Tabs []types.Tab `json:"tabs,omitempty"`
}

// DateRangeDefault is the default value of a date range control
type DateRangeDefault struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	DisplayFormat string `json:"display_format"`
}

// ChartSlot declares where a chart is placed inside a tab grid
type ChartSlot struct {
	ID         string          `json:"id"`
	Kind       types.ChartKind `json:"kind"`
	GridColumn string          `json:"grid_column"`
	GridRow    string          `json:"grid_row"`
}

// TabLayout declares one tab and its chart grid
type TabLayout struct {
	ID     types.Tab   `json:"id"`
	Label  string      `json:"label"`
	Charts []ChartSlot `json:"charts"`
}

// DashboardLayout is the static arrangement of controls and chart containers
type DashboardLayout struct {
	Title      string      `json:"title"`
	Controls   []Control   `json:"controls"`
	Tabs       []TabLayout `json:"tabs"`
	DefaultTab types.Tab   `json:"default_tab"`
}

// Options lists the values available to dropdown controls
type Options struct {
	States        []StateOption `json:"states"`
	KPIs          []KPIOption   `json:"kpis"`
	IncidentTypes []string      `json:"incident_types"`
	MinDate       string        `json:"min_date"`
	MaxDate       string        `json:"max_date"`
}

// NewDashboardLayout declares the dashboard controls and tabs
func NewDashboardLayout(opts *Options) *DashboardLayout {
	states := make([]Option, 0, len(opts.States))
	for _, s := range opts.States {
		states = append(states, Option{Value: s.Code.String(), Label: s.Name})
	}
	kpis := make([]Option, 0, len(opts.KPIs))
	for _, k := range opts.KPIs {
		kpis = append(kpis, Option{Value: k.Key.String(), Label: k.Label})
	}
	incidentTypes := make([]Option, 0, len(opts.IncidentTypes))
	for _, t := range opts.IncidentTypes {
		incidentTypes = append(incidentTypes, Option{Value: t, Label: t})
	}

	var defaultState any
	if len(states) > 0 {
		defaultState = states[0].Value
	}

	return &DashboardLayout{
		Title: DashboardTitle,
		Controls: []Control{
			{
				ID:          "state-dropdown",
				Title:       "Select State",
				Kind:        ControlDropdown,
				Options:     states,
				Default:     defaultState,
				Placeholder: "Select State",
			},
			{
				ID:          "kpi-select-dropdown",
				Title:       "Select KPI",
				Kind:        ControlDropdown,
				Options:     kpis,
				Default:     types.DefaultKPI.String(),
				Placeholder: "Select KPI",
				Tabs:        []types.Tab{types.TabStateAnalysis},
			},
			{
				ID:    "date-picker-range",
				Title: "Select Date Range",
				Kind:  ControlDateRange,
				Default: DateRangeDefault{
					Start:         opts.MinDate,
					End:           opts.MaxDate,
					DisplayFormat: "DD/MM/YYYY",
				},
			},
			{
				ID:          "incident-filter-dropdown",
				Title:       "Filter by Incident Type",
				Kind:        ControlMultiDropdown,
				Options:     incidentTypes,
				Placeholder: "Select one or more categories",
				Clearable:   true,
			},
		},
		Tabs: []TabLayout{
			{
				ID:    types.TabStateAnalysis,
				Label: "State Performance Overview",
				Charts: []ChartSlot{
					{ID: "radar-chart", Kind: types.ChartRadar, GridColumn: "1", GridRow: "1"},
					{ID: "map-container", Kind: types.ChartMap, GridColumn: "2", GridRow: "1"},
					{ID: "splom-container", Kind: types.ChartSplom, GridColumn: "1/3", GridRow: "2"},
				},
			},
			{
				ID:    types.TabMetricAnalysis,
				Label: "In-Depth State Insights",
				Charts: []ChartSlot{
					{ID: "scatter-plot", Kind: types.ChartScatter, GridColumn: "1", GridRow: "1"},
					{ID: "stacked-bar-chart", Kind: types.ChartStackedBar, GridColumn: "2", GridRow: "1"},
					{ID: "treemap-chart", Kind: types.ChartTreemap, GridColumn: "1/3", GridRow: "2"},
				},
			},
		},
		DefaultTab: types.TabStateAnalysis,
	}
}

// KPISelectorVisible reports whether the KPI dropdown is shown on a tab
func (l *DashboardLayout) KPISelectorVisible(tab types.Tab) bool {
	for _, c := range l.Controls {
		if c.ID != "kpi-select-dropdown" {
			continue
		}
		if len(c.Tabs) == 0 {
			return true
		}
		for _, t := range c.Tabs {
			if t == tab {
				return true
			}
		}
		return false
	}
	return false
}

// SlotID returns the container ID of a chart kind on a tab, or the kind
// itself if the tab has no such slot
func (l *DashboardLayout) SlotID(tab types.Tab, kind types.ChartKind) string {
	for _, t := range l.Tabs {
		if t.ID != tab {
			continue
		}
		for _, c := range t.Charts {
			if c.Kind == kind {
				return c.ID
			}
		}
	}
	return kind.String()
}
