package model

import "github.com/safetylens/safetytracker/pkg/domain/types"

// TabContent is what a tab renders: figures keyed by chart slot ID, or a
// message when the filters match nothing
type TabContent struct {
	Tab     types.Tab          `json:"tab"`
	Message string             `json:"message,omitempty"`
	Figures map[string]*Figure `json:"figures,omitempty"`
}

// IsEmpty returns true if the tab shows a message instead of charts
func (c *TabContent) IsEmpty() bool {
	return c == nil || len(c.Figures) == 0
}

// ChartUpdate carries the figures rebuilt after a chart interaction. A nil
// update means the interaction changes nothing.
type ChartUpdate struct {
	Figures map[string]*Figure `json:"figures"`
	// Outcome is the bar selection after a bar click; empty means reset
	Outcome *string `json:"outcome,omitempty"`
	// Window is the zoom window applied by a scatter relayout
	Window *WorkWindow `json:"window,omitempty"`
}
