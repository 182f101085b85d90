package model

import (
	"fmt"
	"strconv"
)

// ClickPoint is one point of a Plotly click event. Which fields are set
// depends on the clicked trace type.
type ClickPoint struct {
	Location string `json:"location,omitempty"` // choropleth
	Theta    string `json:"theta,omitempty"`    // scatterpolar
	Label    string `json:"label,omitempty"`    // treemap
	Parent   string `json:"parent,omitempty"`   // treemap
	Y        any    `json:"y,omitempty"`        // bar
}

// ClickData is the payload of a Plotly click event
type ClickData struct {
	Points []ClickPoint `json:"points"`
}

// First returns the first clicked point, or nil if there is none
func (c *ClickData) First() *ClickPoint {
	if c == nil || len(c.Points) == 0 {
		return nil
	}
	return &c.Points[0]
}

// YString returns the Y value of a bar click as a string
func (p *ClickPoint) YString() string {
	switch v := p.Y.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Relayout is the payload of a Plotly relayout event, e.g. after zooming
type Relayout map[string]any

// relayout keys emitted by Plotly when zooming a cartesian plot
const (
	relayoutXMin     = "xaxis.range[0]"
	relayoutXMax     = "xaxis.range[1]"
	relayoutYMin     = "yaxis.range[0]"
	relayoutYMax     = "yaxis.range[1]"
	relayoutAutosize = "autosize"
)

// IsActionable returns false for empty or autosize-only relayout events,
// which must not trigger dependent chart updates
func (r Relayout) IsActionable() bool {
	if len(r) == 0 {
		return false
	}
	_, autosize := r[relayoutAutosize]
	return !autosize
}

// Window converts zoom ranges into a work window. Axes without both bounds
// are left open.
func (r Relayout) Window() *WorkWindow {
	w := &WorkWindow{}
	xMin, okMin := r.float(relayoutXMin)
	xMax, okMax := r.float(relayoutXMax)
	if okMin && okMax {
		w.StartMin, w.StartMax = &xMin, &xMax
	}
	yMin, okMin := r.float(relayoutYMin)
	yMax, okMax := r.float(relayoutYMax)
	if okMin && okMax {
		w.IncidentMin, w.IncidentMax = &yMin, &yMax
	}
	if w.IsEmpty() {
		return nil
	}
	return w
}

func (r Relayout) float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
