package model

// Figure is a declarative chart description in the shape Plotly.js consumes:
// a list of traces plus a layout
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// IsPlaceholder returns true if the figure carries no data traces
func (f *Figure) IsPlaceholder() bool {
	return f == nil || len(f.Data) == 0
}

// Trace is one Plotly trace. Only the fields used by the dashboard's chart
// types are modelled; X and Y hold either []string or []float64.
type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`

	X           any    `json:"x,omitempty"`
	Y           any    `json:"y,omitempty"`
	Orientation string `json:"orientation,omitempty"`

	// scatterpolar
	R     []float64 `json:"r,omitempty"`
	Theta []string  `json:"theta,omitempty"`
	Fill  string    `json:"fill,omitempty"`

	// treemap
	IDs          []string  `json:"ids,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	Parents      []string  `json:"parents,omitempty"`
	Values       []float64 `json:"values,omitempty"`
	BranchValues string    `json:"branchvalues,omitempty"`

	// choropleth
	Locations    []string  `json:"locations,omitempty"`
	LocationMode string    `json:"locationmode,omitempty"`
	Z            []float64 `json:"z,omitempty"`
	ZMin         *float64  `json:"zmin,omitempty"`
	ZMax         *float64  `json:"zmax,omitempty"`
	ColorScale   string    `json:"colorscale,omitempty"`
	ColorBar     *ColorBar `json:"colorbar,omitempty"`
	ShowScale    *bool     `json:"showscale,omitempty"`

	// splom
	Dimensions []SplomDimension `json:"dimensions,omitempty"`
	Diagonal   *Visibility      `json:"diagonal,omitempty"`

	Text          []string   `json:"text,omitempty"`
	CustomData    [][]string `json:"customdata,omitempty"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
	Marker        *Marker    `json:"marker,omitempty"`
	Line          *Line      `json:"line,omitempty"`
}

// Marker styles trace points, bars or treemap tiles
type Marker struct {
	Color      any       `json:"color,omitempty"`
	Colors     []float64 `json:"colors,omitempty"`
	ColorScale string    `json:"colorscale,omitempty"`
	ShowScale  bool      `json:"showscale,omitempty"`
	Size       any       `json:"size,omitempty"`
	SizeMode   string    `json:"sizemode,omitempty"`
	SizeRef    float64   `json:"sizeref,omitempty"`
	Opacity    float64   `json:"opacity,omitempty"`
	ColorBar   *ColorBar `json:"colorbar,omitempty"`
	Line       *Line     `json:"line,omitempty"`
}

// Line styles trace outlines
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// ColorBar titles a continuous color scale
type ColorBar struct {
	Title string `json:"title,omitempty"`
}

// Visibility toggles a sub-element of a trace
type Visibility struct {
	Visible bool `json:"visible"`
}

// SplomDimension is one axis of a scatter plot matrix
type SplomDimension struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Layout is the Plotly layout object
type Layout struct {
	Title       *Title       `json:"title,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Polar       *Polar       `json:"polar,omitempty"`
	Geo         *Geo         `json:"geo,omitempty"`
	BarMode     string       `json:"barmode,omitempty"`
	ShowLegend  *bool        `json:"showlegend,omitempty"`
	Height      int          `json:"height,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	DragMode    string       `json:"dragmode,omitempty"`
}

// Title is a chart or axis title
type Title struct {
	Text string `json:"text"`
}

// Axis configures a cartesian axis
type Axis struct {
	Title      *Title    `json:"title,omitempty"`
	Range      []float64 `json:"range,omitempty"`
	TickFormat string    `json:"tickformat,omitempty"`
	Visible    *bool     `json:"visible,omitempty"`
	ShowGrid   *bool     `json:"showgrid,omitempty"`
	ZeroLine   *bool     `json:"zeroline,omitempty"`
}

// Polar configures the radar axis
type Polar struct {
	RadialAxis *Axis `json:"radialaxis,omitempty"`
}

// Geo configures the choropleth map projection
type Geo struct {
	Scope string `json:"scope"`
}

// Margin sets the plot margins in pixels
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Annotation is free text placed on the plot
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
}
