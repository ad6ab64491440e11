// Package figure describes scatter plots in the JSON shape understood by
// Plotly.js, and renders them as standalone HTML pages or PNG snapshots.
package figure

// Figure is a complete chart: its traces plus layout
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one scatter series
type Trace struct {
	Type          string    `json:"type"`
	Mode          string    `json:"mode"`
	Name          string    `json:"name,omitempty"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	Text          []string  `json:"text,omitempty"`
	CustomData    [][]any   `json:"customdata,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	Marker        Marker    `json:"marker"`
	ShowLegend    *bool     `json:"showlegend,omitempty"`
}

// Marker styles trace points
type Marker struct {
	Color string  `json:"color,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

// Text is a titled label
type Text struct {
	Text string `json:"text"`
}

// Axis configures one plot axis
type Axis struct {
	Title Text      `json:"title"`
	Range []float64 `json:"range,omitempty"`
}

// Legend configures the legend box
type Legend struct {
	Title Text `json:"title"`
}

// Layout holds figure-wide settings
type Layout struct {
	Title       Text         `json:"title"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Legend      *Legend      `json:"legend,omitempty"`
	Width       int          `json:"width,omitempty"`
	Height      int          `json:"height,omitempty"`
	UpdateMenus []UpdateMenu `json:"updatemenus,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Transition  *Transition  `json:"transition,omitempty"`
}

// Transition animates figure updates
type Transition struct {
	Duration int `json:"duration"`
}

// UpdateMenu is a dropdown of buttons that restyle traces
type UpdateMenu struct {
	Buttons    []Button `json:"buttons"`
	Direction  string   `json:"direction"`
	ShowActive bool     `json:"showactive"`
	X          float64  `json:"x"`
	XAnchor    string   `json:"xanchor"`
	Y          float64  `json:"y"`
	YAnchor    string   `json:"yanchor"`
}

// Button sets per-trace visibility when clicked
type Button struct {
	Label  string       `json:"label"`
	Method string       `json:"method"`
	Args   []Visibility `json:"args"`
}

// Visibility is the restyle payload of a Button
type Visibility struct {
	Visible []bool `json:"visible"`
}

// NewToggle builds an "update" button applying mask
func NewToggle(label string, mask []bool) Button {
	return Button{
		Label:  label,
		Method: "update",
		Args:   []Visibility{{Visible: mask}},
	}
}

// Mask returns the visibility mask the button applies
func (b Button) Mask() []bool {
	if len(b.Args) == 0 {
		return nil
	}
	return b.Args[0].Visible
}

// Annotation is free text placed on the figure
type Annotation struct {
	Text        string  `json:"text"`
	Align       string  `json:"align,omitempty"`
	ShowArrow   bool    `json:"showarrow"`
	XRef        string  `json:"xref"`
	YRef        string  `json:"yref"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	BorderColor string  `json:"bordercolor,omitempty"`
	BorderWidth int     `json:"borderwidth,omitempty"`
}

// Palette is the default Plotly qualitative color sequence
var Palette = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// Color returns the palette entry for the i-th trace
func Color(i int) string {
	return Palette[i%len(Palette)]
}

// NewScatter returns a marker-only trace with non-nil coordinate slices, so
// an empty trace still encodes as empty arrays.
func NewScatter(name string) Trace {
	return Trace{
		Type: "scatter",
		Mode: "markers",
		Name: name,
		X:    []float64{},
		Y:    []float64{},
	}
}

// Points returns the total number of points across traces
func (f Figure) Points() int {
	n := 0
	for _, t := range f.Data {
		n += len(t.X)
	}
	return n
}
