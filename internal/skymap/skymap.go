// Package skymap builds the static orbit map: semi-major axis against
// inclination, one trace per discovery method, with dropdown toggles that
// isolate selected methods.
package skymap

import (
	"fmt"
	"log/slog"

	"github.com/pbaille/exoplot/internal/catalog"
	"github.com/pbaille/exoplot/internal/domain"
	"github.com/pbaille/exoplot/internal/figure"
)

// Required lists the columns the orbit map reads
var Required = []domain.Column{
	domain.ColName, domain.ColSemiMajorAxis, domain.ColInclination, domain.ColMethod,
}

// Options configures the orbit map
type Options struct {
	MaxSemiMajorAxis float64
	Toggles          []string
	Width            int
	Height           int
}

// DefaultOptions returns the stock orbit map settings
func DefaultOptions() Options {
	return Options{
		MaxSemiMajorAxis: 10,
		Toggles:          []string{"Transit", "Radial Velocity"},
		Width:            1000,
		Height:           800,
	}
}

// Prepare drops rows without orbit geometry or discovery method and keeps
// orbits strictly inside the configured semi-major axis limit. Every kept
// row lands on exactly one trace.
func Prepare(t catalog.Table, maxAU float64) catalog.Table {
	return t.DropMissing(domain.ColInclination, domain.ColSemiMajorAxis, domain.ColMethod).
		Where(func(p domain.Planet) bool { return p.SemiMajorAxis.Value < maxAU })
}

// TraceIndex maps a discovery method label to its trace position
type TraceIndex struct {
	labels []string
	pos    map[string]int
}

// NewTraceIndex indexes labels in the given order
func NewTraceIndex(labels []string) TraceIndex {
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	return TraceIndex{labels: labels, pos: pos}
}

// Len returns the number of traces
func (ti TraceIndex) Len() int {
	return len(ti.labels)
}

// Index returns the trace position of label
func (ti TraceIndex) Index(label string) (int, bool) {
	i, ok := ti.pos[label]
	return i, ok
}

// All returns a mask showing every trace
func (ti TraceIndex) All() []bool {
	mask := make([]bool, len(ti.labels))
	for i := range mask {
		mask[i] = true
	}
	return mask
}

// Mask returns a mask showing only label's trace. ok is false when the
// label has no trace; no mask is produced in that case.
func (ti TraceIndex) Mask(label string) ([]bool, bool) {
	i, ok := ti.pos[label]
	if !ok {
		return nil, false
	}
	mask := make([]bool, len(ti.labels))
	mask[i] = true
	return mask, true
}

// Build assembles the orbit map from an already prepared table. Toggles
// naming a method absent from the table are skipped with a warning.
func Build(t catalog.Table, opts Options, logger *slog.Logger) figure.Figure {
	methods := t.Methods(false)
	index := NewTraceIndex(methods)

	traces := make([]figure.Trace, len(methods))
	for i, m := range methods {
		tr := figure.NewScatter(m)
		tr.Marker.Color = figure.Color(i)
		tr.HoverTemplate = "<b>%{text}</b><br>a = %{x} AU<br>i = %{y}°<extra>" + m + "</extra>"
		traces[i] = tr
	}
	for _, p := range t.Rows {
		i, ok := index.Index(p.Method)
		if !ok {
			continue
		}
		traces[i].X = append(traces[i].X, p.SemiMajorAxis.Value)
		traces[i].Y = append(traces[i].Y, p.Inclination.Value)
		traces[i].Text = append(traces[i].Text, p.Name)
	}

	buttons := []figure.Button{figure.NewToggle("All discovery methods", index.All())}
	for _, label := range opts.Toggles {
		mask, ok := index.Mask(label)
		if !ok {
			logger.Warn("toggle skipped, method not present", "method", label, "methods", methods)
			continue
		}
		buttons = append(buttons, figure.NewToggle(label, mask))
	}

	fig := figure.Figure{
		Data: traces,
		Layout: figure.Layout{
			XAxis:  figure.Axis{Title: figure.Text{Text: "Semi-major axis (AU), distance of the planet from its star"}},
			YAxis:  figure.Axis{Title: figure.Text{Text: "Orbital inclination (degrees), angle of the orbit to the line of sight"}},
			Legend: &figure.Legend{Title: figure.Text{Text: "Discovery method"}},
			Width:  opts.Width,
			Height: opts.Height,
			UpdateMenus: []figure.UpdateMenu{{
				Buttons:    buttons,
				Direction:  "down",
				ShowActive: true,
				X:          0.1,
				XAnchor:    "left",
				Y:          1.1,
				YAnchor:    "top",
			}},
			Annotations: []figure.Annotation{{
				Text:        "Pick a discovery method from the menu to filter planets.",
				Align:       "left",
				XRef:        "paper",
				YRef:        "paper",
				X:           0.05,
				Y:           1.15,
				BorderColor: "black",
				BorderWidth: 1,
			}},
		},
	}
	fig.Layout.Title.Text = fmt.Sprintf("Interactive exoplanet orbit map (%d planets)", fig.Points())
	return fig
}
