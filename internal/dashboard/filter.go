package dashboard

import (
	"fmt"

	"github.com/pbaille/exoplot/internal/catalog"
	"github.com/pbaille/exoplot/internal/domain"
	"github.com/pbaille/exoplot/internal/figure"
)

// FilterState is the current selection of the dashboard controls. All
// bounds are inclusive.
type FilterState struct {
	Methods []string         `json:"methods"`
	Radius  domain.Range     `json:"radius"`
	Period  domain.Range     `json:"period"`
	Year    domain.YearRange `json:"year"`
}

// Apply keeps the rows of base matching every part of s, in base order
func Apply(base catalog.Table, s FilterState) catalog.Table {
	methods := make(map[string]bool, len(s.Methods))
	for _, m := range s.Methods {
		methods[m] = true
	}

	return base.Where(func(p domain.Planet) bool {
		return methods[p.Method] &&
			s.Radius.Contains(p.Radius.Value) &&
			s.Period.Contains(p.Period.Value) &&
			s.Year.Contains(p.Year())
	})
}

const hoverTemplate = "<b>%{text}</b><br>" +
	"Method: %{customdata[0]}<br>" +
	"Radius: %{customdata[1]} R⊕<br>" +
	"Period: %{customdata[2]} days<br>" +
	"Discovered: %{customdata[3]}<extra></extra>"

// ResultTitle is the chart title for n matching planets
func ResultTitle(n int) string {
	return fmt.Sprintf("Exoplanets: %d results", n)
}

// Render filters base by s and plots the matches by sky position. An empty
// selection still yields a drawable figure.
func Render(base catalog.Table, s FilterState) figure.Figure {
	view := Apply(base, s)

	tr := figure.NewScatter("")
	tr.Marker = figure.Marker{Color: figure.Color(0), Size: 6}
	tr.HoverTemplate = hoverTemplate
	tr.Text = make([]string, 0, view.Len())
	for _, p := range view.Rows {
		tr.X = append(tr.X, p.RA.Value)
		tr.Y = append(tr.Y, p.Dec.Value)
		tr.Text = append(tr.Text, p.Name)
		tr.CustomData = append(tr.CustomData, []any{p.Method, p.Radius.Value, p.Period.Value, p.Year()})
	}

	return figure.Figure{
		Data: []figure.Trace{tr},
		Layout: figure.Layout{
			Title:      figure.Text{Text: ResultTitle(view.Len())},
			XAxis:      figure.Axis{Title: figure.Text{Text: "Right Ascension [°]"}},
			YAxis:      figure.Axis{Title: figure.Text{Text: "Declination [°]"}},
			Transition: &figure.Transition{Duration: 500},
		},
	}
}
