package figure

import (
	"fmt"
	"html/template"
	"io"
)

// PlotlyScript is the Plotly.js bundle loaded by generated pages
const PlotlyScript = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTmpl = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.Script}}"></script>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 1rem; }
</style>
</head>
<body>
<div id="figure"></div>
<script>
var figure = {{.Figure}};
Plotly.newPlot("figure", figure.data, figure.layout);
</script>
</body>
</html>
`))

// WriteHTML writes a standalone page that draws fig with Plotly.js
func WriteHTML(w io.Writer, fig Figure, title string) error {
	data := struct {
		Title  string
		Script string
		Figure Figure
	}{title, PlotlyScript, fig}

	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
