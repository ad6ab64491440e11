package dashboard

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/pbaille/exoplot/internal/figure"
)

// DatastarScript is the datastar client bundle loaded by the page
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

var pageTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Exoplanet explorer</title>
<script src="{{.Plotly}}"></script>
<script type="module" src="{{.Datastar}}"></script>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 1rem; }
fieldset { display: inline-block; vertical-align: top; margin-right: 1rem; }
input[type=number] { width: 7rem; }
select { min-width: 14rem; min-height: 8rem; }
</style>
</head>
<body data-signals='{{.Signals}}'>
<h1>Exoplanet explorer</h1>
<form id="controls" data-on:change="@post('/figure')" onsubmit="return false">
<fieldset>
<legend>Discovery method</legend>
<select multiple data-bind="methods">
{{range .Methods}}<option value="{{.}}">{{.}}</option>
{{end}}</select>
</fieldset>
<fieldset>
<legend>Radius [Earth radii]</legend>
<input type="number" step="any" min="{{.Full.Radius.Min}}" max="{{.Full.Radius.Max}}" data-bind="radiusMin">
<input type="number" step="any" min="{{.Full.Radius.Min}}" max="{{.Full.Radius.Max}}" data-bind="radiusMax">
</fieldset>
<fieldset>
<legend>Orbital period [days]</legend>
<input type="number" step="any" min="{{.Full.Period.Min}}" max="{{.Full.Period.Max}}" data-bind="periodMin">
<input type="number" step="any" min="{{.Full.Period.Min}}" max="{{.Full.Period.Max}}" data-bind="periodMax">
</fieldset>
<fieldset>
<legend>Discovery year</legend>
<input type="number" step="1" min="{{.Full.Year.Min}}" max="{{.Full.Year.Max}}" data-bind="yearMin">
<input type="number" step="1" min="{{.Full.Year.Min}}" max="{{.Full.Year.Max}}" data-bind="yearMax">
</fieldset>
</form>
{{.Counter}}
<div id="figure"></div>
<p>Sky position of each planet's host star. Hover a point for its details.</p>
<script>
var figure = {{.Figure}};
Plotly.newPlot("figure", figure.data, figure.layout);
</script>
</body>
</html>
`))

// Handlers serves the dashboard for one session
type Handlers struct {
	session *Session
	logger  *slog.Logger

	// mu serializes recomputation
	mu sync.Mutex
}

// NewHandlers creates handlers over session
func NewHandlers(session *Session, logger *slog.Logger) *Handlers {
	return &Handlers{session: session, logger: logger}
}

// SetupRoutes registers the dashboard routes on router
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/", h.Page)
	router.Get("/figure", h.Figure)
	router.Post("/figure", h.Figure)
	router.Get("/figure.json", h.FigureJSON)
	router.Get("/snapshot.png", h.Snapshot)
	router.Get("/health", h.Health)
}

// render recomputes the figure for sig, one request at a time
func (h *Handlers) render(sig Signals) (FilterState, figure.Figure) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := sig.State(h.session.FullState())
	fig := Render(h.session.Base, st)
	h.logger.Debug("figure rendered",
		"methods", len(st.Methods),
		"radius", st.Radius,
		"period", st.Period,
		"year", st.Year,
		"points", fig.Points(),
	)
	return st, fig
}

func counterHTML(title string) string {
	return fmt.Sprintf(`<p id="count">%s</p>`, html.EscapeString(title))
}

// Page renders the dashboard with the full selection applied
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	full := h.session.FullState()
	signals, err := json.Marshal(SignalsFor(full))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, fig := h.render(SignalsFor(full))

	data := struct {
		Plotly   string
		Datastar string
		Signals  string
		Methods  []string
		Full     FilterState
		Counter  template.HTML
		Figure   figure.Figure
	}{
		Plotly:   figure.PlotlyScript,
		Datastar: DatastarScript,
		Signals:  string(signals),
		Methods:  h.session.Methods,
		Full:     full,
		Counter:  template.HTML(counterHTML(fig.Layout.Title.Text)),
		Figure:   fig,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		h.logger.Error("render page", "error", err)
	}
}

// Figure reads the control signals and pushes the recomputed figure and
// result counter over SSE.
func (h *Handlers) Figure(w http.ResponseWriter, r *http.Request) {
	var sig Signals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, fmt.Sprintf("read signals: %v", err), http.StatusBadRequest)
		return
	}
	_, fig := h.render(sig)

	sse := datastar.NewSSE(w, r)

	data, err := json.Marshal(fig.Data)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	layout, err := json.Marshal(fig.Layout)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	if err := sse.ExecuteScript(fmt.Sprintf(`Plotly.react("figure", %s, %s);`, data, layout)); err != nil {
		h.logger.Debug("push figure", "error", err)
		return
	}
	if err := sse.PatchElements(counterHTML(fig.Layout.Title.Text)); err != nil {
		h.logger.Debug("patch counter", "error", err)
	}
}

// FigureJSON returns the figure for the query string selection
func (h *Handlers) FigureJSON(w http.ResponseWriter, r *http.Request) {
	sig, err := signalsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, fig := h.render(sig)
	writeJSON(w, http.StatusOK, fig)
}

// Snapshot renders the query string selection as a PNG
func (h *Handlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	sig, err := signalsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, fig := h.render(sig)

	w.Header().Set("Content-Type", "image/png")
	if err := figure.RenderPNG(w, fig); err != nil {
		h.logger.Error("render snapshot", "error", err)
	}
}

// Health reports liveness and the session size
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"planets": h.session.Base.Len(),
		"methods": len(h.session.Methods),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
