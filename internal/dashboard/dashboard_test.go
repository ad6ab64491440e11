package dashboard

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/exoplot/internal/catalog"
	"github.com/pbaille/exoplot/internal/domain"
)

func row(name, method string, ra, dec, radius, period float64, year int) domain.Planet {
	return domain.Planet{
		Name:     name,
		Method:   method,
		RA:       domain.N(ra),
		Dec:      domain.N(dec),
		Radius:   domain.N(radius),
		Period:   domain.N(period),
		DiscYear: domain.N(float64(year)),
	}
}

func sampleTable() catalog.Table {
	return catalog.Table{Rows: []domain.Planet{
		row("A b", "Transit", 10, -5, 1.0, 3.5, 2010),
		row("B b", "Transit", 20, 15, 2.5, 10, 2014),
		row("C b", "Radial Velocity", 30, 40, 11, 300, 1999),
	}}
}

func sampleSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(sampleTable())
	require.NoError(t, err)
	return s
}

func names(t catalog.Table) []string {
	out := make([]string, len(t.Rows))
	for i, p := range t.Rows {
		out[i] = p.Name
	}
	return out
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "SELECT TOP 1000 * FROM PSCompPars", Query(1000))
}

func TestLoad(t *testing.T) {
	raw, err := catalog.Read(strings.NewReader(`pl_name,ra,dec,discoverymethod,pl_rade,pl_orbper,disc_year,pl_orbsmax
A b,10,-5,Transit,1.0,3.5,2010,
X b,,1,Transit,1,1,2000,0.1
Y b,1,1,Imaging,abc,1,2000,0.2
Z b,1,1,,1,1,2000,0.3
,5,5,Imaging,2,2,2001,
`))
	require.NoError(t, err)

	tbl, err := Load(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"A b", ""}, names(tbl), "rows lacking a plotted column are dropped, name is not checked")
}

func TestLoad_MissingColumn(t *testing.T) {
	raw, err := catalog.Read(strings.NewReader("pl_name,ra,dec,discoverymethod,pl_rade,pl_orbper\nA b,1,1,Transit,1,1\n"))
	require.NoError(t, err)

	_, err = Load(raw)
	assert.ErrorIs(t, err, catalog.ErrMissingColumns)
	assert.ErrorContains(t, err, "disc_year")
}

func TestNewSession(t *testing.T) {
	s := sampleSession(t)

	assert.Equal(t, []string{"Radial Velocity", "Transit"}, s.Methods)
	assert.Equal(t, domain.Range{Min: 1, Max: 11}, s.Radius)
	assert.Equal(t, domain.Range{Min: 3.5, Max: 300}, s.Period)
	assert.Equal(t, domain.YearRange{Min: 1999, Max: 2014}, s.Year)

	_, err := NewSession(catalog.Table{})
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestApply(t *testing.T) {
	s := sampleSession(t)
	full := s.FullState()

	tests := []struct {
		name  string
		state func(FilterState) FilterState
		want  []string
	}{
		{
			name:  "full bounds keep the base table",
			state: func(st FilterState) FilterState { return st },
			want:  []string{"A b", "B b", "C b"},
		},
		{
			name: "single method keeps table order",
			state: func(st FilterState) FilterState {
				st.Methods = []string{"Transit"}
				return st
			},
			want: []string{"A b", "B b"},
		},
		{
			name: "bounds are inclusive",
			state: func(st FilterState) FilterState {
				st.Radius = domain.Range{Min: 2.5, Max: 11}
				st.Year = domain.YearRange{Min: 1999, Max: 2014}
				return st
			},
			want: []string{"B b", "C b"},
		},
		{
			name: "period range",
			state: func(st FilterState) FilterState {
				st.Period = domain.Range{Min: 0, Max: 10}
				return st
			},
			want: []string{"A b", "B b"},
		},
		{
			name: "year range",
			state: func(st FilterState) FilterState {
				st.Year = domain.YearRange{Min: 2011, Max: 2020}
				return st
			},
			want: []string{"B b"},
		},
		{
			name: "no methods selected",
			state: func(st FilterState) FilterState {
				st.Methods = []string{}
				return st
			},
			want: []string{},
		},
		{
			name: "excluding radius range",
			state: func(st FilterState) FilterState {
				st.Radius = domain.Range{Min: 100, Max: 200}
				return st
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.state(s.FullState())
			got := Apply(s.Base, st)
			assert.Equal(t, tt.want, names(got))

			for _, p := range got.Rows {
				assert.Contains(t, st.Methods, p.Method)
				assert.True(t, st.Radius.Contains(p.Radius.Value))
				assert.True(t, st.Period.Contains(p.Period.Value))
				assert.True(t, st.Year.Contains(p.Year()))
			}
		})
	}

	assert.Equal(t, []string{"A b", "B b", "C b"}, names(s.Base), "base table is untouched")
	assert.Equal(t, s.FullState(), full)
}

func TestRender(t *testing.T) {
	s := sampleSession(t)
	st := s.FullState()
	st.Methods = []string{"Transit"}

	fig := Render(s.Base, st)

	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, []float64{10, 20}, tr.X)
	assert.Equal(t, []float64{-5, 15}, tr.Y)
	assert.Equal(t, []string{"A b", "B b"}, tr.Text)
	assert.Equal(t, []any{"Transit", 1.0, 3.5, 2010}, tr.CustomData[0])
	assert.Contains(t, tr.HoverTemplate, "%{customdata[3]}")
	assert.Equal(t, "Exoplanets: 2 results", fig.Layout.Title.Text)
	assert.Equal(t, "Right Ascension [°]", fig.Layout.XAxis.Title.Text)
	assert.Equal(t, "Declination [°]", fig.Layout.YAxis.Title.Text)
	assert.Equal(t, 500, fig.Layout.Transition.Duration)
}

func TestRender_Idempotent(t *testing.T) {
	s := sampleSession(t)
	st := s.FullState()
	st.Period = domain.Range{Min: 5, Max: 400}

	assert.Equal(t, Render(s.Base, st), Render(s.Base, st))
}

func TestRender_Empty(t *testing.T) {
	s := sampleSession(t)
	st := s.FullState()
	st.Year = domain.YearRange{Min: 2030, Max: 2040}

	fig := Render(s.Base, st)

	assert.Equal(t, "Exoplanets: 0 results", fig.Layout.Title.Text)
	require.Len(t, fig.Data, 1)
	b, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"x":[]`)
	assert.Contains(t, string(b), `"y":[]`)
}

func TestSignals_State(t *testing.T) {
	full := sampleSession(t).FullState()

	tests := []struct {
		name string
		json string
		want FilterState
	}{
		{
			name: "numbers and numeric strings",
			json: `{"methods":["Transit"],"radiusMin":"2","radiusMax":5,"periodMin":"","yearMin":null,"yearMax":"2012"}`,
			want: FilterState{
				Methods: []string{"Transit"},
				Radius:  domain.Range{Min: 2, Max: 5},
				Period:  full.Period,
				Year:    domain.YearRange{Min: 1999, Max: 2012},
			},
		},
		{
			name: "absent methods select all",
			json: `{}`,
			want: full,
		},
		{
			name: "explicit empty methods select none",
			json: `{"methods":[]}`,
			want: FilterState{Methods: []string{}, Radius: full.Radius, Period: full.Period, Year: full.Year},
		},
		{
			name: "fractional years round inward",
			json: `{"yearMin":"2010.5","yearMax":2013.7}`,
			want: FilterState{Methods: full.Methods, Radius: full.Radius, Period: full.Period, Year: domain.YearRange{Min: 2011, Max: 2013}},
		},
		{
			name: "huge years are clamped",
			json: `{"yearMin":"-Inf","yearMax":"1e30"}`,
			want: FilterState{Methods: full.Methods, Radius: full.Radius, Period: full.Period, Year: domain.YearRange{Min: -yearLimit, Max: yearLimit}},
		},
		{
			name: "NaN year falls back",
			json: `{"yearMax":"NaN"}`,
			want: full,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sig Signals
			require.NoError(t, json.Unmarshal([]byte(tt.json), &sig))
			assert.Equal(t, tt.want, sig.State(full))
		})
	}
}

func TestApply_YearBoundsFromSignals(t *testing.T) {
	s := sampleSession(t)

	tests := []struct {
		name string
		json string
		want []string
	}{
		{"fractional min excludes the earlier year", `{"yearMin":"2010.5"}`, []string{"B b"}},
		{"fractional max excludes the later year", `{"yearMax":"2013.9"}`, []string{"A b", "C b"}},
		{"huge max keeps every row", `{"yearMax":"1e30"}`, []string{"A b", "B b", "C b"}},
		{"infinite max keeps every row", `{"yearMax":"Inf"}`, []string{"A b", "B b", "C b"}},
		{"min above every year", `{"yearMin":1e30}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sig Signals
			require.NoError(t, json.Unmarshal([]byte(tt.json), &sig))
			assert.Equal(t, tt.want, names(Apply(s.Base, sig.State(s.FullState()))))
		})
	}

	sig, err := signalsFromQuery(url.Values{"year_max": {"1e30"}})
	require.NoError(t, err)
	assert.Equal(t, 3, Apply(s.Base, sig.State(s.FullState())).Len())
}

func TestSignals_RoundTrip(t *testing.T) {
	full := sampleSession(t).FullState()

	b, err := json.Marshal(SignalsFor(full))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"radiusMin":1`)

	var sig Signals
	require.NoError(t, json.Unmarshal(b, &sig))
	assert.Equal(t, full, sig.State(FilterState{}))
}

func TestSignals_BadBound(t *testing.T) {
	var sig Signals
	assert.Error(t, json.Unmarshal([]byte(`{"radiusMin":"wide"}`), &sig))
	assert.Error(t, json.Unmarshal([]byte(`{"radiusMin":true}`), &sig))
}

func TestSignalsFromQuery(t *testing.T) {
	full := sampleSession(t).FullState()

	sig, err := signalsFromQuery(url.Values{
		"method":     {"Transit", "Imaging"},
		"radius_max": {"3"},
		"year_min":   {"2000"},
	})
	require.NoError(t, err)
	st := sig.State(full)
	assert.Equal(t, []string{"Transit", "Imaging"}, st.Methods)
	assert.Equal(t, domain.Range{Min: 1, Max: 3}, st.Radius)
	assert.Equal(t, domain.YearRange{Min: 2000, Max: 2014}, st.Year)

	sig, err = signalsFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, full, sig.State(full))

	_, err = signalsFromQuery(url.Values{"period_min": {"soon"}})
	assert.ErrorContains(t, err, "period_min")
}
