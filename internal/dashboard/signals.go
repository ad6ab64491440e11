package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// number is a bound sent by a browser input: a JSON number, a numeric
// string, or empty when the field was cleared.
type number struct {
	v  float64
	ok bool
}

func num(v float64) number {
	return number{v: v, ok: true}
}

func (n number) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return n.parse(s)
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("parse bound: %w", err)
	}
	*n = num(v)
	return nil
}

func (n *number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = number{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse bound %q: %w", s, err)
	}
	*n = num(v)
	return nil
}

func (n number) or(fallback float64) float64 {
	if n.ok {
		return n.v
	}
	return fallback
}

// yearLimit bounds converted years so any float fits an int
const yearLimit = math.MaxInt32

// year rounds n to a whole year with round, clamped to ±yearLimit. A
// cleared or NaN bound yields fallback.
func (n number) year(fallback int, round func(float64) float64) int {
	if !n.ok || math.IsNaN(n.v) {
		return fallback
	}
	return int(max(-yearLimit, min(yearLimit, round(n.v))))
}

// Signals is the flat control state exchanged with the page
type Signals struct {
	Methods   []string `json:"methods"`
	RadiusMin number   `json:"radiusMin"`
	RadiusMax number   `json:"radiusMax"`
	PeriodMin number   `json:"periodMin"`
	PeriodMax number   `json:"periodMax"`
	YearMin   number   `json:"yearMin"`
	YearMax   number   `json:"yearMax"`
}

// SignalsFor encodes s as page signals
func SignalsFor(s FilterState) Signals {
	methods := s.Methods
	if methods == nil {
		methods = []string{}
	}
	return Signals{
		Methods:   methods,
		RadiusMin: num(s.Radius.Min),
		RadiusMax: num(s.Radius.Max),
		PeriodMin: num(s.Period.Min),
		PeriodMax: num(s.Period.Max),
		YearMin:   num(float64(s.Year.Min)),
		YearMax:   num(float64(s.Year.Max)),
	}
}

// State resolves sig against full. Absent methods select all of them and
// cleared bounds fall back to the full range; an explicit empty method list
// selects nothing. Year bounds round inward so the integer range holds
// exactly the years inside the entered one.
func (sig Signals) State(full FilterState) FilterState {
	st := FilterState{
		Methods: sig.Methods,
		Radius:  full.Radius,
		Period:  full.Period,
		Year:    full.Year,
	}
	if st.Methods == nil {
		st.Methods = full.Methods
	}
	st.Radius.Min = sig.RadiusMin.or(full.Radius.Min)
	st.Radius.Max = sig.RadiusMax.or(full.Radius.Max)
	st.Period.Min = sig.PeriodMin.or(full.Period.Min)
	st.Period.Max = sig.PeriodMax.or(full.Period.Max)
	st.Year.Min = sig.YearMin.year(full.Year.Min, math.Ceil)
	st.Year.Max = sig.YearMax.year(full.Year.Max, math.Floor)
	return st
}

// signalsFromQuery reads plain query parameters, as used by /figure.json
// and /snapshot.png. Methods may repeat.
func signalsFromQuery(q url.Values) (Signals, error) {
	var sig Signals
	if ms, ok := q["method"]; ok {
		sig.Methods = []string{}
		for _, m := range ms {
			if m = strings.TrimSpace(m); m != "" {
				sig.Methods = append(sig.Methods, m)
			}
		}
	}

	bounds := []struct {
		key string
		dst *number
	}{
		{"radius_min", &sig.RadiusMin},
		{"radius_max", &sig.RadiusMax},
		{"period_min", &sig.PeriodMin},
		{"period_max", &sig.PeriodMax},
		{"year_min", &sig.YearMin},
		{"year_max", &sig.YearMax},
	}
	for _, b := range bounds {
		if err := b.dst.parse(q.Get(b.key)); err != nil {
			return Signals{}, fmt.Errorf("%s: %w", b.key, err)
		}
	}
	return sig, nil
}
