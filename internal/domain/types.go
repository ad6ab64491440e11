package domain

import "time"

// Column is an archive column name
type Column string

const (
	ColName          Column = "pl_name"
	ColRA            Column = "ra"
	ColDec           Column = "dec"
	ColSemiMajorAxis Column = "pl_orbsmax"
	ColInclination   Column = "pl_orbincl"
	ColRadius        Column = "pl_rade"
	ColPeriod        Column = "pl_orbper"
	ColDiscYear      Column = "disc_year"
	ColMethod        Column = "discoverymethod"
)

// Columns lists every column the catalog decoder knows about
var Columns = []Column{
	ColName, ColRA, ColDec, ColSemiMajorAxis, ColInclination,
	ColRadius, ColPeriod, ColDiscYear, ColMethod,
}

// Num is a numeric cell that may be missing
type Num struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// N returns a present numeric value
func N(v float64) Num {
	return Num{Value: v, Valid: true}
}

// Planet is one catalog row
type Planet struct {
	Name          string `json:"pl_name"`
	RA            Num    `json:"ra"`
	Dec           Num    `json:"dec"`
	SemiMajorAxis Num    `json:"pl_orbsmax"`
	Inclination   Num    `json:"pl_orbincl"`
	Radius        Num    `json:"pl_rade"`
	Period        Num    `json:"pl_orbper"`
	DiscYear      Num    `json:"disc_year"`
	Method        string `json:"discoverymethod"`
}

// Num returns the numeric value stored under col. String columns are
// never valid.
func (p Planet) Num(col Column) Num {
	switch col {
	case ColRA:
		return p.RA
	case ColDec:
		return p.Dec
	case ColSemiMajorAxis:
		return p.SemiMajorAxis
	case ColInclination:
		return p.Inclination
	case ColRadius:
		return p.Radius
	case ColPeriod:
		return p.Period
	case ColDiscYear:
		return p.DiscYear
	}
	return Num{}
}

// Has reports whether the row carries a value for col
func (p Planet) Has(col Column) bool {
	switch col {
	case ColName:
		return p.Name != ""
	case ColMethod:
		return p.Method != ""
	}
	return p.Num(col).Valid
}

// Year returns the discovery year as an integer
func (p Planet) Year() int {
	return int(p.DiscYear.Value)
}

// Range is an inclusive float interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max]
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// YearRange is an inclusive interval of years
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether y lies in [Min, Max]
func (r YearRange) Contains(y int) bool {
	return y >= r.Min && y <= r.Max
}

// FetchRun records one request against the TAP service
type FetchRun struct {
	ID        string        `json:"id"`
	Command   string        `json:"command"`
	Query     string        `json:"query"`
	URL       string        `json:"url"`
	Path      string        `json:"path,omitempty"`
	Bytes     int64         `json:"bytes"`
	Rows      int           `json:"rows"`
	Columns   int           `json:"columns"`
	Duration  time.Duration `json:"duration"`
	FetchedAt time.Time     `json:"fetched_at"`
	Error     string        `json:"error,omitempty"`
}
