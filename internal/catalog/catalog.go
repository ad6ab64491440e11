// Package catalog turns cached archive CSV into typed planet tables.
//
// Loading happens in two explicit stages. Read parses the tabular text into
// a Raw header plus string records. Decode coerces the columns this program
// knows about into domain.Planet rows, turning unparseable numbers into
// missing values. Row selection (DropMissing, Where) operates on the decoded
// Table and never mutates it.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pbaille/exoplot/internal/domain"
)

var (
	// ErrNoHeader is returned when the input has no header row
	ErrNoHeader = errors.New("no header row")
	// ErrMissingColumns is returned when required columns are absent from the header
	ErrMissingColumns = errors.New("missing required columns")
)

// Raw is the untyped tabular content of a catalog file
type Raw struct {
	Header  []string
	Records [][]string
}

// Read parses CSV text. Lines starting with '#' are metadata comments.
func Read(r io.Reader) (*Raw, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	raw := &Raw{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		raw.Records = append(raw.Records, rec)
	}

	return raw, nil
}

// ReadFile opens and parses a cached catalog file
func ReadFile(path string) (*Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	raw, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// Table is an ordered, read-only set of decoded rows
type Table struct {
	Header []string
	Rows   []domain.Planet
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}

// Decode coerces raw records into planets. Every required column must appear
// in the header; other known columns are decoded when present and left
// missing otherwise.
func Decode(raw *Raw, required ...domain.Column) (Table, error) {
	index := make(map[domain.Column]int, len(raw.Header))
	for i, name := range raw.Header {
		index[domain.Column(name)] = i
	}

	var absent []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			absent = append(absent, string(col))
		}
	}
	if len(absent) > 0 {
		return Table{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(absent, ", "))
	}

	cell := func(rec []string, col domain.Column) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rows := make([]domain.Planet, 0, len(raw.Records))
	for _, rec := range raw.Records {
		rows = append(rows, domain.Planet{
			Name:          cell(rec, domain.ColName),
			RA:            parseNum(cell(rec, domain.ColRA)),
			Dec:           parseNum(cell(rec, domain.ColDec)),
			SemiMajorAxis: parseNum(cell(rec, domain.ColSemiMajorAxis)),
			Inclination:   parseNum(cell(rec, domain.ColInclination)),
			Radius:        parseNum(cell(rec, domain.ColRadius)),
			Period:        parseNum(cell(rec, domain.ColPeriod)),
			DiscYear:      parseNum(cell(rec, domain.ColDiscYear)),
			Method:        cell(rec, domain.ColMethod),
		})
	}

	return Table{Header: raw.Header, Rows: rows}, nil
}

// parseNum yields a missing value for anything that is not a finite number
func parseNum(s string) domain.Num {
	if s == "" {
		return domain.Num{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Num{}
	}
	return domain.N(v)
}

// DropMissing keeps rows that have a value in every listed column
func (t Table) DropMissing(cols ...domain.Column) Table {
	return t.Where(func(p domain.Planet) bool {
		for _, col := range cols {
			if !p.Has(col) {
				return false
			}
		}
		return true
	})
}

// Where keeps rows matching pred, preserving order
func (t Table) Where(pred func(domain.Planet) bool) Table {
	out := Table{Header: t.Header, Rows: make([]domain.Planet, 0, len(t.Rows))}
	for _, p := range t.Rows {
		if pred(p) {
			out.Rows = append(out.Rows, p)
		}
	}
	return out
}

// Methods returns the distinct discovery methods, in first-seen order or
// sorted.
func (t Table) Methods(sorted bool) []string {
	seen := make(map[string]bool)
	var methods []string
	for _, p := range t.Rows {
		if p.Method == "" || seen[p.Method] {
			continue
		}
		seen[p.Method] = true
		methods = append(methods, p.Method)
	}
	if sorted {
		sort.Strings(methods)
	}
	return methods
}

// NumBounds returns the min and max of a numeric column over present values
func (t Table) NumBounds(col domain.Column) (domain.Range, bool) {
	var r domain.Range
	found := false
	for _, p := range t.Rows {
		n := p.Num(col)
		if !n.Valid {
			continue
		}
		if !found {
			r = domain.Range{Min: n.Value, Max: n.Value}
			found = true
			continue
		}
		if n.Value < r.Min {
			r.Min = n.Value
		}
		if n.Value > r.Max {
			r.Max = n.Value
		}
	}
	return r, found
}

// YearBounds returns the inclusive discovery year span
func (t Table) YearBounds() (domain.YearRange, bool) {
	r, ok := t.NumBounds(domain.ColDiscYear)
	if !ok {
		return domain.YearRange{}, false
	}
	return domain.YearRange{Min: int(r.Min), Max: int(r.Max)}, true
}
