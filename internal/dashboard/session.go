// Package dashboard serves the interactive sky map: a fixed session dataset,
// pure filter and render functions over it, and a datastar front end that
// pushes a fresh figure on every control change.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/pbaille/exoplot/internal/catalog"
	"github.com/pbaille/exoplot/internal/domain"
)

// ErrEmptyDataset is returned when no row survives cleaning, leaving no
// bounds to build the controls from.
var ErrEmptyDataset = errors.New("empty dataset")

// Required lists the columns the dashboard decodes
var Required = []domain.Column{
	domain.ColName, domain.ColRA, domain.ColDec, domain.ColMethod,
	domain.ColRadius, domain.ColPeriod, domain.ColDiscYear,
}

// cleaned lists the columns a row must carry to be plotted
var cleaned = []domain.Column{
	domain.ColRA, domain.ColDec, domain.ColMethod,
	domain.ColRadius, domain.ColPeriod, domain.ColDiscYear,
}

// Query returns the ADQL statement the dashboard loads at startup
func Query(limit int) string {
	return fmt.Sprintf("SELECT TOP %d * FROM PSCompPars", limit)
}

// Load decodes raw rows and drops those missing any plotted column.
// Unparseable numbers count as missing, so coercion runs first.
func Load(raw *catalog.Raw) (catalog.Table, error) {
	t, err := catalog.Decode(raw, Required...)
	if err != nil {
		return catalog.Table{}, err
	}
	return t.DropMissing(cleaned...), nil
}

// Session is the read-only dataset behind one dashboard process
type Session struct {
	Base    catalog.Table
	Methods []string
	Radius  domain.Range
	Period  domain.Range
	Year    domain.YearRange
}

// NewSession derives the control vocabulary and bounds from t
func NewSession(t catalog.Table) (*Session, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	radius, _ := t.NumBounds(domain.ColRadius)
	period, _ := t.NumBounds(domain.ColPeriod)
	year, _ := t.YearBounds()

	return &Session{
		Base:    t,
		Methods: t.Methods(true),
		Radius:  radius,
		Period:  period,
		Year:    year,
	}, nil
}

// FullState selects every method over the full bounds
func (s *Session) FullState() FilterState {
	return FilterState{
		Methods: append([]string(nil), s.Methods...),
		Radius:  s.Radius,
		Period:  s.Period,
		Year:    s.Year,
	}
}
