package shared

import (
	"errors"
	"fmt"
	"time"
)

// View selects how a fiscal period is projected onto a monthly series.
type View string

const (
	ViewCurrent  View = "current"
	ViewPrevious View = "previous"
	ViewYTD      View = "ytd"
)

// ErrInvalidPeriod indicates a malformed period or view token.
var ErrInvalidPeriod = errors.New("invalid period")

// Period pins a reporting month and the projection applied to it.
// The zero Period means "latest available month, current view".
type Period struct {
	Year  int
	Month time.Month
	View  View
}

// ParsePeriod accepts the YYYY-MM wire format plus an optional view token.
func ParsePeriod(code, view string) (Period, error) {
	p := Period{View: ViewCurrent}
	if view != "" {
		switch View(view) {
		case ViewCurrent, ViewPrevious, ViewYTD:
			p.View = View(view)
		default:
			return Period{}, fmt.Errorf("%w: view %q", ErrInvalidPeriod, view)
		}
	}
	if code == "" {
		return p, nil
	}
	t, err := time.Parse("2006-01", code)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, code)
	}
	p.Year = t.Year()
	p.Month = t.Month()
	return p, nil
}

// Code renders the YYYY-MM wire format.
func (p Period) Code() string {
	if p.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether no explicit month was requested.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Previous shifts the period one month back, wrapping the year at January.
func (p Period) Previous() Period {
	prev := p
	if p.Month <= time.January {
		prev.Month = time.December
		prev.Year = p.Year - 1
		return prev
	}
	prev.Month = p.Month - 1
	return prev
}
