package date

import (
	"fmt"
	"strings"
)

// Window is a chart window token relative to today, as offered to the user when comparing prices.
type Window string

const (
	OneDay     Window = "1D"
	FiveDays   Window = "5D"
	OneMonth   Window = "1M"
	SixMonths  Window = "6M"
	YearToDate Window = "YTD"
	OneYear    Window = "1Y"
)

// Windows lists all the supported windows, shortest first.
var Windows = []Window{OneDay, FiveDays, OneMonth, SixMonths, YearToDate, OneYear}

// ParseWindow parses a window token, case insensitive.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Windows {
		if w == known {
			return w, nil
		}
	}
	return OneMonth, fmt.Errorf("unknown window %q want one of %v", s, Windows)
}

// Range returns the calendar range covered by the window when it ends on 'on'.
//
// Unknown windows behave like OneMonth.
func (w Window) Range(on Date) Range {
	switch w {
	case OneDay:
		return Range{From: on.Add(-1), To: on}
	case FiveDays:
		return Range{From: on.Add(-5), To: on}
	case SixMonths:
		return Range{From: on.AddMonth(-6), To: on}
	case YearToDate:
		return Range{From: New(on.Year(), 1, 1), To: on}
	case OneYear:
		return Range{From: New(on.Year()-1, on.Month(), on.Day()), To: on}
	default:
		return Range{From: on.AddMonth(-1), To: on}
	}
}

// Interval returns the sampling interval used by chart providers for this window.
func (w Window) Interval() string {
	switch w {
	case OneDay:
		return "5m"
	case FiveDays:
		return "1h"
	default:
		return "1d"
	}
}

// ProviderRange returns the range token used by chart providers for this window.
func (w Window) ProviderRange() string {
	switch w {
	case OneDay:
		return "1d"
	case FiveDays:
		return "5d"
	case SixMonths:
		return "6mo"
	case YearToDate:
		return "ytd"
	case OneYear:
		return "1y"
	default:
		return "1mo"
	}
}

func (w Window) String() string { return string(w) }
