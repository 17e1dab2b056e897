package analytics

import (
	"strings"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

const dayLayout = "2006-01-02"

// DateRange is a half-open interval [Start, End). A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Active reports whether either bound constrains anything.
func (r DateRange) Active() bool {
	return !r.Start.IsZero() || !r.End.IsZero()
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// CurrentMonth is now's calendar month.
func CurrentMonth(now time.Time) DateRange {
	start := startOfMonth(now)
	return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// ResolveDateRange turns a preset into concrete bounds in now's location. Month presets use
// calendar months and include the current one; day presets count back from the start of today.
// "All", empty and unknown presets are unbounded.
func ResolveDateRange(state models.FilterState, now time.Time) DateRange {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	month := startOfMonth(now)
	year := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	switch strings.TrimSpace(state.DateRange) {
	case models.DateRangeThisMonth:
		return DateRange{Start: month, End: month.AddDate(0, 1, 0)}
	case models.DateRangeLastMonth:
		return DateRange{Start: month.AddDate(0, -1, 0), End: month}
	case models.DateRangeLast7Days:
		return DateRange{Start: today.AddDate(0, 0, -6), End: tomorrow}
	case models.DateRangeLast30Days:
		return DateRange{Start: today.AddDate(0, 0, -29), End: tomorrow}
	case models.DateRangeLast3Months:
		return DateRange{Start: month.AddDate(0, -2, 0), End: month.AddDate(0, 1, 0)}
	case models.DateRangeLast6Months:
		return DateRange{Start: month.AddDate(0, -5, 0), End: month.AddDate(0, 1, 0)}
	case models.DateRangeThisYear:
		return DateRange{Start: year, End: year.AddDate(1, 0, 0)}
	case models.DateRangeLastYear:
		return DateRange{Start: year.AddDate(-1, 0, 0), End: year}
	case models.DateRangeCustom:
		var r DateRange
		if start, err := time.ParseInLocation(dayLayout, strings.TrimSpace(state.DateStart), now.Location()); err == nil {
			r.Start = start
		}
		if end, err := time.ParseInLocation(dayLayout, strings.TrimSpace(state.DateEnd), now.Location()); err == nil {
			r.End = end.AddDate(0, 0, 1)
		}
		return r
	default:
		return DateRange{}
	}
}
