package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

const monthLayout = "2006-01"

func addStatus(b *models.StatusBreakdown, status string) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved":
		b.Approved++
	case "rejected":
		b.Rejected++
	case "resolved":
		b.Resolved++
	case "pending":
		b.Pending++
	}
}

// CalendarFor returns the per-day counts of month (first day of the month in loc's calendar) and the
// months present in the data.
func CalendarFor(requests []models.Request, month time.Time, loc *time.Location) models.CalendarMonth {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)
	days := make([]models.CalendarDay, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, models.CalendarDay{Date: d.Format(dayLayout)})
	}
	for _, r := range requests {
		if !r.CreatedAt.Valid() {
			continue
		}
		created := r.CreatedAt.In(loc)
		if created.Before(first) || !created.Before(next) {
			continue
		}
		day := &days[created.Day()-1]
		day.Total++
		addStatus(&day.Status, r.Status)
	}
	return models.CalendarMonth{
		Month:           first.Format(monthLayout),
		Days:            days,
		AvailableMonths: AvailableMonths(requests, loc),
	}
}

// AvailableMonths lists every month from the earliest to the latest request, as YYYY-MM.
func AvailableMonths(requests []models.Request, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	var lo, hi time.Time
	for _, r := range requests {
		if !r.CreatedAt.Valid() {
			continue
		}
		m := startOfMonth(r.CreatedAt.In(loc))
		if lo.IsZero() || m.Before(lo) {
			lo = m
		}
		if hi.IsZero() || m.After(hi) {
			hi = m
		}
	}
	months := []string{}
	if lo.IsZero() {
		return months
	}
	for m := lo; !m.After(hi); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format(monthLayout))
	}
	return months
}

// DefaultCalendarMonth picks the current month clamped into the range covered by the data.
func DefaultCalendarMonth(requests []models.Request, now time.Time) time.Time {
	current := startOfMonth(now)
	months := AvailableMonths(requests, now.Location())
	if len(months) == 0 {
		return current
	}
	lo, _ := time.ParseInLocation(monthLayout, months[0], now.Location())
	hi, _ := time.ParseInLocation(monthLayout, months[len(months)-1], now.Location())
	switch {
	case current.Before(lo):
		return lo
	case current.After(hi):
		return hi
	default:
		return current
	}
}

// DayDetail drills into the requests created on day in loc.
func DayDetail(requests []models.Request, day time.Time, loc *time.Location) models.CalendarDayDetail {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	detail := models.CalendarDayDetail{Date: start.Format(dayLayout), PeakHour: "N/A"}

	var selected []models.Request
	hours := map[int]int{}
	for _, r := range requests {
		if !r.CreatedAt.Valid() {
			continue
		}
		created := r.CreatedAt.In(loc)
		if created.Before(start) || !created.Before(end) {
			continue
		}
		selected = append(selected, r)
		hours[created.Hour()]++
		addStatus(&detail.Status, r.Status)
	}
	detail.Total = len(selected)
	detail.ByDepartment = CountBy(selected, departmentOf)

	ordered := make([]int, 0, len(hours))
	for h := range hours {
		ordered = append(ordered, h)
	}
	sort.Ints(ordered)
	detail.ByHour = make([]models.NameValue, 0, len(ordered))
	for _, h := range ordered {
		label := fmt.Sprintf("%d:00", h)
		detail.ByHour = append(detail.ByHour, models.NameValue{Name: label, Value: float64(hours[h])})
		if hours[h] > detail.PeakCount {
			detail.PeakCount = hours[h]
			detail.PeakHour = label
		}
	}
	return detail
}
