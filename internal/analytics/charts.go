package analytics

import (
	"fmt"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

const unknownLabel = "Unknown"

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// heatmap window: 8 AM through the 5 PM hour, Monday to Friday.
const (
	heatmapFirstHour = 8
	heatmapLastHour  = 17
)

func typeOf(r models.Request) string {
	if r.RequestType == "" {
		return unknownLabel
	}
	return r.RequestType
}

func departmentOf(r models.Request) string {
	if r.DepartmentName == "" {
		return unknownLabel
	}
	return r.DepartmentName
}

// groupOrder collects keys in first-appearance order.
type groupOrder struct {
	keys  []string
	index map[string]int
}

func newGroupOrder() *groupOrder {
	return &groupOrder{index: map[string]int{}}
}

func (g *groupOrder) slot(key string) int {
	if i, ok := g.index[key]; ok {
		return i
	}
	g.index[key] = len(g.keys)
	g.keys = append(g.keys, key)
	return len(g.keys) - 1
}

// RequestTypeData counts requests per type in first-appearance order.
func RequestTypeData(requests []models.Request) []models.NameValue {
	return CountBy(requests, typeOf)
}

// AvgTimeByType averages processing minutes per type, two decimals.
func AvgTimeByType(requests []models.Request) []models.NameValue {
	order := newGroupOrder()
	var sums, counts []float64
	for _, r := range requests {
		i := order.slot(typeOf(r))
		if i == len(sums) {
			sums = append(sums, 0)
			counts = append(counts, 0)
		}
		sums[i] += r.ProcessingTimeMinutes
		counts[i]++
	}
	out := make([]models.NameValue, len(order.keys))
	for i, key := range order.keys {
		out[i] = models.NameValue{Name: key, Value: Round2(sums[i] / counts[i])}
	}
	return out
}

// FixedCalendarTrend counts requests created January to June in loc, ignoring the year.
// Requests from other months are dropped. An empty input yields no points.
func FixedCalendarTrend(requests []models.Request, loc *time.Location) []models.TrendPoint {
	if len(requests) == 0 {
		return []models.TrendPoint{}
	}
	if loc == nil {
		loc = time.UTC
	}
	var counts [6]int
	for _, r := range requests {
		if !r.CreatedAt.Valid() {
			continue
		}
		m := r.CreatedAt.In(loc).Month()
		if m >= time.January && m <= time.June {
			counts[m-1]++
		}
	}
	out := make([]models.TrendPoint, 6)
	for i := range counts {
		out[i] = models.TrendPoint{Month: monthAbbrev[i], Requests: counts[i]}
	}
	return out
}

// RollingYearTrend counts requests per calendar month for the twelve months ending with now's.
func RollingYearTrend(requests []models.Request, now time.Time) []models.TrendPoint {
	first := startOfMonth(now).AddDate(0, -11, 0)
	out := make([]models.TrendPoint, 12)
	for i := range out {
		m := first.AddDate(0, i, 0)
		out[i] = models.TrendPoint{Month: monthAbbrev[m.Month()-1], Year: m.Year()}
	}
	for _, r := range requests {
		if !r.CreatedAt.Valid() {
			continue
		}
		created := r.CreatedAt.In(now.Location())
		offset := (created.Year()-first.Year())*12 + int(created.Month()) - int(first.Month())
		if offset >= 0 && offset < 12 {
			out[offset].Requests++
		}
	}
	return out
}

// HeatmapLevelFor bands a cell count: LOW 0-15, MEDIUM 16-25, HIGH 26-35, PEAK above.
func HeatmapLevelFor(count int) models.HeatmapLevel {
	switch {
	case count <= 15:
		return models.HeatmapLow
	case count <= 25:
		return models.HeatmapMedium
	case count <= 35:
		return models.HeatmapHigh
	default:
		return models.HeatmapPeak
	}
}

func hourLabel(hour int) string {
	switch {
	case hour < 12:
		return fmt.Sprintf("%d:00 AM", hour)
	case hour == 12:
		return "12:00 PM"
	default:
		return fmt.Sprintf("%d:00 PM", hour-12)
	}
}

// HeatmapData counts requests per working hour and weekday in loc. Requests created before 8 AM,
// from 6 PM on, or at weekends are left out.
func HeatmapData(requests []models.Request, loc *time.Location) []models.HeatmapRow {
	if loc == nil {
		loc = time.UTC
	}
	const hours = heatmapLastHour - heatmapFirstHour + 1
	var grid [hours][5]int
	for _, r := range requests {
		if !r.CreatedAt.Valid() {
			continue
		}
		created := r.CreatedAt.In(loc)
		day := created.Weekday()
		hour := created.Hour()
		if day < time.Monday || day > time.Friday || hour < heatmapFirstHour || hour > heatmapLastHour {
			continue
		}
		grid[hour-heatmapFirstHour][day-time.Monday]++
	}

	rows := make([]models.HeatmapRow, hours)
	for i := range rows {
		hour := heatmapFirstHour + i
		cells := grid[i]
		rows[i] = models.HeatmapRow{
			Hour:      hourLabel(hour),
			Hours:     hour,
			Monday:    cells[0],
			Tuesday:   cells[1],
			Wednesday: cells[2],
			Thursday:  cells[3],
			Friday:    cells[4],
			Levels: map[string]models.HeatmapLevel{
				"Monday":    HeatmapLevelFor(cells[0]),
				"Tuesday":   HeatmapLevelFor(cells[1]),
				"Wednesday": HeatmapLevelFor(cells[2]),
				"Thursday":  HeatmapLevelFor(cells[3]),
				"Friday":    HeatmapLevelFor(cells[4]),
			},
		}
	}
	return rows
}

// DepartmentWorkload totals and averages processing minutes per department, first-appearance order.
func DepartmentWorkload(requests []models.Request) []models.DepartmentWorkload {
	order := newGroupOrder()
	var out []models.DepartmentWorkload
	for _, r := range requests {
		name := departmentOf(r)
		i := order.slot(name)
		if i == len(out) {
			out = append(out, models.DepartmentWorkload{Name: name})
		}
		out[i].Total++
		out[i].TotalTime += r.ProcessingTimeMinutes
	}
	for i := range out {
		out[i].AvgTime = Round2(out[i].TotalTime / float64(out[i].Total))
	}
	if out == nil {
		out = []models.DepartmentWorkload{}
	}
	return out
}

// DescriptiveStats summarises processing minutes and reports the most common request type.
func DescriptiveStats(requests []models.Request) models.DescriptiveStats {
	if len(requests) == 0 {
		return models.DescriptiveStats{}
	}
	minutes := make([]float64, len(requests))
	types := make([]string, len(requests))
	for i, r := range requests {
		minutes[i] = r.ProcessingTimeMinutes
		types[i] = typeOf(r)
	}
	stats := models.DescriptiveStats{
		Mean:   Round2(Mean(minutes)),
		Median: Round2(Median(minutes)),
		StdDev: Round2(StdDev(minutes)),
	}
	if mode, ok := Mode(types); ok {
		stats.Mode = &mode
	}
	return stats
}
