package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

var numericFields = map[string]struct{}{
	"request_id":              {},
	"student_id":              {},
	"department_id":           {},
	"assigned_admin_id":       {},
	"admin_id":                {},
	"processing_time_minutes": {},
	"estimated_time_minutes":  {},
	"error_count":             {},
	"complexity_score":        {},
	"manual_steps_count":      {},
	"hourly_rate":             {},
	"efficiency_score":        {},
	"experience_years":        {},
	"avg_tasks_per_day":       {},
	"head_count":              {},
	"total_requests":          {},
}

var timestampFields = map[string]struct{}{
	"created_at":  {},
	"resolved_at": {},
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

var dayMonthPattern = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)

// Coercer turns raw CSV records into normalized, typed rows.
type Coercer struct {
	vocab Vocabulary
	loc   *time.Location
}

// NewCoercer builds a coercer. Timestamps without a zone are read in loc (UTC when nil).
func NewCoercer(vocab Vocabulary, loc *time.Location) *Coercer {
	if vocab == nil {
		vocab = RequestVocabulary
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Coercer{vocab: vocab, loc: loc}
}

// CoerceRow keys raw by normalized header and coerces numeric and timestamp fields.
// It never fails: bad numbers become "0" and bad dates become "".
func (c *Coercer) CoerceRow(raw map[string]string, headers []string) models.Row {
	normalized := c.vocab.Normalize(headers)
	row := make(models.Row, len(headers))
	for i, header := range headers {
		key := normalized[i]
		if key == "" {
			continue
		}
		value, ok := raw[header]
		if !ok {
			continue
		}
		row[key] = strings.TrimSpace(value)
	}
	for key, value := range row {
		if _, ok := numericFields[key]; ok {
			// A blank rate stays blank so the default rate applies downstream.
			if key == "hourly_rate" && value == "" {
				continue
			}
			row[key] = FormatNumber(ParseNumber(value))
			continue
		}
		if _, ok := timestampFields[key]; ok {
			if ts, ok := ParseTimestamp(value, c.loc); ok {
				row[key] = ts.UTC().Format(models.TimestampLayout)
			} else {
				row[key] = ""
			}
		}
	}
	return row
}

// CoerceRow coerces with the request vocabulary in UTC.
func CoerceRow(raw map[string]string, headers []string) models.Row {
	return NewCoercer(RequestVocabulary, time.UTC).CoerceRow(raw, headers)
}

// ParseNumber parses a decimal number, returning 0 for anything unparseable or non-finite.
func ParseNumber(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatNumber renders v in its shortest decimal form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseTimestamp reads ISO/RFC timestamps first, then D/M/Y or M/D/Y with an optional H:M.
// A first group above 12 is taken as the day; two-digit years are in the 2000s.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return parseDayMonth(value, loc)
}

func parseDayMonth(value string, loc *time.Location) (time.Time, bool) {
	m := dayMonthPattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, false
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	month, day := first, second
	if first > 12 {
		day, month = first, second
	}
	if year < 100 {
		year += 2000
	}
	var hour, minute, sec int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if m[6] != "" {
		sec, _ = strconv.Atoi(m[6])
	}
	if month < 1 || month > 12 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
