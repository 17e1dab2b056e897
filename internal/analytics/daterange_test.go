package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDateRangePresets(t *testing.T) {
	now := time.Date(2024, time.March, 15, 16, 30, 0, 0, time.UTC)
	cases := []struct {
		preset string
		want   DateRange
	}{
		{models.DateRangeThisMonth, DateRange{day(2024, time.March, 1), day(2024, time.April, 1)}},
		{models.DateRangeLastMonth, DateRange{day(2024, time.February, 1), day(2024, time.March, 1)}},
		{models.DateRangeLast7Days, DateRange{day(2024, time.March, 9), day(2024, time.March, 16)}},
		{models.DateRangeLast30Days, DateRange{day(2024, time.February, 15), day(2024, time.March, 16)}},
		{models.DateRangeLast3Months, DateRange{day(2024, time.January, 1), day(2024, time.April, 1)}},
		{models.DateRangeLast6Months, DateRange{day(2023, time.October, 1), day(2024, time.April, 1)}},
		{models.DateRangeThisYear, DateRange{day(2024, time.January, 1), day(2025, time.January, 1)}},
		{models.DateRangeLastYear, DateRange{day(2023, time.January, 1), day(2024, time.January, 1)}},
	}
	for _, tc := range cases {
		got := ResolveDateRange(models.FilterState{DateRange: tc.preset}, now)
		assert.True(t, tc.want.Start.Equal(got.Start), "%s start: %s", tc.preset, got.Start)
		assert.True(t, tc.want.End.Equal(got.End), "%s end: %s", tc.preset, got.End)
	}
}

func TestResolveDateRangeUnbounded(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	for _, preset := range []string{"", "All", "Next fortnight"} {
		assert.False(t, ResolveDateRange(models.FilterState{DateRange: preset}, now).Active(), preset)
	}
}

func TestResolveDateRangeCustom(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	r := ResolveDateRange(models.FilterState{DateRange: "Custom", DateStart: "2024-01-10", DateEnd: "2024-01-20"}, now)
	assert.True(t, r.Start.Equal(day(2024, time.January, 10)))
	assert.True(t, r.End.Equal(day(2024, time.January, 21)))
	assert.True(t, r.Contains(time.Date(2024, time.January, 20, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(day(2024, time.January, 21)))

	open := ResolveDateRange(models.FilterState{DateRange: "Custom", DateStart: "2024-01-10"}, now)
	assert.True(t, open.End.IsZero())
	assert.True(t, open.Contains(day(2030, time.January, 1)))

	assert.False(t, ResolveDateRange(models.FilterState{DateRange: "Custom", DateStart: "junk"}, now).Active())
}
