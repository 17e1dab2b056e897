// Package analytics holds the pure filtering and aggregation functions behind the dashboard.
// Nothing here mutates its inputs.
package analytics

import (
	"math"
	"sort"
)

// Number is any numeric type the statistical primitives accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// Median returns the middle value (mean of the two middle values for even lengths).
func Median[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev returns the population standard deviation.
func StdDev[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := float64(v) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Mode returns the most frequent value. On ties the value that reached the winning count first
// wins. ok is false for an empty slice.
func Mode[T comparable](values []T) (mode T, ok bool) {
	freq := make(map[T]int, len(values))
	best := 0
	for _, v := range values {
		freq[v]++
		if freq[v] > best {
			best = freq[v]
			mode = v
			ok = true
		}
	}
	return mode, ok
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	return roundTo(v, 2)
}

func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
