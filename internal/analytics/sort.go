package analytics

import (
	"sort"
	"strings"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// DefaultPageSize is the request table page size.
const DefaultPageSize = 10

// MaxPageSize caps the page size accepted from clients.
const MaxPageSize = 100

var priorityRank = map[string]int{
	"critical": 4,
	"high":     3,
	"medium":   2,
	"low":      1,
}

func rankOf(priority string) int {
	return priorityRank[strings.ToLower(strings.TrimSpace(priority))]
}

var requestLess = map[string]func(a, b models.Request) bool{
	"request_id": func(a, b models.Request) bool { return a.RequestID < b.RequestID },
	"created_at": func(a, b models.Request) bool { return a.CreatedAt.Before(b.CreatedAt.Time) },
	"processing_time_minutes": func(a, b models.Request) bool {
		return a.ProcessingTimeMinutes < b.ProcessingTimeMinutes
	},
	"priority":     func(a, b models.Request) bool { return rankOf(a.Priority) < rankOf(b.Priority) },
	"status":       func(a, b models.Request) bool { return a.Status < b.Status },
	"request_type": func(a, b models.Request) bool { return a.RequestType < b.RequestType },
}

// SortableField reports whether field can be used with SortRequests.
func SortableField(field string) bool {
	_, ok := requestLess[field]
	return ok
}

// SortRequests returns a sorted copy. Unknown fields keep input order; order "desc" reverses.
func SortRequests(requests []models.Request, field, order string) []models.Request {
	out := append([]models.Request(nil), requests...)
	less, ok := requestLess[field]
	if !ok {
		return out
	}
	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Paginate returns the page-th slice of size items (1-based) and its pagination metadata.
func Paginate[T any](items []T, page, size int) ([]T, models.Pagination) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	meta := models.Pagination{Page: page, PageSize: size, TotalCount: len(items)}
	if page-1 > len(items)/size {
		return []T{}, meta
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, meta
	}
	end := len(items)
	if size < end-start {
		end = start + size
	}
	return items[start:end], meta
}
