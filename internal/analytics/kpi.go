package analytics

import (
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// DefaultHourlyRate is the flat rate used to cost processing hours.
const DefaultHourlyRate = 25.0

// CalculateKPIs derives the headline metrics at DefaultHourlyRate.
func CalculateKPIs(requests []models.Request) models.KPIs {
	return CalculateKPIsAt(requests, DefaultHourlyRate)
}

// CalculateKPIsAt derives the headline metrics, costing hours at hourlyRate.
// An empty input yields the zero value.
func CalculateKPIsAt(requests []models.Request, hourlyRate float64) models.KPIs {
	if len(requests) == 0 {
		return models.KPIs{}
	}

	var minutes float64
	var errorCount, approved, rejected, resolved, pending int
	for _, r := range requests {
		minutes += r.ProcessingTimeMinutes
		errorCount += r.ErrorCount
		switch r.Status {
		case models.StatusApproved:
			approved++
		case models.StatusRejected:
			rejected++
		case models.StatusResolved:
			resolved++
		case models.StatusPending:
			pending++
		}
	}

	total := len(requests)
	hours := minutes / 60
	decided := approved + rejected + resolved
	return models.KPIs{
		TotalRequests:     total,
		TotalHours:        Round2(hours),
		TotalCost:         Round2(hours * hourlyRate),
		AvgProcessingTime: Round2(minutes / float64(total)),
		ApprovalRate:      Round2(percent(approved, decided)),
		RejectionRate:     Round2(percent(rejected, decided)),
		PendingRequests:   pending,
		ErrorRate:         Round2(float64(errorCount) / float64(total) * 100),
	}
}

// ResolutionMinutes is the time a request took. With useTimestamp and both timestamps known it is
// resolved minus created (never negative); otherwise the recorded processing time.
func ResolutionMinutes(r models.Request, useTimestamp bool) float64 {
	if useTimestamp && r.CreatedAt.Valid() && r.ResolvedAt.Valid() {
		minutes := r.ResolvedAt.Sub(r.CreatedAt.Time).Minutes()
		if minutes < 0 {
			return 0
		}
		return minutes
	}
	return r.ProcessingTimeMinutes
}

func completed(requests []models.Request) []models.Request {
	done := make([]models.Request, 0, len(requests))
	for _, r := range requests {
		if r.IsCompleted() {
			done = append(done, r)
		}
	}
	return done
}

// SLACompliance is the share of Approved/Resolved requests resolved within thresholdMinutes,
// as a whole percentage. A request exactly on the threshold complies.
func SLACompliance(requests []models.Request, thresholdMinutes float64, useTimestamp bool) float64 {
	done := completed(requests)
	if len(done) == 0 {
		return 0
	}
	within := 0
	for _, r := range done {
		if ResolutionMinutes(r, useTimestamp) <= thresholdMinutes {
			within++
		}
	}
	return roundTo(percent(within, len(done)), 0)
}

// AvgResolutionMinutes is the mean resolution time of Approved/Resolved requests, rounded.
func AvgResolutionMinutes(requests []models.Request, useTimestamp bool) float64 {
	done := completed(requests)
	if len(done) == 0 {
		return 0
	}
	minutes := make([]float64, len(done))
	for i, r := range done {
		minutes[i] = ResolutionMinutes(r, useTimestamp)
	}
	return roundTo(Mean(minutes), 0)
}

// MonthlyVolume counts requests created in now's calendar month.
func MonthlyVolume(requests []models.Request, now time.Time) int {
	month := CurrentMonth(now)
	count := 0
	for _, r := range requests {
		if r.CreatedAt.Valid() && month.Contains(r.CreatedAt.Time) {
			count++
		}
	}
	return count
}

// MonthlyCost sums resolution hours times the assigned admin's hourly rate for requests created in
// now's calendar month. Unknown admins and admins without a rate cost defaultRate.
func MonthlyCost(requests []models.Request, admins []models.Admin, defaultRate float64, useTimestamp bool, now time.Time) float64 {
	rates := make(map[int]float64, len(admins))
	for _, a := range admins {
		rate := a.HourlyRate
		if rate <= 0 {
			rate = defaultRate
		}
		rates[a.AdminID] = rate
	}
	month := CurrentMonth(now)
	var total float64
	for _, r := range requests {
		if !r.CreatedAt.Valid() || !month.Contains(r.CreatedAt.Time) {
			continue
		}
		rate, ok := rates[r.AssignedAdminID]
		if !ok {
			rate = defaultRate
		}
		total += ResolutionMinutes(r, useTimestamp) / 60 * rate
	}
	return Round2(total)
}
