package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// DefaultEfficiency is assumed for admins without an efficiency score.
const DefaultEfficiency = 4.0

// TeamProductivity builds one row per admin from the requests assigned to them.
func TeamProductivity(admins []models.Admin, requests []models.Request) []models.AdminProductivity {
	byAdmin := make(map[int][]models.Request, len(admins))
	for _, r := range requests {
		byAdmin[r.AssignedAdminID] = append(byAdmin[r.AssignedAdminID], r)
	}

	out := make([]models.AdminProductivity, 0, len(admins))
	for _, a := range admins {
		tasks := byAdmin[a.AdminID]
		row := models.AdminProductivity{
			AdminID:         a.AdminID,
			Name:            a.Name,
			DepartmentName:  a.DepartmentName,
			Role:            a.Role,
			TotalTasks:      len(tasks),
			EfficiencyScore: a.EfficiencyScore,
		}
		if row.EfficiencyScore == 0 {
			row.EfficiencyScore = DefaultEfficiency
		}
		var minutes float64
		withErrors := 0
		for _, t := range tasks {
			minutes += t.ProcessingTimeMinutes
			if t.ErrorCount > 0 {
				withErrors++
			}
			switch t.Status {
			case models.StatusPending:
				row.Pending++
			case models.StatusApproved:
				row.Approvals++
			case models.StatusRejected:
				row.Rejections++
			}
		}
		row.TasksCompleted = len(tasks) - row.Pending
		if len(tasks) > 0 {
			row.AvgProcessingTime = math.Round(minutes / float64(len(tasks)))
			row.ErrorRate = roundTo(percent(withErrors, len(tasks)), 1)
		}
		out = append(out, row)
	}
	return out
}

// DepartmentVolume counts requests per department, busiest first. Ties keep first-appearance order.
func DepartmentVolume(requests []models.Request) []models.NameValue {
	counts := CountBy(requests, departmentOf)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Value > counts[j].Value })
	return counts
}

// CountBy counts requests per key in first-appearance order.
func CountBy(requests []models.Request, key func(models.Request) string) []models.NameValue {
	order := newGroupOrder()
	out := make([]models.NameValue, 0)
	for _, r := range requests {
		name := key(r)
		i := order.slot(name)
		if i == len(out) {
			out = append(out, models.NameValue{Name: name})
		}
		out[i].Value++
	}
	return out
}

// Team summarises productivity, workload balance and the resulting insights.
func Team(admins []models.Admin, requests []models.Request) models.TeamSummary {
	members := TeamProductivity(admins, requests)
	summary := models.TeamSummary{
		Members:            members,
		TotalStaff:         len(members),
		DepartmentWorkload: DepartmentVolume(requests),
		Insights:           []models.TeamInsight{},
	}

	var best *models.AdminProductivity
	var efficiency float64
	for i := range members {
		m := &members[i]
		efficiency += m.EfficiencyScore
		if m.EfficiencyScore < DefaultEfficiency {
			summary.NeedsSupport++
		}
		if best == nil || m.EfficiencyScore > best.EfficiencyScore {
			best = m
		}
	}
	if len(members) > 0 {
		summary.AverageEfficiency = roundTo(efficiency/float64(len(members)), 1)
	}
	if best != nil && best.EfficiencyScore > 0 {
		top := *best
		summary.TopPerformer = &top
	}
	summary.Insights = TeamInsights(summary)
	return summary
}

// TeamInsights derives the top performer, training and workload imbalance notes.
func TeamInsights(summary models.TeamSummary) []models.TeamInsight {
	insights := []models.TeamInsight{}
	if top := summary.TopPerformer; top != nil {
		insights = append(insights, models.TeamInsight{
			Type: models.InsightGood,
			Text: fmt.Sprintf("Top Performer: %s (%s/5.0 efficiency)", top.Name, strconv.FormatFloat(top.EfficiencyScore, 'f', -1, 64)),
		})
	}
	if len(summary.Members) > 0 && summary.NeedsSupport > 0 {
		insights = append(insights, models.TeamInsight{
			Type: models.InsightWarn,
			Text: fmt.Sprintf("Needs Training: %d admin(s) below 4.0 score", summary.NeedsSupport),
		})
	}
	if n := len(summary.DepartmentWorkload); n > 0 {
		first, last := summary.DepartmentWorkload[0], summary.DepartmentWorkload[n-1]
		if last.Value > 0 && first.Value >= 2*last.Value {
			insights = append(insights, models.TeamInsight{
				Type: models.InsightAlert,
				Text: fmt.Sprintf("Workload Imbalance: %s has ~%.1fx more work than %s", first.Name, first.Value/last.Value, last.Name),
			})
		}
	}
	return insights
}
