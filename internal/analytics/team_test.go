package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

func TestTeamProductivity(t *testing.T) {
	admins := []models.Admin{
		{AdminID: 1, Name: "Admin 1", EfficiencyScore: 4.6},
		{AdminID: 2, Name: "Admin 2", EfficiencyScore: 3.5},
		{AdminID: 4, Name: "Admin 4"},
	}
	rows := TeamProductivity(admins, fixtureRequests())
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].TotalTasks)
	assert.Equal(t, 2, rows[0].TasksCompleted)
	assert.Equal(t, 60.0, rows[0].AvgProcessingTime)
	assert.Equal(t, 1, rows[0].Approvals)

	assert.Equal(t, 1, rows[1].TasksCompleted)
	assert.Equal(t, 1, rows[1].Pending)
	assert.Equal(t, 1, rows[1].Rejections)
	assert.Equal(t, 50.0, rows[1].ErrorRate)
	assert.Equal(t, 53.0, rows[1].AvgProcessingTime)

	assert.Equal(t, DefaultEfficiency, rows[2].EfficiencyScore)
	assert.Zero(t, rows[2].TotalTasks)
}

func TestTeamSummaryInsights(t *testing.T) {
	admins := []models.Admin{
		{AdminID: 1, Name: "Admin 1", EfficiencyScore: 4.6},
		{AdminID: 2, Name: "Admin 2", EfficiencyScore: 3.6},
	}
	requests := []models.Request{
		{DepartmentName: "Registrar"}, {DepartmentName: "Registrar"}, {DepartmentName: "Finance"},
		{DepartmentName: "Registrar"}, {DepartmentName: "Registrar"},
	}

	summary := Team(admins, requests)
	assert.Equal(t, 2, summary.TotalStaff)
	require.NotNil(t, summary.TopPerformer)
	assert.Equal(t, "Admin 1", summary.TopPerformer.Name)
	assert.Equal(t, 1, summary.NeedsSupport)
	assert.Equal(t, 4.1, summary.AverageEfficiency)
	assert.Equal(t, []models.NameValue{{Name: "Registrar", Value: 4}, {Name: "Finance", Value: 1}}, summary.DepartmentWorkload)
	assert.Equal(t, []models.TeamInsight{
		{Type: models.InsightGood, Text: "Top Performer: Admin 1 (4.6/5.0 efficiency)"},
		{Type: models.InsightWarn, Text: "Needs Training: 1 admin(s) below 4.0 score"},
		{Type: models.InsightAlert, Text: "Workload Imbalance: Registrar has ~4.0x more work than Finance"},
	}, summary.Insights)
}

func TestTeamSummaryEmpty(t *testing.T) {
	summary := Team(nil, nil)
	assert.Nil(t, summary.TopPerformer)
	assert.Empty(t, summary.Insights)
	assert.Zero(t, summary.AverageEfficiency)
}
