package analytics

import (
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

func ts(value string) models.Timestamp {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return models.NewTimestamp(t)
}

// scenarioRequests is the three-request example used across the metric tests.
func scenarioRequests() []models.Request {
	return []models.Request{
		{
			RequestID:  1,
			Status:     models.StatusApproved,
			CreatedAt:  ts("2024-01-01T09:00:00Z"),
			ResolvedAt: ts("2024-01-01T09:40:00Z"),
		},
		{
			RequestID: 2,
			Status:    models.StatusPending,
			CreatedAt: ts("2024-01-02T10:00:00Z"),
		},
		{
			RequestID:             3,
			Status:                models.StatusRejected,
			ProcessingTimeMinutes: 90,
			ErrorCount:            2,
		},
	}
}

func fixtureRequests() []models.Request {
	return []models.Request{
		{RequestID: 1, RequestNumber: "REQ-00001", RequestType: "Transcript Request", DepartmentID: 101, DepartmentName: "Registrar", Priority: "High", Status: "Approved", AssignedAdminID: 1, AssignedAdminName: "Admin 1", ProcessingTimeMinutes: 30, CreatedAt: ts("2024-03-01T09:15:00Z")},
		{RequestID: 2, RequestNumber: "REQ-00002", RequestType: "Degree Audit", DepartmentID: 102, DepartmentName: "Finance", Priority: "Low", Status: "Pending", AssignedAdminID: 2, AssignedAdminName: "Admin 2", ProcessingTimeMinutes: 60, CreatedAt: ts("2024-03-10T14:00:00Z")},
		{RequestID: 3, RequestNumber: "REQ-00003", RequestType: "Transcript Request", DepartmentID: 101, DepartmentName: "Registrar", Priority: "Medium", Status: "Rejected", AssignedAdminID: 2, AssignedAdminName: "Admin 2", ProcessingTimeMinutes: 45, ErrorCount: 1, CreatedAt: ts("2024-02-20T11:00:00Z")},
		{RequestID: 4, RequestNumber: "REQ-00004", RequestType: "Academic Appeal", DepartmentID: 103, DepartmentName: "Admissions", Priority: "Critical", Status: "Resolved", AssignedAdminID: 1, AssignedAdminName: "Admin 1", ProcessingTimeMinutes: 90, CreatedAt: ts("2024-03-15T08:00:00Z")},
		{RequestID: 5, RequestNumber: "REQ-00005", RequestType: "Degree Audit", DepartmentID: 102, DepartmentName: " finance ", Priority: "high", Status: "approved", AssignedAdminID: 3, AssignedAdminName: "Admin 3", ProcessingTimeMinutes: 20},
	}
}
