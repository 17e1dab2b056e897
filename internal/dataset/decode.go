package dataset

import (
	"strings"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// DecodeRequest maps a coerced row onto a Request.
func DecodeRequest(row models.Row) models.Request {
	return models.Request{
		RequestID:             intField(row, "request_id"),
		RequestNumber:         row["request_number"],
		StudentID:             intField(row, "student_id"),
		RequestType:           row["request_type"],
		DepartmentID:          intField(row, "department_id"),
		DepartmentName:        row["department_name"],
		Priority:              row["priority"],
		Status:                row["status"],
		CreatedAt:             timestampField(row, "created_at"),
		ResolvedAt:            timestampField(row, "resolved_at"),
		ProcessingTimeMinutes: ParseNumber(row["processing_time_minutes"]),
		EstimatedTimeMinutes:  ParseNumber(row["estimated_time_minutes"]),
		AssignedAdminID:       intField(row, "assigned_admin_id"),
		AssignedAdminName:     row["assigned_admin_name"],
		ErrorCount:            intField(row, "error_count"),
		ComplexityScore:       ParseNumber(row["complexity_score"]),
		ManualStepsCount:      intField(row, "manual_steps_count"),
		RequiresManualReview:  boolField(row, "requires_manual_review"),
	}
}

// DecodeAdmin maps a coerced admins.csv row onto an Admin.
func DecodeAdmin(row models.Row) models.Admin {
	return models.Admin{
		AdminID:         intField(row, "admin_id"),
		Name:            row["admin_name"],
		Email:           row["email"],
		DepartmentID:    intField(row, "department_id"),
		DepartmentName:  row["department_name"],
		Role:            row["role"],
		HourlyRate:      ParseNumber(row["hourly_rate"]),
		EfficiencyScore: ParseNumber(row["efficiency_score"]),
		ExperienceYears: intField(row, "experience_years"),
		Specialization:  row["specialization"],
		AvgTasksPerDay:  ParseNumber(row["avg_tasks_per_day"]),
	}
}

// DecodeDepartment maps a coerced departments.csv row onto a Department.
func DecodeDepartment(row models.Row) models.Department {
	return models.Department{
		DepartmentID:   intField(row, "department_id"),
		DepartmentName: row["department_name"],
		DepartmentCode: row["department_code"],
		DepartmentHead: row["department_head"],
		HeadCount:      intField(row, "head_count"),
		TotalRequests:  intField(row, "total_requests"),
	}
}

// Assemble builds a bundle from whichever tables were read. Missing tables become empty lists.
func Assemble(tables map[Resource]*Table, source models.DatasetSource) *models.Bundle {
	bundle := &models.Bundle{
		Requests:     []models.Request{},
		Admins:       []models.Admin{},
		Departments:  []models.Department{},
		RequestTypes: []models.Row{},
		WorkloadLog:  []models.Row{},
		DailySummary: []models.Row{},
		Source:       source,
	}
	if t := tables[ResourceRequests]; t != nil {
		for _, row := range t.Rows {
			bundle.Requests = append(bundle.Requests, DecodeRequest(row))
		}
	}
	if t := tables[ResourceAdmins]; t != nil {
		for _, row := range t.Rows {
			bundle.Admins = append(bundle.Admins, DecodeAdmin(row))
		}
	}
	if t := tables[ResourceDepartments]; t != nil {
		for _, row := range t.Rows {
			bundle.Departments = append(bundle.Departments, DecodeDepartment(row))
		}
	}
	if t := tables[ResourceRequestTypes]; t != nil {
		bundle.RequestTypes = append(bundle.RequestTypes, t.Rows...)
	}
	if t := tables[ResourceWorkloadLog]; t != nil {
		bundle.WorkloadLog = append(bundle.WorkloadLog, t.Rows...)
	}
	if t := tables[ResourceDailySummary]; t != nil {
		bundle.DailySummary = append(bundle.DailySummary, t.Rows...)
	}
	return bundle
}

func intField(row models.Row, key string) int {
	return int(ParseNumber(row[key]))
}

func timestampField(row models.Row, key string) models.Timestamp {
	raw := row[key]
	if raw == "" {
		return models.Timestamp{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return models.Timestamp{}
	}
	return models.NewTimestamp(t)
}

func boolField(row models.Row, key string) bool {
	switch strings.ToLower(strings.TrimSpace(row[key])) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}
