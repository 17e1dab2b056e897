package dataset

import (
	"sort"
	"strconv"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/pkg/export"
)

var requestColumns = []string{
	"request_id", "request_number", "student_id", "request_type", "department_id", "department_name",
	"priority", "status", "created_at", "resolved_at", "processing_time_minutes", "estimated_time_minutes",
	"assigned_admin_id", "assigned_admin_name", "error_count", "complexity_score", "manual_steps_count",
	"requires_manual_review",
}

var adminColumns = []string{
	"admin_id", "admin_name", "email", "department_id", "department_name", "role", "hourly_rate",
	"efficiency_score", "experience_years", "specialization", "avg_tasks_per_day",
}

var departmentColumns = []string{
	"department_id", "department_name", "department_code", "department_head", "head_count", "total_requests",
}

// Tables renders a bundle back into the six canonical CSV tables, keyed by resource.
// Tables without rows or known columns come back with no headers and should be skipped.
func Tables(bundle *models.Bundle) map[Resource]export.Dataset {
	requests := make([][]string, 0, len(bundle.Requests))
	for _, r := range bundle.Requests {
		requests = append(requests, []string{
			strconv.Itoa(r.RequestID), r.RequestNumber, optionalInt(r.StudentID), r.RequestType,
			strconv.Itoa(r.DepartmentID), r.DepartmentName, r.Priority, r.Status,
			r.CreatedAt.String(), r.ResolvedAt.String(),
			FormatNumber(r.ProcessingTimeMinutes), FormatNumber(r.EstimatedTimeMinutes),
			strconv.Itoa(r.AssignedAdminID), r.AssignedAdminName, strconv.Itoa(r.ErrorCount),
			FormatNumber(r.ComplexityScore), strconv.Itoa(r.ManualStepsCount),
			strconv.FormatBool(r.RequiresManualReview),
		})
	}

	admins := make([][]string, 0, len(bundle.Admins))
	for _, a := range bundle.Admins {
		admins = append(admins, []string{
			strconv.Itoa(a.AdminID), a.Name, a.Email, optionalInt(a.DepartmentID), a.DepartmentName, a.Role,
			FormatNumber(a.HourlyRate), FormatNumber(a.EfficiencyScore), strconv.Itoa(a.ExperienceYears),
			a.Specialization, FormatNumber(a.AvgTasksPerDay),
		})
	}

	departments := make([][]string, 0, len(bundle.Departments))
	for _, d := range bundle.Departments {
		departments = append(departments, []string{
			strconv.Itoa(d.DepartmentID), d.DepartmentName, d.DepartmentCode, d.DepartmentHead,
			strconv.Itoa(d.HeadCount), strconv.Itoa(d.TotalRequests),
		})
	}

	return map[Resource]export.Dataset{
		ResourceRequests:     {Title: "Requests", Headers: requestColumns, Rows: requests},
		ResourceAdmins:       {Title: "Admins", Headers: adminColumns, Rows: admins},
		ResourceDepartments:  {Title: "Departments", Headers: departmentColumns, Rows: departments},
		ResourceRequestTypes: rowTable("Request Types", bundle.RequestTypes),
		ResourceWorkloadLog:  rowTable("Workload Log", bundle.WorkloadLog),
		ResourceDailySummary: rowTable("Daily Summary", bundle.DailySummary),
	}
}

func rowTable(title string, rows []models.Row) export.Dataset {
	seen := map[string]bool{}
	var headers []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}
	sort.Strings(headers)

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = row[h]
		}
		out = append(out, record)
	}
	return export.Dataset{Title: title, Headers: headers, Rows: out}
}

func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
