package models

import "time"

// Request statuses.
const (
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
)

// Request priorities.
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

// Request is one workflow item tracked by an admin.
type Request struct {
	RequestID             int       `json:"request_id"`
	RequestNumber         string    `json:"request_number"`
	StudentID             int       `json:"student_id,omitempty"`
	RequestType           string    `json:"request_type"`
	DepartmentID          int       `json:"department_id"`
	DepartmentName        string    `json:"department_name"`
	Priority              string    `json:"priority"`
	Status                string    `json:"status"`
	CreatedAt             Timestamp `json:"created_at"`
	ResolvedAt            Timestamp `json:"resolved_at"`
	ProcessingTimeMinutes float64   `json:"processing_time_minutes"`
	EstimatedTimeMinutes  float64   `json:"estimated_time_minutes,omitempty"`
	AssignedAdminID       int       `json:"assigned_admin_id"`
	AssignedAdminName     string    `json:"assigned_admin_name"`
	ErrorCount            int       `json:"error_count"`
	ComplexityScore       float64   `json:"complexity_score"`
	ManualStepsCount      int       `json:"manual_steps_count"`
	RequiresManualReview  bool      `json:"requires_manual_review"`
}

// IsCompleted reports whether the request reached an approving terminal state.
func (r Request) IsCompleted() bool {
	return r.Status == StatusApproved || r.Status == StatusResolved
}

// Admin is a staff member that processes requests.
type Admin struct {
	AdminID         int     `json:"admin_id"`
	Name            string  `json:"admin_name"`
	Email           string  `json:"email,omitempty"`
	DepartmentID    int     `json:"department_id,omitempty"`
	DepartmentName  string  `json:"department_name,omitempty"`
	Role            string  `json:"role,omitempty"`
	HourlyRate      float64 `json:"hourly_rate,omitempty"`
	EfficiencyScore float64 `json:"efficiency_score,omitempty"`
	ExperienceYears int     `json:"experience_years,omitempty"`
	Specialization  string  `json:"specialization,omitempty"`
	AvgTasksPerDay  float64 `json:"avg_tasks_per_day,omitempty"`
}

// Department groups requests by owning office.
type Department struct {
	DepartmentID   int    `json:"department_id"`
	DepartmentName string `json:"department_name"`
	DepartmentCode string `json:"department_code,omitempty"`
	DepartmentHead string `json:"department_head,omitempty"`
	HeadCount      int    `json:"head_count,omitempty"`
	TotalRequests  int    `json:"total_requests,omitempty"`
}

// Row is a normalized CSV record keyed by canonical field name.
type Row map[string]string

// DatasetSource tags where a bundle came from.
type DatasetSource string

const (
	SourceCSV      DatasetSource = "csv"
	SourceSample   DatasetSource = "sample"
	SourceUploaded DatasetSource = "uploaded"
	SourceDatabase DatasetSource = "database"
)

// Bundle is the complete in-memory dataset snapshot exchanged between the loader and its consumers.
// Consumers must treat it as read-only.
type Bundle struct {
	Requests     []Request     `json:"requests"`
	Admins       []Admin       `json:"admins"`
	Departments  []Department  `json:"departments"`
	RequestTypes []Row         `json:"request_types"`
	WorkloadLog  []Row         `json:"workload_log"`
	DailySummary []Row         `json:"daily_summary"`
	Source       DatasetSource `json:"source"`
	LoadedAt     time.Time     `json:"loaded_at"`
}

