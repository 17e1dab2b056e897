package dataset

import (
	"regexp"
	"strings"
)

// Field is a canonical column name and the spellings accepted for it.
type Field struct {
	Name     string
	Variants []string
}

// Vocabulary is an ordered header mapping. An exact canonical name always wins; otherwise the
// first field listing the cleaned header as a variant is used.
type Vocabulary []Field

var separatorPattern = regexp.MustCompile(`[\s-]+`)

// RequestVocabulary is the default vocabulary used for requests and the auxiliary tables.
var RequestVocabulary = Vocabulary{
	{Name: "request_id", Variants: []string{"requestid", "id"}},
	{Name: "request_number", Variants: []string{"requestnumber", "number", "req_num", "request_no"}},
	{Name: "student_id", Variants: []string{"studentid"}},
	{Name: "department_id", Variants: []string{"departmentid", "dept_id"}},
	{Name: "department_name", Variants: []string{"departmentname", "dept_name", "department", "dept"}},
	{Name: "request_type", Variants: []string{"requesttype", "type"}},
	{Name: "priority", Variants: []string{"priority_level", "prioritylevel"}},
	{Name: "status", Variants: []string{"request_status", "requeststatus"}},
	{Name: "assigned_admin_id", Variants: []string{"adminid", "admin_id", "assigned_to_id"}},
	{Name: "assigned_admin_name", Variants: []string{"adminname", "admin_name", "assigned_to"}},
	{Name: "created_at", Variants: []string{"createdat", "created", "date_created", "timestamp"}},
	{Name: "resolved_at", Variants: []string{"resolvedat", "resolved", "date_resolved", "completion_time"}},
	{Name: "processing_time_minutes", Variants: []string{"processingtime", "processing_time", "duration_minutes", "time_taken"}},
	{Name: "estimated_time_minutes", Variants: []string{"estimatedtime", "estimated_time"}},
	{Name: "error_count", Variants: []string{"errorcount", "errors"}},
	{Name: "complexity_score", Variants: []string{"complexity"}},
	{Name: "manual_steps_count", Variants: []string{"manual_steps"}},
	{Name: "requires_manual_review", Variants: []string{"manual_review"}},
	{Name: "department_code", Variants: []string{"deptcode", "dept_code", "code"}},
	{Name: "department_head", Variants: []string{"head", "manager", "dept_head"}},
	{Name: "role", Variants: []string{"admin_role", "position", "title"}},
}

// AdminVocabulary maps admins.csv headers; bare id and name columns belong to the admin.
var AdminVocabulary = Vocabulary{
	{Name: "admin_id", Variants: []string{"id", "adminid"}},
	{Name: "admin_name", Variants: []string{"name", "fullname", "full_name", "admin", "adminname"}},
	{Name: "email", Variants: []string{"email_address", "mail"}},
	{Name: "department_id", Variants: []string{"departmentid", "dept_id"}},
	{Name: "department_name", Variants: []string{"departmentname", "dept_name", "department", "dept"}},
	{Name: "role", Variants: []string{"admin_role", "position", "title"}},
	{Name: "hourly_rate", Variants: []string{"hourlyrate", "rate", "hourly_wage"}},
	{Name: "efficiency_score", Variants: []string{"efficiencyscore", "efficiency"}},
	{Name: "experience_years", Variants: []string{"experience", "years_experience"}},
	{Name: "specialization", Variants: []string{"specialty", "speciality"}},
	{Name: "avg_tasks_per_day", Variants: []string{"tasks_per_day"}},
}

// DepartmentVocabulary maps departments.csv headers.
var DepartmentVocabulary = Vocabulary{
	{Name: "department_id", Variants: []string{"id", "departmentid", "dept_id"}},
	{Name: "department_name", Variants: []string{"name", "departmentname", "dept_name", "department", "dept"}},
	{Name: "department_code", Variants: []string{"deptcode", "dept_code", "code"}},
	{Name: "department_head", Variants: []string{"head", "manager", "dept_head"}},
	{Name: "head_count", Variants: []string{"headcount", "staff_count"}},
	{Name: "total_requests", Variants: []string{"request_count", "requests"}},
}

// VocabularyFor returns the header vocabulary used for a resource.
func VocabularyFor(resource Resource) Vocabulary {
	switch resource {
	case ResourceAdmins:
		return AdminVocabulary
	case ResourceDepartments:
		return DepartmentVocabulary
	default:
		return RequestVocabulary
	}
}

// CleanHeader lower-cases and trims a header and turns whitespace and hyphen runs into underscores.
func CleanHeader(header string) string {
	return separatorPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_")
}

// Canonical resolves a single header to its canonical name. Unknown headers come back cleaned.
func (v Vocabulary) Canonical(header string) string {
	clean := CleanHeader(header)
	if clean == "" {
		return ""
	}
	for _, field := range v {
		if field.Name == clean {
			return clean
		}
	}
	for _, field := range v {
		for _, variant := range field.Variants {
			if variant == clean {
				return field.Name
			}
		}
	}
	return clean
}

// Normalize maps every header to its canonical name. Duplicates are kept.
func (v Vocabulary) Normalize(headers []string) []string {
	out := make([]string, len(headers))
	for i, header := range headers {
		out[i] = v.Canonical(header)
	}
	return out
}

// NormalizeHeaders normalizes headers with the request vocabulary.
func NormalizeHeaders(headers []string) []string {
	return RequestVocabulary.Normalize(headers)
}
