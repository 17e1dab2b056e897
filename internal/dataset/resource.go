package dataset

import "fmt"

// Resource names one of the six CSV tables that make up a bundle.
type Resource string

const (
	ResourceRequests     Resource = "requests"
	ResourceAdmins       Resource = "admins"
	ResourceDepartments  Resource = "departments"
	ResourceRequestTypes Resource = "request_types"
	ResourceWorkloadLog  Resource = "workload_log"
	ResourceDailySummary Resource = "daily_summary"
)

// Resources lists every table in load order.
var Resources = []Resource{
	ResourceRequests,
	ResourceAdmins,
	ResourceDepartments,
	ResourceRequestTypes,
	ResourceWorkloadLog,
	ResourceDailySummary,
}

var requiredFields = map[Resource][]string{
	ResourceRequests:    {"request_id", "request_type", "status", "assigned_admin_id"},
	ResourceAdmins:      {"admin_id", "admin_name"},
	ResourceDepartments: {"department_id", "department_name"},
}

// FileName returns the CSV file name of the resource.
func (r Resource) FileName() string {
	return string(r) + ".csv"
}

// ResourceForFile matches an uploaded file name case-sensitively against the six resources.
func ResourceForFile(name string) (Resource, bool) {
	for _, res := range Resources {
		if res.FileName() == name {
			return res, true
		}
	}
	return "", false
}

// DetectFileType guesses which table a header row belongs to. It returns "" when nothing fits.
func DetectFileType(headers []string) Resource {
	has := func(vocab Vocabulary, fields ...string) bool {
		present := make(map[string]bool, len(headers))
		for _, header := range vocab.Normalize(headers) {
			present[header] = true
		}
		for _, field := range fields {
			if !present[field] {
				return false
			}
		}
		return true
	}
	switch {
	case has(RequestVocabulary, "request_type", "status"):
		return ResourceRequests
	case has(AdminVocabulary, "admin_id", "admin_name"):
		return ResourceAdmins
	case has(DepartmentVocabulary, "department_id", "department_name"):
		return ResourceDepartments
	case has(RequestVocabulary, "type_name"):
		return ResourceRequestTypes
	}
	return ""
}

// MissingFields lists the required canonical fields absent from normalized headers.
func MissingFields(resource Resource, normalized []string) []string {
	required, ok := requiredFields[resource]
	if !ok {
		return nil
	}
	present := make(map[string]bool, len(normalized))
	for _, header := range normalized {
		present[header] = true
	}
	var missing []string
	for _, field := range required {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

// ValidateRequiredFields returns an error naming missing required columns, or nil.
func ValidateRequiredFields(resource Resource, normalized []string) error {
	missing := MissingFields(resource, normalized)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%s is missing required fields: %v", resource.FileName(), missing)
}
