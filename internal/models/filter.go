package models

// FilterAll is the sentinel meaning "no constraint" for enumerated filter fields.
const FilterAll = "All"

// Date range presets.
const (
	DateRangeAll         = "All"
	DateRangeThisMonth   = "This month"
	DateRangeLastMonth   = "Last month"
	DateRangeLast7Days   = "Last 7 days"
	DateRangeLast30Days  = "Last 30 days"
	DateRangeLast3Months = "Last 3 months"
	DateRangeLast6Months = "Last 6 months"
	DateRangeThisYear    = "This year"
	DateRangeLastYear    = "Last year"
	DateRangeCustom      = "Custom"
)

// Search scopes.
const (
	SearchScopeAll         = "All"
	SearchScopeDepartments = "Departments"
	SearchScopeRequests    = "Requests"
	SearchScopeAdmins      = "Admins"
)

// FilterState is the immutable set of constraints applied in one filtering pass.
// Empty fields behave like FilterAll.
type FilterState struct {
	Department  string `json:"department" form:"department"`
	Status      string `json:"status" form:"status"`
	Priority    string `json:"priority" form:"priority"`
	Type        string `json:"type" form:"type"`
	Search      string `json:"search" form:"search"`
	SearchScope string `json:"searchScope" form:"searchScope"`
	DateRange   string `json:"dateRange" form:"dateRange"`
	DateStart   string `json:"dateStart" form:"dateStart"`
	DateEnd     string `json:"dateEnd" form:"dateEnd"`
}

// DefaultFilterState mirrors the dashboard's initial view: everything, scoped to the current month.
func DefaultFilterState() FilterState {
	return FilterState{
		Department:  FilterAll,
		Status:      FilterAll,
		Priority:    FilterAll,
		Type:        FilterAll,
		SearchScope: SearchScopeAll,
		DateRange:   DateRangeThisMonth,
	}
}
