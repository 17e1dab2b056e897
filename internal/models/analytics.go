package models

import "time"

// KPIs is the headline metric block for a set of requests.
type KPIs struct {
	TotalRequests     int     `json:"totalRequests"`
	TotalHours        float64 `json:"totalHours"`
	TotalCost         float64 `json:"totalCost"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
	ApprovalRate      float64 `json:"approvalRate"`
	RejectionRate     float64 `json:"rejectionRate"`
	PendingRequests   int     `json:"pendingRequests"`
	ErrorRate         float64 `json:"errorRate"`
}

// NameValue is a labelled value used by chart series.
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TrendPoint is a request count for one calendar month.
type TrendPoint struct {
	Month    string `json:"month"`
	Year     int    `json:"year,omitempty"`
	Requests int    `json:"requests"`
}

// HeatmapRow holds weekday counts for one working hour.
type HeatmapRow struct {
	Hour      string `json:"hour"`
	Hours     int    `json:"hours"`
	Monday    int    `json:"Monday"`
	Tuesday   int    `json:"Tuesday"`
	Wednesday int    `json:"Wednesday"`
	Thursday  int    `json:"Thursday"`
	Friday    int    `json:"Friday"`

	Levels map[string]HeatmapLevel `json:"levels,omitempty"`
}

// HeatmapLevel buckets a heatmap cell count into an intensity band.
type HeatmapLevel string

const (
	HeatmapLow    HeatmapLevel = "LOW"
	HeatmapMedium HeatmapLevel = "MEDIUM"
	HeatmapHigh   HeatmapLevel = "HIGH"
	HeatmapPeak   HeatmapLevel = "PEAK"
)

// DescriptiveStats summarises processing time and the most common request type.
type DescriptiveStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   *string `json:"mode"`
	StdDev float64 `json:"stdDev"`
}

// DepartmentWorkload aggregates processing effort per department.
type DepartmentWorkload struct {
	Name      string  `json:"name"`
	Total     int     `json:"total"`
	TotalTime float64 `json:"totalTime"`
	AvgTime   float64 `json:"avgTime"`
}

// AdminProductivity is the per-admin row of the team view.
type AdminProductivity struct {
	AdminID           int     `json:"admin_id"`
	Name              string  `json:"name"`
	DepartmentName    string  `json:"department_name,omitempty"`
	Role              string  `json:"role,omitempty"`
	TotalTasks        int     `json:"totalTasks"`
	TasksCompleted    int     `json:"tasksCompleted"`
	AvgProcessingTime float64 `json:"avgProcessingTime"`
	ErrorRate         float64 `json:"errorRate"`
	EfficiencyScore   float64 `json:"efficiencyScore"`
	Approvals         int     `json:"approvals"`
	Rejections        int     `json:"rejections"`
	Pending           int     `json:"pending"`
}

// InsightKind classifies a team insight.
type InsightKind string

const (
	InsightGood  InsightKind = "good"
	InsightWarn  InsightKind = "warn"
	InsightAlert InsightKind = "alert"
)

// TeamInsight is a generated observation about the team.
type TeamInsight struct {
	Type InsightKind `json:"type"`
	Text string      `json:"text"`
}

// StatusBreakdown counts requests per lifecycle status.
type StatusBreakdown struct {
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Resolved int `json:"resolved"`
	Pending  int `json:"pending"`
}

// CalendarDay is the request volume of one calendar day.
type CalendarDay struct {
	Date   string          `json:"date"`
	Total  int             `json:"total"`
	Status StatusBreakdown `json:"status"`
}

// CalendarDayDetail drills into a single day.
type CalendarDayDetail struct {
	Date         string          `json:"date"`
	Total        int             `json:"total"`
	Status       StatusBreakdown `json:"status"`
	ByDepartment []NameValue     `json:"byDepartment"`
	ByHour       []NameValue     `json:"byHour"`
	PeakHour     string          `json:"peakHour"`
	PeakCount    int             `json:"peakCount"`
}

// CalendarMonth is the per-day volume of one month plus the months present in the data.
type CalendarMonth struct {
	Month           string        `json:"month"`
	Days            []CalendarDay `json:"days"`
	AvailableMonths []string      `json:"availableMonths"`
}

// TeamSummary is the team management view.
type TeamSummary struct {
	Members            []AdminProductivity `json:"members"`
	TotalStaff         int                 `json:"totalStaff"`
	TopPerformer       *AdminProductivity  `json:"topPerformer"`
	NeedsSupport       int                 `json:"needsSupport"`
	AverageEfficiency  float64             `json:"averageEfficiency"`
	DepartmentWorkload []NameValue         `json:"departmentWorkload"`
	Insights           []TeamInsight       `json:"insights"`
}

// SystemMetrics represents system level metrics captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DatasetLoads             uint64    `json:"dataset_loads"`
	DatasetWarnings          uint64    `json:"dataset_warnings"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
