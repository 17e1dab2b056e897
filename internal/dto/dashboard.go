package dto

import (
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// DashboardQuery carries the filter state, per-request setting overrides and table paging of a
// dashboard request.
type DashboardQuery struct {
	Filters      models.FilterState
	SLAThreshold *float64
	UseTimestamp *bool
	Sort         string
	Order        string
	Page         int
	PageSize     int
	Month        string
	Day          string
}

// Settings are the analytic knobs in effect for a response.
type Settings struct {
	SLAThreshold           float64 `json:"slaThreshold"`
	UseTimestampResolution bool    `json:"useTimestampResolution"`
}

// DatasetMeta tells the client which snapshot produced a response.
type DatasetMeta struct {
	Source   models.DatasetSource `json:"source"`
	Version  uint64               `json:"version"`
	LoadedAt time.Time            `json:"loadedAt"`
	Warnings []string             `json:"warnings"`
}

// DashboardCharts groups the chart series of the overview.
type DashboardCharts struct {
	RequestTypes       []models.NameValue          `json:"requestTypes"`
	AvgTimeByType      []models.NameValue          `json:"avgTimeByType"`
	Trend              []models.TrendPoint         `json:"trend"`
	RollingTrend       []models.TrendPoint         `json:"rollingTrend"`
	Heatmap            []models.HeatmapRow         `json:"heatmap"`
	DepartmentWorkload []models.DepartmentWorkload `json:"departmentWorkload"`
}

// DashboardOverview is the main dashboard payload.
type DashboardOverview struct {
	KPIs                 models.KPIs             `json:"kpis"`
	SLACompliance        float64                 `json:"slaCompliance"`
	AvgResolutionMinutes float64                 `json:"avgResolutionMinutes"`
	MonthlyVolume        int                     `json:"monthlyVolume"`
	MonthlyCost          float64                 `json:"monthlyCost"`
	Stats                models.DescriptiveStats `json:"stats"`
	Charts               DashboardCharts         `json:"charts"`
	VisibleRequests      int                     `json:"visibleRequests"`
	TotalRequests        int                     `json:"totalRequests"`
	Filters              models.FilterState      `json:"filters"`
	Settings             Settings                `json:"settings"`
	Dataset              DatasetMeta             `json:"dataset"`
}

// RequestTable is one page of the filtered, sorted request list.
type RequestTable struct {
	Items      []models.Request  `json:"items"`
	Pagination models.Pagination `json:"pagination"`
	Sort       string            `json:"sort"`
	Order      string            `json:"order"`
}

// CalendarResponse is the calendar view, optionally with one day drilled into.
type CalendarResponse struct {
	models.CalendarMonth
	Day *models.CalendarDayDetail `json:"day,omitempty"`
}
