package models

import "time"

// DatasetInfo describes the dataset snapshot currently served.
type DatasetInfo struct {
	Source       DatasetSource `json:"source"`
	Version      uint64        `json:"version"`
	LoadedAt     time.Time     `json:"loaded_at"`
	Requests     int           `json:"requests"`
	Admins       int           `json:"admins"`
	Departments  int           `json:"departments"`
	RequestTypes int           `json:"request_types"`
	WorkloadLog  int           `json:"workload_log"`
	DailySummary int           `json:"daily_summary"`
	Warnings     []string      `json:"warnings"`
}
