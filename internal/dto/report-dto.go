package dto

import "time"

type DashboardData struct {
	TotalErrors      int64 `json:"total_errors"`
	OpenErrors       int64 `json:"open_errors"`
	InProgressErrors int64 `json:"in_progress_errors"`
	ResolvedErrors   int64 `json:"resolved_errors"`
	CriticalErrors   int64 `json:"critical_errors"`

	ErrorsByProcess  []CountByProcess  `json:"errors_by_process"`
	ErrorsByDay      []CountByDay      `json:"errors_by_day"`
	ErrorsBySeverity []CountBySeverity `json:"errors_by_severity"`
	ErrorsByAssignee []CountByAssignee `json:"errors_by_assignee"`
}

type CountByProcess struct {
	ProcessLine string `json:"process_line"`
	Count       int64  `json:"count"`
}

type CountByDay struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type CountBySeverity struct {
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

type CountByAssignee struct {
	AssignedTo string `json:"assigned_to"`
	Count      int64  `json:"count"`
}

type CountByStatus struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ReportFilter struct {
	FromDate    time.Time
	ToDate      time.Time
	ProcessLine string
	Severity    string
}

type Report struct {
	TotalErrors   int               `json:"total_errors"`
	ByStatus      []CountByStatus   `json:"by_status"`
	BySeverity    []CountBySeverity `json:"by_severity"`
	ByProcessLine []CountByProcess  `json:"by_process_line"`
	ByAssignee    []CountByAssignee `json:"by_assignee"`
	ByDay         []CountByDay      `json:"by_day"`
}
