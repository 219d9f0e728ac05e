package model

import "time"

// PassCount is the number of records produced by one pass.
type PassCount struct {
	Pass  string `json:"pass"`
	Count int    `json:"count"`
}

// ReportRun summarizes one report generation.
type ReportRun struct {
	RunID        string      `json:"run_id"`
	OutputDir    string      `json:"output_dir"`
	Units        int         `json:"units"`
	Records      int         `json:"records"`
	Purged       int         `json:"purged"`
	Filtered     int         `json:"filtered"`
	HighestCount float64     `json:"highest_count"`
	Documents    []string    `json:"documents"`
	PassCounts   []PassCount `json:"records_by_pass"`
	IndexURL     string      `json:"index_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
