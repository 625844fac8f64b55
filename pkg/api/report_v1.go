// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON schema for the end-of-run report.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	Version string `json:"version"`
	RunID   string `json:"run_id"`

	// Reader side, one entry per input (per partition in parallel runs).
	Inputs []InputReportV1 `json:"inputs"`

	// Run totals.
	LinesRead       int `json:"lines_read"`
	RecordsRead     int `json:"records_read"`
	RecordsSkipped  int `json:"records_skipped"`
	RecordsExported int `json:"records_exported"`
	RecordsExcluded int `json:"records_excluded"`
	CSVRows         int `json:"csv_rows,omitempty"`
}

// InputReportV1 carries one input stream's reader counters. Partition
// is 0 for unpartitioned runs; Output names the per-partition file in
// parallel runs.
type InputReportV1 struct {
	Path           string `json:"path"`
	Partition      int    `json:"partition"`
	Output         string `json:"output,omitempty"`
	LinesRead      int    `json:"lines_read"`
	RecordsRead    int    `json:"records_read"`
	RecordsSkipped int    `json:"records_skipped"`
}
