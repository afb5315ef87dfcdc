package domain

import "time"

// LogReport aggregates a monitor log file
type LogReport struct {
	Type          string `json:"type"`          // Always "report"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	File          string `json:"file"`

	// Time window
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`

	// Counts
	Lines              int `json:"lines"`
	SkippedLines       int `json:"skippedLines"`
	Records            int `json:"records"`
	Passes             int `json:"passes"`
	FetchFailures      int `json:"fetchFailures"`
	ProjectionFailures int `json:"projectionFailures"`

	HasErrors bool `json:"hasErrors"`

	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is the latest known state of one process group in a log
type GroupSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ParentGroupID   string    `json:"parentGroupId"`
	Seen            int       `json:"seen"`
	LastSeen        time.Time `json:"lastSeen"`
	RunningCount    int       `json:"runningCount"`
	StoppedCount    int       `json:"stoppedCount"`
	InvalidCount    int       `json:"invalidCount"`
	FlowFilesQueued int64     `json:"flowFilesQueued"`
	BytesQueued     int64     `json:"bytesQueued"`
	BulletinCount   int       `json:"bulletinCount"`
	ErrorCount      int       `json:"errorCount"`
	LastError       string    `json:"lastError,omitempty"`
	// LastBulletin is the newest bulletin of any level in the latest record
	LastBulletin      string `json:"lastBulletin,omitempty"`
	LastBulletinLevel string `json:"lastBulletinLevel,omitempty"`
}

// NewLogReport creates a new empty report
func NewLogReport(file string) *LogReport {
	return &LogReport{
		Type:   "report",
		File:   file,
		Groups: []GroupSummary{},
	}
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`           // Always "error"
	SchemaVersion int    `json:"schemaVersion"`  // Schema version for compatibility
	Code          string `json:"code"`           // Machine-readable error code
	Message       string `json:"message"`        // Human-readable message
	Hint          string `json:"hint,omitempty"` // Suggested fix
}

// NewErrorOutput creates a new error output
// Note: SchemaVersion should be set by the caller (output package)
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
