package models

import (
	"fmt"
	"time"
)

// ReportKind distinguishes the current report of a user from archived ones
type ReportKind string

const (
	ReportCurrent  ReportKind = "current"
	ReportArchived ReportKind = "archived"
)

// ReportEntry describes one report file found in the report directory
// This structure maps directly to the columns of the inventory table
type ReportEntry struct {
	Username    string     `db:"username" json:"username"`         // Report owner
	Kind        ReportKind `db:"kind" json:"kind"`                 // current or archived
	GeneratedAt time.Time  `db:"generated_at" json:"generated_at"` // Zero when the header is unreadable
	Path        string     `db:"path" json:"path"`
	Size        int64      `db:"size" json:"size"`           // File size in bytes
	Completed   int        `db:"completed" json:"completed"` // Lines under "Completed tasks:"
	Remaining   int        `db:"remaining" json:"remaining"` // Lines under "Remaining tasks:"
}

// String returns a human-readable representation of the report entry
func (r ReportEntry) String() string {
	generated := "unknown"
	if !r.GeneratedAt.IsZero() {
		generated = r.GeneratedAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s: %s %s %d/%d",
		generated,
		r.Username,
		r.Kind,
		r.Completed,
		r.Completed+r.Remaining)
}
