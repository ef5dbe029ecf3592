package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"task-reports/internal/config"
)

// Rollover archives current reports and restores them after a failed rewrite
type Rollover struct {
	Dir    string
	Logger *log.Logger
}

// CurrentName returns the file name of the current report of username
func CurrentName(username string) string {
	return username + config.ReportExt
}

// ArchiveName returns the file name of a report of username generated at
func ArchiveName(username string, generated time.Time) string {
	return username + "_" + generated.Format(config.ArchiveLayout) + config.ReportExt
}

// Archive renames the report at path to its archive name, derived from the
// generation date in its header. When the date cannot be read nothing is
// renamed and ok is false, so the current report stays untouched.
func (r *Rollover) Archive(path, username string) (archived string, ok bool) {
	generated, found := ReadDate(r.Logger, path)
	if !found {
		return "", false
	}

	archived = filepath.Join(r.Dir, ArchiveName(username, generated))
	if err := os.Rename(path, archived); err != nil {
		r.Logger.Error("Failed to archive report", "path", path, "archive", archived, "err", err)
		return "", false
	}

	r.Logger.Debug("Archived report", "path", path, "archive", archived)
	return archived, true
}

// Restore renames an archive created by Archive back to the current report path
func (r *Rollover) Restore(archived, path string) error {
	if err := os.Rename(archived, path); err != nil {
		return fmt.Errorf("failed to restore %s: %w", archived, err)
	}
	r.Logger.Info("Restored previous report", "path", path, "archive", archived)
	return nil
}
