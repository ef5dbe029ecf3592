package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"task-reports/internal/config"
	"task-reports/internal/models"
)

var archivePattern = regexp.MustCompile(`^(.+)_(\d{4}-\d{2}-\d{2}T\d{2}:\d{2})\.txt$`)

// Scan lists the report files in dir. Archived reports take their date from
// the file name, current reports from their header; unreadable headers leave
// GeneratedAt zero. Entries are ordered by username, then generation date.
func Scan(dir string) ([]models.ReportEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var entries []models.ReportEntry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), config.ReportExt) {
			continue
		}

		entry, err := scanFile(dir, f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Username != entries[j].Username {
			return entries[i].Username < entries[j].Username
		}
		return entries[i].GeneratedAt.Before(entries[j].GeneratedAt)
	})

	return entries, nil
}

func scanFile(dir string, f os.DirEntry) (models.ReportEntry, error) {
	path := filepath.Join(dir, f.Name())

	info, err := f.Info()
	if err != nil {
		return models.ReportEntry{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	entry := models.ReportEntry{Path: path, Size: info.Size()}

	if m := archivePattern.FindStringSubmatch(f.Name()); m != nil {
		generated, err := time.ParseInLocation(config.ArchiveLayout, m[2], time.Local)
		if err == nil {
			entry.Username = m[1]
			entry.Kind = models.ReportArchived
			entry.GeneratedAt = generated
		}
	}
	if entry.Kind == "" {
		entry.Username = strings.TrimSuffix(f.Name(), config.ReportExt)
		entry.Kind = models.ReportCurrent
		if generated, err := ReadHeaderDate(path); err == nil {
			entry.GeneratedAt = generated
		}
	}

	entry.Completed, entry.Remaining, err = countTasks(path)
	if err != nil {
		return models.ReportEntry{}, err
	}

	return entry, nil
}

// headerLines is the number of lines before the completed heading
const headerLines = 3

// countTasks counts the task lines of each section. The layout is read by
// position: the completed section ends at the first blank line and the
// remaining heading follows it, so titles equal to a heading still count.
// Files not following the layout count zero tasks.
func countTasks(path string) (completed, remaining int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var inCompleted, inRemaining bool
	scanner := bufio.NewScanner(file)
	for n := 0; scanner.Scan(); n++ {
		line := scanner.Text()
		switch {
		case n < headerLines:
		case n == headerLines:
			if line != completedHeading {
				return 0, 0, nil
			}
			inCompleted = true
		case inCompleted && line == "":
			inCompleted = false
		case inCompleted:
			completed++
		case !inRemaining:
			if line != remainingHeading {
				return 0, 0, nil
			}
			inRemaining = true
		case line != "":
			remaining++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !inRemaining {
		return 0, 0, nil
	}

	return completed, remaining, nil
}
