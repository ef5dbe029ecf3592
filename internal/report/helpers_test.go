package report

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"task-reports/internal/models"
)

var bob = models.User{ID: 1, Name: "Bob", Username: "bob", Email: "b@x.com"}

func bobTasks() []models.Task {
	return []models.Task{
		{UserID: 1, ID: 1, Title: "A", Completed: true},
		{UserID: 1, ID: 2, Title: "B", Completed: false},
	}
}

func newTestLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
	return logger, &buf
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
