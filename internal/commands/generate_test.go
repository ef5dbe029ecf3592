package commands

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"task-reports/internal/lock"
)

const usersJSON = `[{
	"id": 1, "name": "Bob", "username": "bob", "email": "b@x.com",
	"address": {"street": "s", "suite": "s", "city": "c", "zipcode": "z", "geo": {"lat": "0", "lng": "0"}},
	"phone": "p", "website": "w",
	"company": {"name": "n", "catchPhrase": "c", "bs": "b"}
}]`

const tasksJSON = `[
	{"userId": 1, "id": 2, "title": "B", "completed": false},
	{"userId": 1, "id": 1, "title": "A", "completed": true}
]`

func newAPI(t *testing.T, users, tasks string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(users))
	})
	mux.HandleFunc("/todos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tasks))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func executeGenerate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewGenerateCommand()
	cmd.SetArgs(args)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SilenceUsage = true

	err := cmd.Execute()
	return buf.String(), err
}

// TestNewGenerateCommand tests the generate command creation
func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	if cmd.Use != "generate" {
		t.Errorf("Expected command name 'generate', got '%s'", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Command descriptions are empty")
	}

	defaults := map[string]string{
		"users-url": "https://json.medrating.org/users",
		"tasks-url": "https://json.medrating.org/todos",
		"dir":       "tasks",
		"log-file":  "task.log",
		"log-level": "info",
		"timeout":   "30s",
		"strict":    "false",
		"config":    "",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("Expected flag '%s' not found", name)
			continue
		}
		if flag.DefValue != want {
			t.Errorf("Flag '%s' default = %q, want %q", name, flag.DefValue, want)
		}
	}
}

// TestGenerateCommandWritesReports tests a full successful run
func TestGenerateCommandWritesReports(t *testing.T) {
	srv := newAPI(t, usersJSON, tasksJSON)
	work := t.TempDir()
	dir := filepath.Join(work, "tasks")
	logFile := filepath.Join(work, "task.log")

	out, err := executeGenerate(t,
		"--users-url", srv.URL+"/users",
		"--tasks-url", srv.URL+"/todos",
		"--dir", dir,
		"--log-file", logFile,
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("Expected no console output, got %q", out)
	}

	report, err := os.ReadFile(filepath.Join(dir, "bob.txt"))
	if err != nil {
		t.Fatalf("Expected bob.txt: %v", err)
	}
	lines := strings.Split(string(report), "\n")
	wantTail := []string{"bob", "", "Completed tasks:", "A", "", "Remaining tasks:", "B", ""}
	if len(lines) != len(wantTail)+1 {
		t.Fatalf("Unexpected report:\n%s", report)
	}
	if !strings.HasPrefix(lines[0], "Bob <b@x.com> ") {
		t.Errorf("Unexpected header %q", lines[0])
	}
	for i, want := range wantTail {
		if lines[i+1] != want {
			t.Errorf("line %d = %q, want %q", i+2, lines[i+1], want)
		}
	}

	logData, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	for _, want := range []string{"msg=Start", "msg=Success"} {
		if !strings.Contains(string(logData), want) {
			t.Errorf("Expected log to contain %q, got %q", want, logData)
		}
	}
}

// TestGenerateCommandAbortsOnInvalidUsers tests that a schema mismatch writes nothing
func TestGenerateCommandAbortsOnInvalidUsers(t *testing.T) {
	srv := newAPI(t, strings.Replace(usersJSON, `"email": "b@x.com",`, "", 1), tasksJSON)

	tests := []struct {
		name    string
		strict  bool
		wantErr bool
	}{
		{name: "batch mode logs and exits cleanly", strict: false, wantErr: false},
		{name: "strict mode returns the error", strict: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := t.TempDir()
			dir := filepath.Join(work, "tasks")
			logFile := filepath.Join(work, "task.log")

			args := []string{
				"--users-url", srv.URL + "/users",
				"--tasks-url", srv.URL + "/todos",
				"--dir", dir,
				"--log-file", logFile,
			}
			if tt.strict {
				args = append(args, "--strict")
			}

			_, err := executeGenerate(t, args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if _, statErr := os.Stat(dir); !errors.Is(statErr, os.ErrNotExist) {
				t.Errorf("Report directory must not exist, stat error = %v", statErr)
			}

			logData, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("Expected log file: %v", err)
			}
			if !strings.Contains(string(logData), "email") {
				t.Errorf("Expected validation detail in log, got %q", logData)
			}
		})
	}
}

// TestGenerateCommandConfigFile tests that a TOML file supplies settings
func TestGenerateCommandConfigFile(t *testing.T) {
	srv := newAPI(t, usersJSON, tasksJSON)
	work := t.TempDir()
	dir := filepath.Join(work, "from-config")

	cfgFile := filepath.Join(work, "task-reports.toml")
	content := "users_url = \"" + srv.URL + "/users\"\n" +
		"tasks_url = \"" + srv.URL + "/todos\"\n" +
		"report_dir = \"" + filepath.ToSlash(dir) + "\"\n" +
		"log_file = \"" + filepath.ToSlash(filepath.Join(work, "cfg.log")) + "\"\n"
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := executeGenerate(t, "--config", cfgFile); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bob.txt")); err != nil {
		t.Errorf("Expected report in configured directory: %v", err)
	}
}

// TestGenerateCommandRespectsRunLock tests that a held lock stops the run
func TestGenerateCommandRespectsRunLock(t *testing.T) {
	srv := newAPI(t, usersJSON, tasksJSON)
	work := t.TempDir()
	dir := filepath.Join(work, "tasks")

	held, err := lock.Acquire(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer held.Release()

	_, err = executeGenerate(t,
		"--users-url", srv.URL+"/users",
		"--tasks-url", srv.URL+"/todos",
		"--dir", dir,
		"--log-file", filepath.Join(work, "task.log"),
	)
	if !errors.Is(err, lock.ErrLocked) {
		t.Errorf("Expected ErrLocked, got %v", err)
	}
	if _, statErr := os.Stat(dir); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("Report directory must not be created while locked")
	}
}

// TestGenerateCommandValidation tests configuration errors
func TestGenerateCommandValidation(t *testing.T) {
	work := t.TempDir()

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{
			name:   "zero timeout",
			args:   []string{"--timeout", "0s", "--log-file", filepath.Join(work, "a.log")},
			errMsg: "timeout must be positive",
		},
		{
			name:   "empty report dir",
			args:   []string{"--dir", "", "--log-file", filepath.Join(work, "b.log")},
			errMsg: "report directory",
		},
		{
			name:   "missing config file",
			args:   []string{"--config", filepath.Join(work, "missing.toml")},
			errMsg: "config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeGenerate(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing '%s', got '%s'", tt.errMsg, err.Error())
			}
		})
	}
}
