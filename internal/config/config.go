// Package config provides shared configuration constants and settings
// for the task report generator
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultUsersURL is the endpoint returning the user list
	DefaultUsersURL = "https://json.medrating.org/users"

	// DefaultTasksURL is the endpoint returning the task list
	DefaultTasksURL = "https://json.medrating.org/todos"

	// DefaultReportDir is the directory holding current and archived reports
	DefaultReportDir = "tasks"

	// DefaultLogFile is the append-only diagnostic log
	DefaultLogFile = "task.log"

	// DefaultLogLevel is the minimum level written to the log file
	DefaultLogLevel = "info"

	// DefaultTimeout bounds each HTTP request
	DefaultTimeout = 30 * time.Second

	// DefaultConfigFile is looked up in the working directory when --config is not given
	DefaultConfigFile = "task-reports.toml"

	// Flag help texts shared by the generate and query commands
	UsersURLDescription  = "URL of the users endpoint"
	TasksURLDescription  = "URL of the tasks endpoint"
	ReportDirDescription = "Directory holding current and archived reports"
	LogFileDescription   = "Path to the append-only log file"
	TimeoutDescription   = "Timeout for each HTTP request"
	ConfigDescription    = "Path to a TOML configuration file"

	// Report layout settings
	TitleMaxLen      = 50
	TitlePlaceholder = "..."
	HeaderTimeLayout = "02.01.2006 15:04"
	ArchiveLayout    = "2006-01-02T15:04"
	ReportExt        = ".txt"
)

// Config holds the settings of one generate run
type Config struct {
	UsersURL  string   `toml:"users_url"`
	TasksURL  string   `toml:"tasks_url"`
	ReportDir string   `toml:"report_dir"`
	LogFile   string   `toml:"log_file"`
	LogLevel  string   `toml:"log_level"`
	Timeout   Duration `toml:"timeout"`
	Strict    bool     `toml:"strict"`
}

// Duration wraps time.Duration so it can be written as "30s" in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// Default returns a Config populated with the fixed defaults
func Default() Config {
	return Config{
		UsersURL:  DefaultUsersURL,
		TasksURL:  DefaultTasksURL,
		ReportDir: DefaultReportDir,
		LogFile:   DefaultLogFile,
		LogLevel:  DefaultLogLevel,
		Timeout:   Duration{DefaultTimeout},
	}
}

// Load returns the defaults overridden by the TOML file at path
// An empty path falls back to DefaultConfigFile, which may be absent
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a run
func (c Config) Validate() error {
	if c.UsersURL == "" {
		return fmt.Errorf("users URL cannot be empty")
	}
	if c.TasksURL == "" {
		return fmt.Errorf("tasks URL cannot be empty")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report directory cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log file cannot be empty")
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout.Duration)
	}
	return nil
}
