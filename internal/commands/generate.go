// Package commands implements the CLI commands for the task report generator
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"task-reports/internal/config"
	"task-reports/internal/fetch"
	"task-reports/internal/lock"
	"task-reports/internal/logging"
	"task-reports/internal/report"
)

// generateOptions holds the flag values of the generate command
type generateOptions struct {
	configFile string
	usersURL   string
	tasksURL   string
	reportDir  string
	logFile    string
	logLevel   string
	timeout    time.Duration
	strict     bool
}

// NewGenerateCommand creates the 'generate' subcommand that writes one report per user
// Usage: task-reports generate [--dir tasks] [--log-file task.log]
func NewGenerateCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch users and tasks and write one report per user",
		Long: `Fetch the user and task lists, validate them and write a plain-text report
per user into the report directory.

An existing report is first renamed to <username>_<YYYY-MM-DDTHH:MM>.txt using the
date in its header. If the new report cannot be written the old one is renamed back.

Nothing is printed to the console; progress and failures go to the log file.
A fetch or validation failure aborts the run before any report is touched.

Example:
  task-reports generate
  task-reports generate --dir reports --log-file reports.log
  task-reports generate --config task-reports.toml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runGenerateCommand(cmd.Context(), cfg)
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", config.ConfigDescription)
	cmd.Flags().StringVar(&opts.usersURL, "users-url", defaults.UsersURL, config.UsersURLDescription)
	cmd.Flags().StringVar(&opts.tasksURL, "tasks-url", defaults.TasksURL, config.TasksURLDescription)
	cmd.Flags().StringVarP(&opts.reportDir, "dir", "d", defaults.ReportDir, config.ReportDirDescription)
	cmd.Flags().StringVar(&opts.logFile, "log-file", defaults.LogFile, config.LogFileDescription)
	cmd.Flags().StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaults.Timeout.Duration, config.TimeoutDescription)
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with an error when users or tasks cannot be fetched")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file over defaults
func resolveConfig(cmd *cobra.Command, opts generateOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("users-url") {
		cfg.UsersURL = opts.usersURL
	}
	if flags.Changed("tasks-url") {
		cfg.TasksURL = opts.tasksURL
	}
	if flags.Changed("dir") {
		cfg.ReportDir = opts.reportDir
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("timeout") {
		cfg.Timeout.Duration = opts.timeout
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runGenerateCommand executes one batch run
func runGenerateCommand(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logs, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer logs.Close()
	logger := logs.Logger

	runLock, err := lock.Acquire(cfg.ReportDir)
	if err != nil {
		logger.Error("Cannot start run", "err", err)
		if errors.Is(err, lock.ErrLocked) {
			return err
		}
		return fmt.Errorf("failed to lock report directory: %w", err)
	}
	defer func() {
		if err := runLock.Release(); err != nil {
			logger.Warn("Failed to release run lock", "path", runLock.Path(), "err", err)
		}
	}()

	client := fetch.NewClient(cfg.UsersURL, cfg.TasksURL, cfg.Timeout.Duration)
	generator := report.NewGenerator(cfg.ReportDir, logger)

	if _, err := generator.Generate(ctx, client); err != nil {
		if cfg.Strict || !errors.Is(err, report.ErrFetch) {
			return err
		}
	}

	return nil
}
