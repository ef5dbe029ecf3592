package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"task-reports/internal/models"
)

// ErrFetch wraps every failure to obtain validated users or tasks
var ErrFetch = errors.New("fetch failed")

// Source provides the validated input of a run
type Source interface {
	Users(ctx context.Context) ([]models.User, error)
	Tasks(ctx context.Context) ([]models.Task, error)
}

// ReportWriter writes one report file and reports whether it succeeded
type ReportWriter interface {
	Write(path string, user models.User, tasks []models.Task) bool
}

// Summary counts what happened to the reports of a run
type Summary struct {
	Users    int
	Written  int
	Archived int
	Restored int
	Failed   int
}

// Outcome is the result of generating the report of a single user
type Outcome struct {
	Path     string
	Archive  string // empty when no archive was created
	Written  bool
	Restored bool
}

// Generator drives a run: fetch, group, then per user rollover and write
type Generator struct {
	Dir      string
	Logger   *log.Logger
	Writer   ReportWriter
	Rollover *Rollover
}

// NewGenerator creates a Generator writing reports into dir
func NewGenerator(dir string, logger *log.Logger) *Generator {
	return &Generator{
		Dir:      dir,
		Logger:   logger,
		Writer:   NewWriter(logger),
		Rollover: &Rollover{Dir: dir, Logger: logger},
	}
}

// Generate fetches users and tasks from src and writes a report per user.
// A fetch or validation error aborts the run before the report directory is
// touched and is returned wrapped in ErrFetch.
func (g *Generator) Generate(ctx context.Context, src Source) (Summary, error) {
	g.Logger.Info("Start", "dir", g.Dir)

	users, err := src.Users(ctx)
	if err != nil {
		g.Logger.Error("Failed to get users, try again later", "err", err)
		return Summary{}, fmt.Errorf("%w: users: %w", ErrFetch, err)
	}

	tasks, err := src.Tasks(ctx)
	if err != nil {
		g.Logger.Error("Failed to get tasks, try again later", "err", err)
		return Summary{}, fmt.Errorf("%w: tasks: %w", ErrFetch, err)
	}

	if err := os.MkdirAll(g.Dir, 0755); err != nil {
		g.Logger.Error("Failed to create report directory", "dir", g.Dir, "err", err)
		return Summary{}, fmt.Errorf("failed to create report directory: %w", err)
	}

	summary := g.Run(Group(users, tasks))
	g.Logger.Info("Success",
		"users", summary.Users,
		"written", summary.Written,
		"archived", summary.Archived,
		"restored", summary.Restored,
		"failed", summary.Failed)

	return summary, nil
}

// Run writes the report of every grouped user, in ascending user id order.
// A failure for one user never stops the others.
func (g *Generator) Run(groups map[int]*UserTasks) Summary {
	summary := Summary{Users: len(groups)}

	for _, id := range SortedUserIDs(groups) {
		group := groups[id]
		outcome := g.Report(group.User, group.Tasks)

		if outcome.Archive != "" {
			summary.Archived++
		}
		if outcome.Restored {
			summary.Restored++
		}
		if outcome.Written {
			summary.Written++
		} else {
			summary.Failed++
		}
	}

	return summary
}

// Report rolls over the current report of user, if any, and writes a new one.
// When the write fails the archive created for it is renamed back.
func (g *Generator) Report(user models.User, tasks []models.Task) Outcome {
	outcome := Outcome{Path: filepath.Join(g.Dir, CurrentName(user.Username))}
	if user.Username == "" {
		g.Logger.Error("Skipping user without username", "user_id", user.ID)
		return outcome
	}
	if !SafeUsername(user.Username) {
		g.Logger.Error("Skipping user whose username is not a plain file name", "user_id", user.ID, "username", user.Username)
		outcome.Path = ""
		return outcome
	}

	if _, err := os.Stat(outcome.Path); err == nil {
		archived, ok := g.Rollover.Archive(outcome.Path, user.Username)
		if ok {
			outcome.Archive = archived
		} else {
			g.Logger.Warn("Previous report cannot be archived and will be overwritten", "path", outcome.Path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		g.Logger.Error("Cannot stat previous report", "path", outcome.Path, "err", err)
		return outcome
	}

	outcome.Written = g.Writer.Write(outcome.Path, user, tasks)
	if outcome.Written {
		return outcome
	}

	if outcome.Archive != "" {
		if err := g.Rollover.Restore(outcome.Archive, outcome.Path); err != nil {
			g.Logger.Error("Failed to restore previous report", "username", user.Username, "err", err)
			return outcome
		}
		outcome.Restored = true
	}

	return outcome
}

// SafeUsername reports whether username names a file directly inside the
// report directory
func SafeUsername(username string) bool {
	switch username {
	case "", ".", "..":
		return false
	}
	if strings.ContainsAny(username, `/\`) || strings.ContainsRune(username, 0) {
		return false
	}
	return filepath.Base(username) == username
}
