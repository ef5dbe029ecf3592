package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"task-reports/internal/config"
	"task-reports/internal/models"
)

const (
	completedHeading = "Completed tasks:"
	remainingHeading = "Remaining tasks:"
)

// Writer renders report files
type Writer struct {
	Logger *log.Logger
	Now    func() time.Time
}

// NewWriter creates a Writer stamping reports with the wall clock
func NewWriter(logger *log.Logger) *Writer {
	return &Writer{Logger: logger, Now: time.Now}
}

// Write creates or truncates the report at path and fills it with the user's
// header and tasks. It returns false after logging when the file cannot be
// written or a record is malformed; the partial file is left on disk.
func (w *Writer) Write(path string, user models.User, tasks []models.Task) bool {
	if err := w.write(path, user, tasks); err != nil {
		w.Logger.Error("Failed to write report", "path", path, "username", user.Username, "err", err)
		return false
	}
	return true
}

func (w *Writer) write(path string, user models.User, tasks []models.Task) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report: %w", cerr)
		}
	}()

	buf := bufio.NewWriter(file)
	if err := Render(buf, user, tasks, w.now()); err != nil {
		// keep whatever was rendered before the failure
		return errors.Join(err, buf.Flush())
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Render writes the report layout for user to out, stamped with generated.
// Line breaks inside names and titles are replaced by spaces so every task
// stays on one line.
func Render(out io.Writer, user models.User, tasks []models.Task, generated time.Time) error {
	if err := checkUser(user); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := checkTask(user, t); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(out, "%s <%s> %s\n%s\n\n",
		singleLine(user.Name), singleLine(user.Email),
		generated.Format(config.HeaderTimeLayout), singleLine(user.Username)); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, completedHeading); err != nil {
		return err
	}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		if _, err := fmt.Fprintln(out, Truncate(singleLine(t.Title))); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(out, "\n%s\n", remainingHeading); err != nil {
		return err
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if _, err := fmt.Fprintln(out, Truncate(singleLine(t.Title))); err != nil {
			return err
		}
	}

	return nil
}

func checkUser(user models.User) error {
	switch {
	case user.Username == "":
		return fmt.Errorf("user %d has no username", user.ID)
	case user.Name == "":
		return fmt.Errorf("user %s has no name", user.Username)
	case user.Email == "":
		return fmt.Errorf("user %s has no email", user.Username)
	}
	return nil
}

func checkTask(user models.User, t models.Task) error {
	switch {
	case t.UserID != user.ID:
		return fmt.Errorf("task %d belongs to user %d, not %d", t.ID, t.UserID, user.ID)
	case t.Title == "":
		return fmt.Errorf("task %d has no title", t.ID)
	}
	return nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func singleLine(s string) string {
	return lineBreaks.Replace(s)
}

// Truncate shortens a title longer than config.TitleMaxLen characters to that
// many characters followed by config.TitlePlaceholder.
func Truncate(title string) string {
	runes := []rune(title)
	if len(runes) <= config.TitleMaxLen {
		return title
	}
	return string(runes[:config.TitleMaxLen]) + config.TitlePlaceholder
}
