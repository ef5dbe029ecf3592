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
)

// ErrNoDateMarker is returned when a header line has no '>' before the date
var ErrNoDateMarker = errors.New("header has no '>' before the generation date")

// ParseHeaderDate extracts the generation date that follows the first '>' of
// a report header line.
func ParseHeaderDate(line string) (time.Time, error) {
	_, raw, found := strings.Cut(line, ">")
	if !found {
		return time.Time{}, ErrNoDateMarker
	}

	date, err := time.ParseInLocation(config.HeaderTimeLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse generation date: %w", err)
	}
	return date, nil
}

// ReadHeaderDate reads only the first line of the report at path and parses
// its generation date.
func ReadHeaderDate(path string) (time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return time.Time{}, fmt.Errorf("failed to read report header: %w", err)
	}

	return ParseHeaderDate(line)
}

// ReadDate is ReadHeaderDate reporting failures to logger instead of the caller.
func ReadDate(logger *log.Logger, path string) (time.Time, bool) {
	date, err := ReadHeaderDate(path)
	if err != nil {
		logger.Warn("Cannot read report date", "path", path, "err", err)
		return time.Time{}, false
	}
	return date, true
}
