package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sahajm/bidscope/schema"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // top grades worth pursuing.
	GoodColor      = color.New(color.FgCyan)              // solid opportunity, minor gaps.
	MarginalColor  = color.New(color.FgYellow)            // caution, significant gaps.
	PoorColor      = color.New(color.FgRed, color.Bold)   // do not pursue.
)

// GetColorGrade returns a colored grade label for console output (table).
// It uses schema.GetGrade to determine the string, then applies the
// appropriate color.
func GetColorGrade(score float64) string {
	text := schema.GetGrade(score)

	switch text {
	case "Excellent", "Very Good":
		return ExcellentColor.Sprint(text)
	case "Good", "Satisfactory":
		return GoodColor.Sprint(text)
	case "Marginal":
		return MarginalColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetResultsDBFilePath returns the path to the SQLite DB file for result storage.
func GetResultsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".bidscope_results.db"
	}
	return filepath.Join(homeDir, ".bidscope_results.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

var windowPattern = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks|m|month|months)$`)

// ParseWindow parses a deadline window like "45d", "6 weeks" or "2m" into
// a duration. Months are approximated as 30 days.
func ParseWindow(s string) (time.Duration, error) {
	m := windowPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("expected 'N d|w|m' (e.g. 45d, 6w), got %q", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("window count must be a positive integer, got %q", m[1])
	}

	day := 24 * time.Hour
	switch m[2][0] {
	case 'd':
		return time.Duration(n) * day, nil
	case 'w':
		return time.Duration(n) * 7 * day, nil
	default: // months
		return time.Duration(n) * 30 * day, nil
	}
}

// TruncateText truncates display text to a maximum width with an ellipsis
// suffix. Requires maxWidth > 3 so both the ellipsis and at least one
// character of content fit.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}
