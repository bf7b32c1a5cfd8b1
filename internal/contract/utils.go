package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color variables for console output.
var (
	ErrorColor   = color.New(color.FgRed, color.Bold) // ErrorColor marks fatal diagnostics.
	WarnColor    = color.New(color.FgYellow)          // WarnColor marks degraded results.
	SuccessColor = color.New(color.FgGreen)           // SuccessColor marks completed steps.
	InfoColor    = color.New(color.FgCyan)            // InfoColor marks progress lines.
)

// ConfigureColors enables colored output only when requested and stdout is a terminal.
func ConfigureColors(enabled bool) {
	color.NoColor = !enabled || !term.IsTerminal(int(os.Stdout.Fd()))
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = ErrorColor.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err == nil {
		_, _ = WarnColor.Fprintf(os.Stderr, "⚠️  %s\n", msg)
		return
	}
	_, _ = WarnColor.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
}

// LogInfo prints a progress line to stderr so stdout stays clean for tables.
func LogInfo(format string, args ...any) {
	_, _ = InfoColor.Fprintf(os.Stderr, format+"\n", args...)
}

// LogSuccess prints a completed-step line to stderr.
func LogSuccess(format string, args ...any) {
	_, _ = SuccessColor.Fprintf(os.Stderr, format+"\n", args...)
}

// Sanitize maps every character outside [A-Za-z0-9_-] to an underscore.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitreport_history.db"
	}
	return filepath.Join(homeDir, ".gitreport_history.db")
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
