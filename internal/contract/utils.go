package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Chart status labels, matching schema.SignalSummary.Status.
const (
	StableValue = "Stable"
	XOnlyValue  = "X only"
	MROnlyValue = "mR only"
	BothValue   = "Both"
	FailedValue = "Failed"
)

// Color variables for console output.
var (
	BothColor   = color.New(color.FgRed, color.Bold)     // both charts signal, the process shifted
	MROnlyColor = color.New(color.FgMagenta, color.Bold) // variation changed without a level shift
	XOnlyColor  = color.New(color.FgYellow)              // level shifted with steady variation
	StableColor = color.New(color.FgGreen)               // no signal on either chart
)

// GetColorLabel returns a colored status label for console output (table).
func GetColorLabel(status string) string {
	switch status {
	case BothValue, FailedValue:
		return BothColor.Sprint(status)
	case MROnlyValue:
		return MROnlyColor.Sprint(status)
	case XOnlyValue:
		return XOnlyColor.Sprint(status)
	default:
		return StableColor.Sprint(status)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".xmr_analysis.db"
	}
	return filepath.Join(homeDir, ".xmr_analysis.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis never eats the whole label.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
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
