// ABOUTME: ReportMode enum for overflow/underflow reporting policy
// ABOUTME: Logger, StdErr (default) or Disabled
package blocks

import (
	"fmt"
	"strings"
)

// ReportMode selects how a block reports overflow and underflow
// conditions. It is a side-effect policy only and may be changed at any
// time; the new mode applies from the next condition onward.
type ReportMode int

const (
	// ReportStdErr prints a two-character marker ("aO" or "aU") to
	// standard error per condition. This is the default.
	ReportStdErr ReportMode = iota
	// ReportLogger emits a structured log record per condition.
	ReportLogger
	// ReportDisabled suppresses condition reporting entirely.
	ReportDisabled
)

func (m ReportMode) String() string {
	switch m {
	case ReportStdErr:
		return "STDERROR"
	case ReportLogger:
		return "LOGGER"
	case ReportDisabled:
		return "DISABLED"
	}
	return fmt.Sprintf("ReportMode(%d)", int(m))
}

// ParseReportMode maps a mode name ("LOGGER", "STDERROR", "DISABLED")
// to its ReportMode. Matching is case-insensitive and "STDERR" is
// accepted as an alias.
func ParseReportMode(name string) (ReportMode, error) {
	switch strings.ToUpper(name) {
	case "LOGGER":
		return ReportLogger, nil
	case "STDERROR", "STDERR":
		return ReportStdErr, nil
	case "DISABLED":
		return ReportDisabled, nil
	}
	return 0, fmt.Errorf("unknown report mode %q", name)
}
