// Package record defines the log record model and the line-to-record assembler.
package record

import "strings"

// Severity is an ordered log severity level.
type Severity int

// Severity levels, lowest to highest.
const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
)

var severityNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

// String returns the canonical upper-case severity label.
func (s Severity) String() string {
	if s < SeverityTrace || s > SeverityError {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// ParseSeverity parses a severity token from a log header.
// The python-VM logger also emits WARNING and CRITICAL, which normalize
// to WARN and ERROR.
func ParseSeverity(token string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "TRACE":
		return SeverityTrace, true
	case "DEBUG":
		return SeverityDebug, true
	case "INFO":
		return SeverityInfo, true
	case "WARN", "WARNING":
		return SeverityWarn, true
	case "ERROR", "CRITICAL":
		return SeverityError, true
	default:
		return 0, false
	}
}
