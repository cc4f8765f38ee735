package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Facility is the syslog facility code (0-23)
type Facility uint8

// Severity is the syslog severity code (0-7); lower is more urgent.
type Severity uint8

const (
	SeverityEmergency Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

// MaxFacility is the highest facility code defined by RFC 5424
const MaxFacility Facility = 23

var facilityNames = [...]string{
	"kern", "user", "mail", "daemon", "auth", "syslog", "lpr", "news",
	"uucp", "cron", "authpriv", "ftp", "ntp", "security", "console", "solaris-cron",
	"local0", "local1", "local2", "local3", "local4", "local5", "local6", "local7",
}

var severityNames = [...]string{
	"EMERG", "ALERT", "CRIT", "ERR", "WARN", "NOTICE", "INFO", "DEBUG",
}

// String returns the syslog keyword for the facility
func (f Facility) String() string {
	if int(f) < len(facilityNames) {
		return facilityNames[f]
	}
	return fmt.Sprintf("facility %d", f)
}

// Valid reports whether the facility is within the RFC 5424 range
func (f Facility) Valid() bool {
	return f <= MaxFacility
}

// String returns the short upper-case severity label
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity %d", s)
}

// Valid reports whether the severity is within 0-7
func (s Severity) Valid() bool {
	return s <= SeverityDebug
}

// IsError returns true for emergency through error
func (s Severity) IsError() bool {
	return s <= SeverityError
}

// AllSeverities returns every defined severity in ascending code order
func AllSeverities() []Severity {
	out := make([]Severity, 0, len(severityNames))
	for i := range severityNames {
		out = append(out, Severity(i))
	}
	return out
}

var severityAliases = map[string]Severity{
	"emergency":     SeverityEmergency,
	"critical":      SeverityCritical,
	"error":         SeverityError,
	"warning":       SeverityWarning,
	"informational": SeverityInfo,
}

// ParseFacility accepts a facility code or keyword, e.g. "4" or "auth"
func ParseFacility(s string) (Facility, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(MaxFacility) {
			return 0, fmt.Errorf("%w: facility %d out of range 0-%d", ErrInvalidFilter, n, MaxFacility)
		}
		return Facility(n), nil
	}
	for i, name := range facilityNames {
		if name == s {
			return Facility(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown facility %q", ErrInvalidFilter, s)
}

// ParseSeverity accepts a severity code, label or long name, e.g. "3", "ERR" or "error"
func ParseSeverity(s string) (Severity, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(SeverityDebug) {
			return 0, fmt.Errorf("%w: severity %d out of range 0-7", ErrInvalidFilter, n)
		}
		return Severity(n), nil
	}
	for i, name := range severityNames {
		if name == s {
			return Severity(i), nil
		}
	}
	if sev, ok := severityAliases[strings.ToLower(s)]; ok {
		return sev, nil
	}
	return 0, fmt.Errorf("%w: unknown severity %q", ErrInvalidFilter, s)
}
