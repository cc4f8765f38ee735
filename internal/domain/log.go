package domain

import (
	"strings"
	"time"
)

// LogEntry is one normalized syslog record as served by the collector.
// Entries are never mutated after they are decoded.
type LogEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Facility   Facility  `json:"facility"`
	Severity   Severity  `json:"severity"`
	Hostname   string    `json:"hostname,omitempty"`
	AppName    string    `json:"app_name,omitempty"`
	ProcID     string    `json:"proc_id,omitempty"`
	MsgID      string    `json:"msg_id,omitempty"`
	SourceIP   string    `json:"source_ip"`
	Message    string    `json:"message"`
	RawMessage string    `json:"raw_message"`
}

// SearchText returns the text the search filter matches against.
func (e LogEntry) SearchText() string {
	return strings.Join([]string{e.Message, e.Hostname, e.AppName, e.SourceIP}, " ")
}

// FilterState holds the active view filters. Nil Facility or Severity means "all".
type FilterState struct {
	Search   string
	Facility *Facility
	Severity *Severity
}

// IsEmpty returns true if no filters are set
func (f FilterState) IsEmpty() bool {
	return f.Search == "" && f.Facility == nil && f.Severity == nil
}

// Matches reports whether the entry passes every active predicate.
func (f FilterState) Matches(e LogEntry) bool {
	if f.Search != "" {
		if !strings.Contains(strings.ToLower(e.SearchText()), strings.ToLower(f.Search)) {
			return false
		}
	}
	if f.Facility != nil && e.Facility != *f.Facility {
		return false
	}
	if f.Severity != nil && e.Severity != *f.Severity {
		return false
	}
	return true
}
