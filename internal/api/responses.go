package api

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charliek/syslogdash/internal/domain"
)

// LogEntryResponse is one log entry as served by GET /api/logs and the stream.
// Optional string fields are null when absent.
type LogEntryResponse struct {
	ID         string  `json:"id"`
	Timestamp  string  `json:"timestamp"`
	Facility   uint8   `json:"facility"`
	Severity   uint8   `json:"severity"`
	Hostname   *string `json:"hostname"`
	AppName    *string `json:"app_name"`
	ProcID     *string `json:"proc_id"`
	MsgID      *string `json:"msg_id"`
	Message    string  `json:"message"`
	RawMessage string  `json:"raw_message"`
	SourceIP   string  `json:"source_ip"`
}

// StatsResponse represents the response for GET /api/stats. Map keys are the
// decimal facility or severity code.
type StatsResponse struct {
	TotalMessages       uint64            `json:"total_messages"`
	MessagesPerFacility map[string]uint64 `json:"messages_per_facility"`
	MessagesPerSeverity map[string]uint64 `json:"messages_per_severity"`
	RecentSources       []string          `json:"recent_sources"`
}

// ControlMessage is a non-entry message on the stream
type ControlMessage struct {
	Type string `json:"type"`
}

// ControlConnected is sent once after the stream is established
const ControlConnected = "connected"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToLogEntryResponse converts domain.LogEntry to LogEntryResponse
func ToLogEntryResponse(entry domain.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:         entry.ID,
		Timestamp:  entry.Timestamp.UTC().Format(time.RFC3339Nano),
		Facility:   uint8(entry.Facility),
		Severity:   uint8(entry.Severity),
		Hostname:   optional(entry.Hostname),
		AppName:    optional(entry.AppName),
		ProcID:     optional(entry.ProcID),
		MsgID:      optional(entry.MsgID),
		Message:    entry.Message,
		RawMessage: entry.RawMessage,
		SourceIP:   entry.SourceIP,
	}
}

// ToDomain converts the wire entry. An unparseable timestamp is an error.
func (r LogEntryResponse) ToDomain() (domain.LogEntry, error) {
	ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("parsing timestamp %q: %w", r.Timestamp, err)
	}
	return domain.LogEntry{
		ID:         r.ID,
		Timestamp:  ts,
		Facility:   domain.Facility(r.Facility),
		Severity:   domain.Severity(r.Severity),
		Hostname:   deref(r.Hostname),
		AppName:    deref(r.AppName),
		ProcID:     deref(r.ProcID),
		MsgID:      deref(r.MsgID),
		SourceIP:   r.SourceIP,
		Message:    r.Message,
		RawMessage: r.RawMessage,
	}, nil
}

// ToLogEntries converts a fetched page, skipping entries that fail to convert.
// The second return value is the number of skipped entries.
func ToLogEntries(resp []LogEntryResponse) ([]domain.LogEntry, int) {
	entries := make([]domain.LogEntry, 0, len(resp))
	skipped := 0
	for _, r := range resp {
		e, err := r.ToDomain()
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}

// ToStatsResponse converts a snapshot to its wire form
func ToStatsResponse(s domain.StatsSnapshot) StatsResponse {
	resp := StatsResponse{
		TotalMessages:       s.TotalMessages,
		MessagesPerFacility: make(map[string]uint64, len(s.MessagesPerFacility)),
		MessagesPerSeverity: make(map[string]uint64, len(s.MessagesPerSeverity)),
		RecentSources:       append([]string{}, s.RecentSources...),
	}
	for f, n := range s.MessagesPerFacility {
		resp.MessagesPerFacility[strconv.Itoa(int(f))] = n
	}
	for sev, n := range s.MessagesPerSeverity {
		resp.MessagesPerSeverity[strconv.Itoa(int(sev))] = n
	}
	sort.Strings(resp.RecentSources)
	return resp
}

// ToDomain converts the wire stats. Keys that are not valid codes are ignored.
func (r StatsResponse) ToDomain() domain.StatsSnapshot {
	s := domain.EmptyStats()
	s.TotalMessages = r.TotalMessages
	for k, n := range r.MessagesPerFacility {
		if v, err := strconv.ParseUint(k, 10, 8); err == nil {
			s.MessagesPerFacility[domain.Facility(v)] = n
		}
	}
	for k, n := range r.MessagesPerSeverity {
		if v, err := strconv.ParseUint(k, 10, 8); err == nil {
			s.MessagesPerSeverity[domain.Severity(v)] = n
		}
	}
	if r.RecentSources != nil {
		s.RecentSources = r.RecentSources
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
