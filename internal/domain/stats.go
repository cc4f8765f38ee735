package domain

import "sort"

// StatsSnapshot is the aggregate counter set served by the collector.
// A snapshot is always replaced as a whole, never merged.
type StatsSnapshot struct {
	TotalMessages       uint64              `json:"total_messages"`
	MessagesPerFacility map[Facility]uint64 `json:"messages_per_facility"`
	MessagesPerSeverity map[Severity]uint64 `json:"messages_per_severity"`
	RecentSources       []string            `json:"recent_sources"`
}

// EmptyStats returns a zeroed snapshot with non-nil maps
func EmptyStats() StatsSnapshot {
	return StatsSnapshot{
		MessagesPerFacility: make(map[Facility]uint64),
		MessagesPerSeverity: make(map[Severity]uint64),
		RecentSources:       []string{},
	}
}

// ErrorCount sums the counts for severities 0 through 3
func (s StatsSnapshot) ErrorCount() uint64 {
	var total uint64
	for sev, n := range s.MessagesPerSeverity {
		if sev.IsError() {
			total += n
		}
	}
	return total
}

// InfoCount returns the count for the informational severity
func (s StatsSnapshot) InfoCount() uint64 {
	return s.MessagesPerSeverity[SeverityInfo]
}

// SourceCount returns the number of distinct recent sources
func (s StatsSnapshot) SourceCount() int {
	return len(s.RecentSources)
}

// Facilities returns the facilities present in the snapshot in ascending order
func (s StatsSnapshot) Facilities() []Facility {
	out := make([]Facility, 0, len(s.MessagesPerFacility))
	for f := range s.MessagesPerFacility {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
