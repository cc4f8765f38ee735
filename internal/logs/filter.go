package logs

import (
	"github.com/charliek/syslogdash/internal/domain"
)

// FilterEntries returns the entries passing every active predicate, preserving order.
func FilterEntries(entries []domain.LogEntry, filter domain.FilterState) []domain.LogEntry {
	if filter.IsEmpty() {
		return entries
	}

	result := make([]domain.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.Matches(entry) {
			result = append(result, entry)
		}
	}
	return result
}
