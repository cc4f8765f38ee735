package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/syslogdash/internal/domain"
)

func sampleEntry() domain.LogEntry {
	return domain.LogEntry{
		ID:         "abc",
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 5, 600_000_000, time.UTC),
		Facility:   16,
		Severity:   domain.SeverityInfo,
		Hostname:   "web-01",
		AppName:    "nginx",
		SourceIP:   "10.0.0.1",
		Message:    "GET /",
		RawMessage: "<134>GET /",
	}
}

func TestToLogEntryResponse_NullOptionalFields(t *testing.T) {
	data, err := json.Marshal(ToLogEntryResponse(sampleEntry()))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "web-01", raw["hostname"])
	assert.Contains(t, raw, "proc_id")
	assert.Nil(t, raw["proc_id"])
	assert.Nil(t, raw["msg_id"])
	assert.Equal(t, "2024-01-02T03:04:05.6Z", raw["timestamp"])
}

func TestLogEntryResponse_ToDomain(t *testing.T) {
	entry, err := ToLogEntryResponse(sampleEntry()).ToDomain()
	require.NoError(t, err)
	assert.Equal(t, sampleEntry(), entry)
}

func TestLogEntryResponse_ToDomainBadTimestamp(t *testing.T) {
	resp := ToLogEntryResponse(sampleEntry())
	resp.Timestamp = "yesterday"

	_, err := resp.ToDomain()
	assert.Error(t, err)
}

func TestToLogEntries_SkipsBadEntries(t *testing.T) {
	good := ToLogEntryResponse(sampleEntry())
	bad := good
	bad.Timestamp = "nope"

	entries, skipped := ToLogEntries([]LogEntryResponse{good, bad, good})
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, skipped)
}

func TestStatsResponse_RoundTrip(t *testing.T) {
	snap := domain.EmptyStats()
	snap.TotalMessages = 9
	snap.MessagesPerFacility[16] = 5
	snap.MessagesPerFacility[4] = 4
	snap.MessagesPerSeverity[3] = 2
	snap.RecentSources = []string{"10.0.0.2", "10.0.0.1"}

	resp := ToStatsResponse(snap)
	assert.Equal(t, uint64(5), resp.MessagesPerFacility["16"])
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, resp.RecentSources)

	back := resp.ToDomain()
	assert.Equal(t, uint64(9), back.TotalMessages)
	assert.Equal(t, []domain.Facility{4, 16}, back.Facilities())
	assert.Equal(t, uint64(2), back.ErrorCount())
}

func TestStatsResponse_IgnoresBadKeys(t *testing.T) {
	resp := StatsResponse{
		MessagesPerFacility: map[string]uint64{"x": 1, "300": 2, "2": 3},
	}
	snap := resp.ToDomain()
	assert.Equal(t, []domain.Facility{2}, snap.Facilities())
	assert.NotNil(t, snap.RecentSources)
}
