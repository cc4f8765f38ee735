package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSnapshot_Counters(t *testing.T) {
	s := StatsSnapshot{
		TotalMessages: 100,
		MessagesPerSeverity: map[Severity]uint64{
			0: 1, 1: 2, 2: 3, 3: 4, 4: 10, 6: 70, 7: 10,
		},
		RecentSources: []string{"10.0.0.1", "10.0.0.2"},
	}

	assert.Equal(t, uint64(10), s.ErrorCount())
	assert.Equal(t, uint64(70), s.InfoCount())
	assert.Equal(t, 2, s.SourceCount())
}

func TestStatsSnapshot_DecodeNumericKeys(t *testing.T) {
	data := `{"total_messages":5,"messages_per_facility":{"16":3,"4":2},` +
		`"messages_per_severity":{"6":4,"3":1},"recent_sources":["10.0.0.1"]}`

	var s StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(data), &s))
	assert.Equal(t, uint64(5), s.TotalMessages)
	assert.Equal(t, []Facility{4, 16}, s.Facilities())
	assert.Equal(t, uint64(1), s.ErrorCount())
}

func TestEmptyStats(t *testing.T) {
	s := EmptyStats()
	assert.NotNil(t, s.MessagesPerFacility)
	assert.NotNil(t, s.MessagesPerSeverity)
	assert.Zero(t, s.ErrorCount())
	assert.Empty(t, s.Facilities())
}
