package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/charliek/syslogdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(facilities map[domain.Facility]uint64) domain.StatsSnapshot {
	s := domain.EmptyStats()
	s.MessagesPerFacility = facilities
	for _, n := range facilities {
		s.TotalMessages += n
	}
	return s
}

func TestPoller_ApplyReplacesWholesale(t *testing.T) {
	p := NewPoller(0, nil)
	assert.Equal(t, 5*time.Second, p.Interval())

	now := time.Now()
	p.Apply(snapshot(map[domain.Facility]uint64{1: 3, 4: 2}), now)
	p.Apply(snapshot(map[domain.Facility]uint64{16: 1}), now)

	assert.Equal(t, []domain.Facility{16}, p.Snapshot().Facilities())
	assert.Equal(t, uint64(1), p.Snapshot().TotalMessages)
	assert.Equal(t, now, p.LastUpdated())
}

func TestPoller_FailKeepsPrevious(t *testing.T) {
	p := NewPoller(time.Second, nil)
	p.Apply(snapshot(map[domain.Facility]uint64{1: 3}), time.Now())

	p.Fail(errors.New("boom"))

	assert.Equal(t, uint64(3), p.Snapshot().TotalMessages)
	assert.EqualError(t, p.LastError(), "boom")

	p.Apply(snapshot(map[domain.Facility]uint64{1: 4}), time.Now())
	assert.NoError(t, p.LastError())
}

func TestPoller_ApplyNilMaps(t *testing.T) {
	p := NewPoller(time.Second, nil)
	p.Apply(domain.StatsSnapshot{TotalMessages: 2}, time.Now())

	assert.NotNil(t, p.Snapshot().MessagesPerFacility)
	assert.NotNil(t, p.Snapshot().MessagesPerSeverity)
}

func TestPoller_Reset(t *testing.T) {
	p := NewPoller(time.Second, nil)
	p.Apply(snapshot(map[domain.Facility]uint64{1: 3}), time.Now())

	p.Reset()
	assert.Zero(t, p.Snapshot().TotalMessages)
	assert.Empty(t, p.Snapshot().Facilities())
}

func TestFacilityOptions_SortedWithLabels(t *testing.T) {
	p := NewPoller(time.Second, nil)
	p.Apply(snapshot(map[domain.Facility]uint64{16: 7, 4: 2, 1: 9}), time.Now())

	options, selection, changed := p.FacilityOptions(nil)
	assert.Nil(t, selection)
	assert.False(t, changed)

	require.Len(t, options, 4)
	assert.Nil(t, options[0].Facility)
	assert.Equal(t, "All facilities", options[0].Label)
	assert.Equal(t, domain.Facility(1), *options[1].Facility)
	assert.Equal(t, "user (9)", options[1].Label)
	assert.Equal(t, "auth (2)", options[2].Label)
	assert.Equal(t, "local0 (7)", options[3].Label)
}

func TestFacilityOptions_PreservesSelection(t *testing.T) {
	p := NewPoller(time.Second, nil)
	p.Apply(snapshot(map[domain.Facility]uint64{1: 1, 4: 1}), time.Now())

	sel := domain.Facility(4)
	_, selection, changed := p.FacilityOptions(&sel)
	require.NotNil(t, selection)
	assert.Equal(t, domain.Facility(4), *selection)
	assert.False(t, changed)
}

func TestFacilityOptions_ResetsMissingSelection(t *testing.T) {
	p := NewPoller(time.Second, nil)
	p.Apply(snapshot(map[domain.Facility]uint64{1: 1}), time.Now())

	sel := domain.Facility(4)
	_, selection, changed := p.FacilityOptions(&sel)
	assert.Nil(t, selection)
	assert.True(t, changed)
}
