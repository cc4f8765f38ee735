// Package stats holds the most recent statistics snapshot and the facility
// options derived from it.
package stats

import (
	"fmt"
	"time"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/logging"
)

// Poller keeps the latest snapshot. The polling itself is driven by the caller's
// ticks; the poller decides what a result or a failure does to the state.
type Poller struct {
	snapshot    domain.StatsSnapshot
	interval    time.Duration
	lastUpdated time.Time
	lastErr     error
	logger      logging.Logger
}

// NewPoller creates a poller with an empty snapshot
func NewPoller(interval time.Duration, logger logging.Logger) *Poller {
	if interval <= 0 {
		interval = constants.StatsInterval
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Poller{
		snapshot: domain.EmptyStats(),
		interval: interval,
		logger:   logger,
	}
}

// Interval returns the poll period
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Snapshot returns the current snapshot
func (p *Poller) Snapshot() domain.StatsSnapshot {
	return p.snapshot
}

// LastUpdated returns when the last successful snapshot was applied
func (p *Poller) LastUpdated() time.Time {
	return p.lastUpdated
}

// LastError returns the error from the most recent failed poll, or nil
func (p *Poller) LastError() error {
	return p.lastErr
}

// Apply replaces the snapshot wholesale
func (p *Poller) Apply(s domain.StatsSnapshot, at time.Time) {
	if s.MessagesPerFacility == nil {
		s.MessagesPerFacility = make(map[domain.Facility]uint64)
	}
	if s.MessagesPerSeverity == nil {
		s.MessagesPerSeverity = make(map[domain.Severity]uint64)
	}
	p.snapshot = s
	p.lastUpdated = at
	p.lastErr = nil
}

// Fail records a failed poll; the previous snapshot stays in place
func (p *Poller) Fail(err error) {
	p.lastErr = err
	p.logger.Warn("msg", "Stats fetch failed", "component", "stats", "error", err)
}

// Reset zeroes the snapshot, used after the server store is cleared
func (p *Poller) Reset() {
	p.snapshot = domain.EmptyStats()
}

// FacilityOption is one selectable facility filter value. Facility is nil for "all".
type FacilityOption struct {
	Facility *domain.Facility
	Label    string
}

// FacilityOptions builds the selectable facility list from the snapshot: "all" first,
// then every facility present in ascending order. The selection is kept when still
// present; otherwise the returned selection is nil and changed is true.
func (p *Poller) FacilityOptions(selected *domain.Facility) (options []FacilityOption, selection *domain.Facility, changed bool) {
	options = []FacilityOption{{Label: "All facilities"}}

	found := selected == nil
	for _, f := range p.snapshot.Facilities() {
		options = append(options, FacilityOption{
			Facility: &f,
			Label:    fmt.Sprintf("%s (%d)", f, p.snapshot.MessagesPerFacility[f]),
		})
		if selected != nil && *selected == f {
			found = true
		}
	}

	if !found {
		return options, nil, true
	}
	return options, selected, false
}
