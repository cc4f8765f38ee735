// Package dashboard holds the application state owned by the controller.
//
// State is not safe for concurrent use. It is created once, mutated only from
// the controller's event loop and torn down with Close.
package dashboard

import (
	"time"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/logging"
	"github.com/charliek/syslogdash/internal/logs"
	"github.com/charliek/syslogdash/internal/refresh"
	"github.com/charliek/syslogdash/internal/stats"
	"github.com/charliek/syslogdash/internal/stream"
)

// Level is a notification severity
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Notification is a transient message. Gen identifies it so a stale clear
// timer cannot remove a newer notification.
type Notification struct {
	Text  string
	Level Level
	Gen   uint64
}

// Options configure a new State
type Options struct {
	Capacity    int
	PageSize    int
	AutoRefresh time.Duration
	Logger      logging.Logger
}

// State is the single application state object
type State struct {
	buffer    *logs.Buffer
	view      *logs.View
	stats     *stats.Poller
	scheduler *refresh.Scheduler
	logger    logging.Logger

	status     stream.Status
	paused     bool
	refreshing bool
	dropped    int

	facilityOptions []stats.FacilityOption
	notification    *Notification
	notifyGen       uint64
}

// New creates the application state
func New(opts Options) *State {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	autoRefresh := opts.AutoRefresh
	if autoRefresh < 0 {
		autoRefresh = constants.DefaultAutoRefresh
	}

	s := &State{
		buffer:    logs.NewBuffer(opts.Capacity),
		view:      logs.NewView(opts.PageSize),
		stats:     stats.NewPoller(constants.StatsInterval, opts.Logger),
		scheduler: refresh.New(autoRefresh),
		logger:    opts.Logger,
		status:    stream.StatusDown,
	}
	s.facilityOptions, _, _ = s.stats.FacilityOptions(nil)
	return s
}

// Close stops the scheduler; outstanding ticks become stale
func (s *State) Close() {
	s.scheduler.Stop()
}

// Scheduler returns the auto-refresh scheduler
func (s *State) Scheduler() *refresh.Scheduler {
	return s.scheduler
}

// PushEntry applies a live entry. While paused the entry is dropped, not queued;
// the return value reports whether it was applied.
func (s *State) PushEntry(e domain.LogEntry) bool {
	if s.paused {
		s.dropped++
		return false
	}
	s.buffer.PushInsert(e)
	return true
}

// ReplaceLogs substitutes the buffer with a fetched snapshot
func (s *State) ReplaceLogs(entries []domain.LogEntry) {
	s.buffer.BulkReplace(entries)
}

// ApplyStats replaces the stats snapshot and rebuilds the facility options.
// It returns true when the facility selection disappeared and was reset to all.
func (s *State) ApplyStats(snap domain.StatsSnapshot, at time.Time) bool {
	s.stats.Apply(snap, at)

	options, selection, changed := s.stats.FacilityOptions(s.view.Filter().Facility)
	s.facilityOptions = options
	if changed {
		s.view.SetFacility(selection)
	}
	return changed
}

// FailStats records a failed stats poll; the previous snapshot stays
func (s *State) FailStats(err error) {
	s.stats.Fail(err)
}

// FailFetch records a failed log fetch; the buffer is left untouched
func (s *State) FailFetch(err error) {
	s.logger.Warn("msg", "Log fetch failed", "component", "dashboard", "error", err)
}

// ClearAll empties the local view after the server store was cleared
func (s *State) ClearAll() {
	s.buffer.Clear()
	s.view.ResetPage()
	s.stats.Reset()
	s.facilityOptions, _, _ = s.stats.FacilityOptions(nil)
	if s.view.Filter().Facility != nil {
		s.view.SetFacility(nil)
	}
}

// Stats returns the current stats snapshot
func (s *State) Stats() domain.StatsSnapshot {
	return s.stats.Snapshot()
}

// StatsUpdated returns when stats were last applied
func (s *State) StatsUpdated() time.Time {
	return s.stats.LastUpdated()
}

// StatsError returns the error from the last poll when it failed; the
// snapshot is then stale
func (s *State) StatsError() error {
	return s.stats.LastError()
}

// StatsInterval returns the stats poll period
func (s *State) StatsInterval() time.Duration {
	return s.stats.Interval()
}

// FacilityOptions returns the current facility choices, "all" first
func (s *State) FacilityOptions() []stats.FacilityOption {
	return s.facilityOptions
}

// Filter returns the active filter
func (s *State) Filter() domain.FilterState {
	return s.view.Filter()
}

// SetSearch sets the search text
func (s *State) SetSearch(text string) {
	s.view.SetSearch(text)
}

// SetFacility sets the facility filter; nil means all
func (s *State) SetFacility(f *domain.Facility) {
	s.view.SetFacility(f)
}

// SetSeverity sets the severity filter; nil means all
func (s *State) SetSeverity(sev *domain.Severity) {
	s.view.SetSeverity(sev)
}

// ClearFilters removes every filter
func (s *State) ClearFilters() {
	s.view.ClearFilters()
}

// CycleFacility advances the facility filter through the current options
func (s *State) CycleFacility() {
	options := s.facilityOptions
	current := s.view.Filter().Facility

	idx := 0
	for i, opt := range options {
		if opt.Facility != nil && current != nil && *opt.Facility == *current {
			idx = i
			break
		}
	}
	next := options[(idx+1)%len(options)]
	s.view.SetFacility(next.Facility)
}

// CycleSeverity advances the severity filter: all, EMERG, ..., DEBUG, all
func (s *State) CycleSeverity() {
	current := s.view.Filter().Severity
	switch {
	case current == nil:
		first := domain.SeverityEmergency
		s.view.SetSeverity(&first)
	case *current >= domain.SeverityDebug:
		s.view.SetSeverity(nil)
	default:
		next := *current + 1
		s.view.SetSeverity(&next)
	}
}

// NextPage moves forward one page if possible
func (s *State) NextPage() bool {
	return s.view.NextPage(s.buffer.Entries())
}

// PrevPage moves back one page if possible
func (s *State) PrevPage() bool {
	return s.view.PrevPage()
}

// Page derives the visible page
func (s *State) Page() logs.PageResult {
	return s.view.Page(s.buffer.Entries())
}

// FilteredEntries returns every entry passing the filter, used for export
func (s *State) FilteredEntries() []domain.LogEntry {
	return logs.FilterEntries(s.buffer.Entries(), s.view.Filter())
}

// BufferLen returns the number of retained entries
func (s *State) BufferLen() int {
	return s.buffer.Len()
}

// BufferCapacity returns the retention cap of the entry buffer
func (s *State) BufferCapacity() int {
	return s.buffer.Capacity()
}

// Detail looks up an entry still in the buffer. A miss is not an error: the
// entry may have been evicted since it was displayed.
func (s *State) Detail(id string) (domain.LogEntry, bool) {
	return s.buffer.Find(id)
}

// TogglePause flips the pause flag and returns the new value
func (s *State) TogglePause() bool {
	s.paused = !s.paused
	if !s.paused && s.dropped > 0 {
		s.logger.Info("msg", "Resumed", "component", "dashboard", "dropped_while_paused", s.dropped)
		s.dropped = 0
	}
	return s.paused
}

// Paused reports whether live entries are being dropped
func (s *State) Paused() bool {
	return s.paused
}

// Dropped returns the number of entries dropped during the current pause
func (s *State) Dropped() int {
	return s.dropped
}

// SetStatus updates the connection indicator
func (s *State) SetStatus(st stream.Status) {
	s.status = st
}

// Status returns the connection indicator
func (s *State) Status() stream.Status {
	return s.status
}

// BeginRefresh marks a snapshot fetch in flight. It returns false when one is
// already running so refreshes never stack.
func (s *State) BeginRefresh() bool {
	if s.refreshing {
		return false
	}
	s.refreshing = true
	return true
}

// EndRefresh clears the in-flight flag
func (s *State) EndRefresh() {
	s.refreshing = false
}

// Refreshing reports whether a snapshot fetch is in flight
func (s *State) Refreshing() bool {
	return s.refreshing
}

// Notify sets the transient notification and returns its generation
func (s *State) Notify(text string, level Level) uint64 {
	s.notifyGen++
	s.notification = &Notification{Text: text, Level: level, Gen: s.notifyGen}
	return s.notifyGen
}

// ClearNotification removes the notification if it is still generation gen
func (s *State) ClearNotification(gen uint64) {
	if s.notification != nil && s.notification.Gen == gen {
		s.notification = nil
	}
}

// Notification returns the current notification, if any
func (s *State) Notification() (Notification, bool) {
	if s.notification == nil {
		return Notification{}, false
	}
	return *s.notification, true
}
