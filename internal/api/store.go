package api

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/logging"
	"github.com/charliek/syslogdash/internal/logs"
)

// StoreConfig holds configuration for the collector store
type StoreConfig struct {
	MaxEntries         int // entries kept before the oldest half is dropped
	SubscriptionBuffer int // buffer size for stream subscriptions
}

// DefaultStoreConfig returns the default configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxEntries:         constants.MaxStoredEntries,
		SubscriptionBuffer: constants.DefaultSubscriptionBuffer,
	}
}

// LogQuery selects entries from the store
type LogQuery struct {
	Limit    int
	Offset   int
	Facility *domain.Facility
	Severity *domain.Severity
	Search   string
}

// Store is the in-memory collector backing the demo server and tests.
// Entries are kept oldest first; queries return newest first.
type Store struct {
	mu         sync.RWMutex
	entries    []domain.LogEntry
	maxEntries int

	total       uint64
	perFacility map[domain.Facility]uint64
	perSeverity map[domain.Severity]uint64
	sources     map[string]struct{}

	hub    *logs.Hub
	logger logging.Logger
}

// NewStore creates an empty store
func NewStore(config StoreConfig, logger logging.Logger) *Store {
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultStoreConfig().MaxEntries
	}
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		maxEntries: config.MaxEntries,
		hub:        logs.NewHub(config.SubscriptionBuffer, logger),
		logger:     logger,
	}
	s.resetStats()
	return s
}

// Publish stores an entry and broadcasts it to stream subscribers.
// A missing id or timestamp is filled in; the stored entry is returned.
func (s *Store) Publish(entry domain.LogEntry) domain.LogEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.maxEntries {
		keep := s.maxEntries / 2
		dropped := len(s.entries) - keep
		s.entries = append([]domain.LogEntry(nil), s.entries[dropped:]...)
		s.logger.Debug("msg", "Dropped oldest entries", "component", "store", "count", dropped)
	}
	s.total++
	s.perFacility[entry.Facility]++
	s.perSeverity[entry.Severity]++
	if entry.SourceIP != "" {
		s.sources[entry.SourceIP] = struct{}{}
	}
	s.mu.Unlock()

	s.hub.Broadcast(entry)
	return entry
}

// Query returns matching entries newest first, after offset, at most limit.
// The limit defaults to DefaultInitialLimit and is capped at MaxFetchLimit.
func (s *Store) Query(q LogQuery) []domain.LogEntry {
	limit := q.Limit
	if limit <= 0 {
		limit = constants.DefaultInitialLimit
	}
	if limit > constants.MaxFetchLimit {
		limit = constants.MaxFetchLimit
	}
	search := strings.ToLower(q.Search)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.LogEntry, 0, min(limit, len(s.entries)))
	skipped := 0
	for i := len(s.entries) - 1; i >= 0 && len(result) < limit; i-- {
		e := s.entries[i]
		if q.Facility != nil && e.Facility != *q.Facility {
			continue
		}
		if q.Severity != nil && e.Severity != *q.Severity {
			continue
		}
		if search != "" && !matchesServerSearch(e, search) {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		result = append(result, e)
	}
	return result
}

// matchesServerSearch matches message, hostname or app name; the collector does
// not search source addresses.
func matchesServerSearch(e domain.LogEntry, search string) bool {
	return strings.Contains(strings.ToLower(e.Message), search) ||
		strings.Contains(strings.ToLower(e.Hostname), search) ||
		strings.Contains(strings.ToLower(e.AppName), search)
}

// Get returns a single entry by id
func (s *Store) Get(id string) (domain.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.LogEntry{}, domain.ErrEntryNotFound
}

// Clear removes every entry and resets the counters
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.resetStats()
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns the aggregate counters. Recent sources are sorted and limited
// to MaxRecentSources.
func (s *Store) Stats() domain.StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.EmptyStats()
	snap.TotalMessages = s.total
	for f, n := range s.perFacility {
		snap.MessagesPerFacility[f] = n
	}
	for sev, n := range s.perSeverity {
		snap.MessagesPerSeverity[sev] = n
	}
	for src := range s.sources {
		snap.RecentSources = append(snap.RecentSources, src)
	}
	sort.Strings(snap.RecentSources)
	if len(snap.RecentSources) > constants.MaxRecentSources {
		snap.RecentSources = snap.RecentSources[:constants.MaxRecentSources]
	}
	return snap
}

// Subscribe creates a stream subscription receiving every published entry
func (s *Store) Subscribe() (string, <-chan domain.LogEntry) {
	return s.hub.Subscribe(domain.FilterState{})
}

// Unsubscribe removes a stream subscription
func (s *Store) Unsubscribe(id string) {
	s.hub.Unsubscribe(id)
}

// Subscribers returns the number of connected stream subscribers
func (s *Store) Subscribers() int {
	return s.hub.Count()
}

// Close closes all stream subscriptions
func (s *Store) Close() {
	s.hub.Close()
}

func (s *Store) resetStats() {
	s.total = 0
	s.perFacility = make(map[domain.Facility]uint64)
	s.perSeverity = make(map[domain.Severity]uint64)
	s.sources = make(map[string]struct{})
}
