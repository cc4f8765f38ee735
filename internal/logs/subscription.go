package logs

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/logging"
)

var subscriptionIDCounter uint64

// Subscription is one live stream consumer
type Subscription struct {
	id     string
	ch     chan domain.LogEntry
	filter domain.FilterState
	closed atomic.Bool
	logger logging.Logger
}

func newSubscription(filter domain.FilterState, bufferSize int, logger logging.Logger) *Subscription {
	id := atomic.AddUint64(&subscriptionIDCounter, 1)
	return &Subscription{
		id:     fmt.Sprintf("sub-%d", id),
		ch:     make(chan domain.LogEntry, bufferSize),
		filter: filter,
		logger: logger,
	}
}

// ID returns the subscription ID
func (s *Subscription) ID() string {
	return s.id
}

// Channel returns the channel for receiving log entries
func (s *Subscription) Channel() <-chan domain.LogEntry {
	return s.ch
}

// Send attempts to deliver an entry without blocking.
// Returns false if the channel is full or closed.
func (s *Subscription) Send(entry domain.LogEntry) bool {
	if s.closed.Load() {
		return false
	}
	if !s.filter.Matches(entry) {
		return true
	}

	select {
	case s.ch <- entry:
		return true
	default:
		s.logger.Warn("msg", "Dropped entry for slow subscriber",
			"subscription", s.id, "entry_id", entry.ID)
		return false
	}
}

// Close closes the subscription channel once
func (s *Subscription) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.ch)
	}
}

// Hub fans published entries out to every subscription
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	bufferSize    int
	logger        logging.Logger
}

// NewHub creates a hub whose subscriptions buffer bufferSize entries
func NewHub(bufferSize int, logger logging.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = constants.DefaultSubscriptionBuffer
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Hub{
		subscriptions: make(map[string]*Subscription),
		bufferSize:    bufferSize,
		logger:        logger,
	}
}

// Subscribe registers a subscription receiving entries that match filter
func (h *Hub) Subscribe(filter domain.FilterState) (string, <-chan domain.LogEntry) {
	sub := newSubscription(filter, h.bufferSize, h.logger)

	h.mu.Lock()
	h.subscriptions[sub.ID()] = sub
	h.mu.Unlock()

	return sub.ID(), sub.Channel()
}

// Unsubscribe removes and closes a subscription
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscriptions[id]
	if ok {
		delete(h.subscriptions, id)
	}
	h.mu.Unlock()

	if ok {
		sub.Close()
	}
}

// Broadcast sends an entry to all subscribers
func (h *Hub) Broadcast(entry domain.LogEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscriptions {
		sub.Send(entry)
	}
}

// Count returns the number of active subscriptions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions)
}

// Close closes all subscriptions
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subscriptions))
	for _, sub := range h.subscriptions {
		subs = append(subs, sub)
	}
	h.subscriptions = make(map[string]*Subscription)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
