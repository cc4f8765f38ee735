// Package stream owns the single live connection to the collector's push channel.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/charliek/syslogdash/internal/api"
	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/logging"
)

// Status is the connection indicator state
type Status int

const (
	// StatusDown means no connection is established
	StatusDown Status = iota
	// StatusLive means the collector confirmed the connection
	StatusLive
)

func (s Status) String() string {
	if s == StatusLive {
		return "live"
	}
	return "down"
}

// EventKind identifies a connection event
type EventKind int

const (
	// ConnectionOpened is emitted when a dial succeeds
	ConnectionOpened EventKind = iota
	// Connected is emitted on the collector's connection confirmation
	Connected
	// EntryReceived carries one pushed entry
	EntryReceived
	// ConnectionClosed is emitted after an abnormal close, before the reconnect wait
	ConnectionClosed
)

// Event is delivered to the caller for every connection state change or entry
type Event struct {
	Kind  EventKind
	Entry domain.LogEntry
	Err   error
}

// Manager runs the connect/read/reconnect loop. A failed dial and a dropped
// connection are both abnormal closes and schedule one redial after the delay.
type Manager struct {
	dialer Dialer
	delay  time.Duration
	logger logging.Logger

	mu     sync.Mutex
	status Status
}

// Option configures a Manager
type Option func(*Manager)

// WithReconnectDelay overrides the fixed reconnect delay
func WithReconnectDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.delay = d
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a manager using dialer
func NewManager(dialer Dialer, opts ...Option) *Manager {
	m := &Manager{
		dialer: dialer,
		delay:  constants.ReconnectDelay,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status returns the current connection status
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// Run connects and delivers events to emit until ctx is cancelled. Cancelling
// ctx is the intentional teardown: the open connection is closed with a
// normal-closure frame and no reconnect is attempted. emit is called from the
// Run goroutine only.
func (m *Manager) Run(ctx context.Context, emit func(Event)) {
	defer m.setStatus(StatusDown)

	for {
		if ctx.Err() != nil {
			return
		}

		err := m.session(ctx, emit)
		if ctx.Err() != nil {
			return
		}

		m.setStatus(StatusDown)
		m.logger.Warn("msg", "Stream connection closed", "component", "stream",
			"error", err, "retry_in", m.delay)
		emit(Event{Kind: ConnectionClosed, Err: err})

		timer := time.NewTimer(m.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// session runs one connection from dial to close and returns the close reason
func (m *Manager) session(ctx context.Context, emit func(Event)) error {
	conn, err := m.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	emit(Event{Kind: ConnectionOpened})
	m.logger.Debug("msg", "Stream connection opened", "component", "stream")

	// Unblock the pending Read on intentional teardown.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			if err := conn.CloseNormal(); err != nil {
				m.logger.Debug("msg", "Stream close failed", "component", "stream", "error", err)
			}
		case <-stop:
		}
	}()

	for {
		data, err := conn.Read()
		if err != nil {
			_ = conn.Close()
			return err
		}

		msg, err := api.DecodeStreamMessage(data)
		if err != nil {
			m.logger.Warn("msg", "Skipping undecodable stream message", "component", "stream", "error", err)
			continue
		}

		if msg.IsControl() {
			if msg.Control == api.ControlConnected {
				m.setStatus(StatusLive)
				m.logger.Info("msg", "Stream connected", "component", "stream")
				emit(Event{Kind: Connected})
			}
			continue
		}
		emit(Event{Kind: EntryReceived, Entry: *msg.Entry})
	}
}
