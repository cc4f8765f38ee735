package logs

import (
	"sync"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
)

// Buffer is the bounded, newest-first window of log entries held by the dashboard.
// Index 0 is always the most recently received entry.
type Buffer struct {
	mu       sync.RWMutex
	entries  []domain.LogEntry
	capacity int
}

// NewBuffer creates a buffer holding at most capacity entries
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = constants.MaxRetainedEntries
	}
	return &Buffer{
		entries:  make([]domain.LogEntry, 0, capacity),
		capacity: capacity,
	}
}

// BulkReplace substitutes the whole sequence. The input is expected newest first
// and is truncated to the capacity.
func (b *Buffer) BulkReplace(entries []domain.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(entries)
	if n > b.capacity {
		n = b.capacity
	}
	b.entries = make([]domain.LogEntry, n, b.capacity)
	copy(b.entries, entries[:n])
}

// PushInsert prepends a live entry and drops the oldest entries beyond capacity
func (b *Buffer) PushInsert(entry domain.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) < b.capacity {
		b.entries = append(b.entries, domain.LogEntry{})
	}
	copy(b.entries[1:], b.entries[:len(b.entries)-1])
	b.entries[0] = entry
}

// Clear removes all entries
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = b.entries[:0]
}

// Entries returns a copy of the entries, newest first
func (b *Buffer) Entries() []domain.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.LogEntry, len(b.entries))
	copy(result, b.entries)
	return result
}

// Find returns the entry with the given id, if it is still retained
func (b *Buffer) Find(id string) (domain.LogEntry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, e := range b.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.LogEntry{}, false
}

// Len returns the current number of entries
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Capacity returns the maximum number of entries
func (b *Buffer) Capacity() int {
	return b.capacity
}
