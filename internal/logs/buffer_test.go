package logs

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/charliek/syslogdash/internal/domain"
	"github.com/stretchr/testify/assert"
)

func makeEntry(id string) domain.LogEntry {
	return domain.LogEntry{
		ID:        id,
		Timestamp: time.Now(),
		Facility:  1,
		Severity:  domain.SeverityInfo,
		SourceIP:  "10.0.0.1",
		Message:   "message " + id,
	}
}

func makeEntries(prefix string, n int) []domain.LogEntry {
	entries := make([]domain.LogEntry, n)
	for i := range entries {
		entries[i] = makeEntry(fmt.Sprintf("%s%d", prefix, i))
	}
	return entries
}

func ids(entries []domain.LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestBuffer_PushInsertNewestFirst(t *testing.T) {
	b := NewBuffer(5)

	b.PushInsert(makeEntry("1"))
	b.PushInsert(makeEntry("2"))
	b.PushInsert(makeEntry("3"))

	assert.Equal(t, []string{"3", "2", "1"}, ids(b.Entries()))
	assert.Equal(t, 3, b.Len())
}

func TestBuffer_PushInsertEvictsOldest(t *testing.T) {
	b := NewBuffer(3)

	for i := 1; i <= 5; i++ {
		b.PushInsert(makeEntry(fmt.Sprint(i)))
	}

	assert.Equal(t, []string{"5", "4", "3"}, ids(b.Entries()))
	_, ok := b.Find("1")
	assert.False(t, ok)
}

func TestBuffer_FullWindowScenario(t *testing.T) {
	b := NewBuffer(1000)
	b.BulkReplace(makeEntries("old", 1000))

	b.PushInsert(makeEntry("new"))

	entries := b.Entries()
	assert.Len(t, entries, 1000)
	assert.Equal(t, "new", entries[0].ID)
	assert.Equal(t, "old998", entries[999].ID)
	_, ok := b.Find("old999")
	assert.False(t, ok)
}

func TestBuffer_BulkReplace(t *testing.T) {
	b := NewBuffer(10)
	b.PushInsert(makeEntry("live"))

	b.BulkReplace(makeEntries("snap", 4))

	assert.Equal(t, []string{"snap0", "snap1", "snap2", "snap3"}, ids(b.Entries()))
	_, ok := b.Find("live")
	assert.False(t, ok)
}

func TestBuffer_BulkReplaceTruncates(t *testing.T) {
	b := NewBuffer(3)
	b.BulkReplace(makeEntries("e", 5))

	assert.Equal(t, []string{"e0", "e1", "e2"}, ids(b.Entries()))
}

func TestBuffer_BulkReplaceDoesNotAlias(t *testing.T) {
	b := NewBuffer(3)
	input := makeEntries("e", 2)
	b.BulkReplace(input)

	input[0].ID = "mutated"
	assert.Equal(t, "e0", b.Entries()[0].ID)
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(3)
	b.BulkReplace(makeEntries("e", 3))

	b.Clear()

	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Entries())
	b.PushInsert(makeEntry("after"))
	assert.Equal(t, []string{"after"}, ids(b.Entries()))
}

func TestBuffer_Find(t *testing.T) {
	b := NewBuffer(3)
	b.PushInsert(makeEntry("a"))

	e, ok := b.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "message a", e.Message)

	_, ok = b.Find("missing")
	assert.False(t, ok)
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	assert.Equal(t, 1000, b.Capacity())
}

func TestBuffer_NeverExceedsCapacity(t *testing.T) {
	b := NewBuffer(7)
	for i := 0; i < 50; i++ {
		if i%10 == 0 {
			b.BulkReplace(makeEntries("bulk", i))
		}
		b.PushInsert(makeEntry(fmt.Sprint(i)))
		assert.LessOrEqual(t, b.Len(), 7)
	}
}

func TestBuffer_Concurrent(t *testing.T) {
	b := NewBuffer(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.PushInsert(makeEntry(fmt.Sprintf("%d-%d", n, j)))
			}
		}(i)
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Entries()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 100, b.Len())
}
