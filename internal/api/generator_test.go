package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Seed(t *testing.T) {
	store := NewStore(DefaultStoreConfig(), nil)
	NewGenerator(store, 10).Seed(20)

	entries := store.Query(LogQuery{Limit: 100})
	require.Len(t, entries, 20)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.True(t, e.Facility.Valid())
		assert.True(t, e.Severity.Valid())
		assert.Contains(t, e.RawMessage, e.Message)
	}
}

func TestGenerator_RunStopsOnCancel(t *testing.T) {
	store := NewStore(DefaultStoreConfig(), nil)
	gen := NewGenerator(store, 200)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gen.Run(ctx) }()

	assert.Eventually(t, func() bool { return store.Len() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("generator did not stop")
	}
}
