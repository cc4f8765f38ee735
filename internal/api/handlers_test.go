package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/syslogdash/internal/domain"
)

func setupTestServer(t *testing.T) (*Server, *Store) {
	t.Helper()
	store := NewStore(DefaultStoreConfig(), nil)
	server := NewServer(ServerConfig{Addr: "127.0.0.1:0"}, NewHandlers(store, nil), nil)
	t.Cleanup(store.Close)
	return server, store
}

func serve(server *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func TestGetLogs(t *testing.T) {
	server, store := setupTestServer(t)
	publishN(store, 5)

	w := serve(server, "GET", "/api/logs?limit=2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp []LogEntryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "e4", resp[0].ID)
	assert.Equal(t, "e3", resp[1].ID)
}

func TestGetLogs_Filters(t *testing.T) {
	server, store := setupTestServer(t)
	publishN(store, 12)

	w := serve(server, "GET", "/api/logs?facility=0&offset=1&limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []LogEntryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "e6", resp[0].ID)
	assert.Equal(t, "e3", resp[1].ID)
}

func TestGetLogs_EmptyIsArray(t *testing.T) {
	server, _ := setupTestServer(t)

	w := serve(server, "GET", "/api/logs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetLogs_BadQuery(t *testing.T) {
	server, _ := setupTestServer(t)

	for _, target := range []string{
		"/api/logs?limit=abc",
		"/api/logs?offset=-1",
		"/api/logs?facility=999",
		"/api/logs?severity=x",
	} {
		t.Run(target, func(t *testing.T) {
			w := serve(server, "GET", target)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, domain.ErrCodeBadQuery, resp.Code)
		})
	}
}

func TestGetLog(t *testing.T) {
	server, store := setupTestServer(t)
	publishN(store, 3)

	w := serve(server, "GET", "/api/logs/e1")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp LogEntryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "message 1", resp.Message)
}

func TestGetLog_NotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	w := serve(server, "GET", "/api/logs/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, domain.ErrCodeNotFound, resp.Code)
}

func TestClearLogs(t *testing.T) {
	server, store := setupTestServer(t)
	publishN(store, 3)

	w := serve(server, "DELETE", "/api/logs")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestGetStats(t *testing.T) {
	server, store := setupTestServer(t)
	publishN(store, 4)

	w := serve(server, "GET", "/api/stats")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, uint64(4), resp.TotalMessages)
	assert.Equal(t, uint64(2), resp.MessagesPerFacility["0"])
	assert.Len(t, resp.RecentSources, 4)
}

func TestHealth(t *testing.T) {
	server, _ := setupTestServer(t)

	w := serve(server, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
