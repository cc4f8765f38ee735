package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/syslogdash/internal/domain"
)

func TestWebSocketConn_ReadTextAndClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0x01})
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connected"}`))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"), time.Now().Add(time.Second))
	}))
	defer ts.Close()

	dialer, err := NewWebSocketDialer(ts.URL, time.Second)
	require.NoError(t, err)
	// httptest serves the handler on every path
	conn, err := dialer.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	data, err := conn.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"connected"}`, string(data))

	_, err = conn.Read()
	assert.ErrorIs(t, err, domain.ErrStreamClosed)
}
