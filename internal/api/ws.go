package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamLogs handles GET /api/ws. It sends a connected control message, then
// every entry published after the subscription was made.
func (h *Handlers) StreamLogs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("msg", "WebSocket upgrade failed", "component", "api", "error", err)
		return
	}
	defer conn.Close()

	subID, ch := h.store.Subscribe()
	defer h.store.Unsubscribe(subID)

	// Read pump: the client never sends data, but reading is how a close is noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hello, err := EncodeControl(ControlConnected)
	if err != nil {
		return
	}
	if err := h.write(conn, hello); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case entry, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(writeWait))
				return
			}
			data, err := EncodeEntry(entry)
			if err != nil {
				continue
			}
			if err := h.write(conn, data); err != nil {
				h.logger.Debug("msg", "WebSocket write failed", "component", "api",
					"subscription", subID, "error", err)
				return
			}
		}
	}
}

func (h *Handlers) write(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
