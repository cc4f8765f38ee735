package stream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/charliek/syslogdash/internal/domain"
)

// Conn is one open stream connection
type Conn interface {
	// Read blocks for the next text frame
	Read() ([]byte, error)
	// CloseNormal sends a normal-closure frame and closes the connection
	CloseNormal() error
	// Close closes the connection without a closing handshake
	Close() error
}

// Dialer opens stream connections
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// WebSocketDialer dials the collector's WebSocket endpoint
type WebSocketDialer struct {
	URL    string
	dialer *websocket.Dialer
}

// NewWebSocketDialer creates a dialer for the stream endpoint of apiBase
func NewWebSocketDialer(apiBase string, handshakeTimeout time.Duration) (*WebSocketDialer, error) {
	wsURL, err := StreamURL(apiBase)
	if err != nil {
		return nil, err
	}
	d := *websocket.DefaultDialer
	if handshakeTimeout > 0 {
		d.HandshakeTimeout = handshakeTimeout
	}
	return &WebSocketDialer{URL: wsURL, dialer: &d}, nil
}

// Dial opens a new connection
func (d *WebSocketDialer) Dial(ctx context.Context) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, d.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", d.URL, err)
	}
	return &wsConn{conn: conn}, nil
}

// StreamURL derives the WebSocket URL from the API base URL:
// http becomes ws, https becomes wss and the path is /api/ws.
func StreamURL(apiBase string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(apiBase, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing api url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported api url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("api url %q has no host", apiBase)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/ws"
	u.RawQuery = ""
	return u.String(), nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Read() ([]byte, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return nil, fmt.Errorf("%w: %v", domain.ErrStreamClosed, ce)
			}
			return nil, err
		}
		if kind == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *wsConn) CloseNormal() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	cerr := c.conn.Close()
	return errors.Join(werr, cerr)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
