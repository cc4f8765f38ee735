package api

import (
	"encoding/json"
	"fmt"

	"github.com/charliek/syslogdash/internal/domain"
)

// StreamMessage is one decoded stream frame: either a control message or an entry
type StreamMessage struct {
	Control string
	Entry   *domain.LogEntry
}

// IsControl reports whether the frame is a control message
func (m StreamMessage) IsControl() bool {
	return m.Control != ""
}

// DecodeStreamMessage demultiplexes a stream frame. Frames carrying a "type"
// field are control messages; everything else must be a log entry.
func DecodeStreamMessage(data []byte) (StreamMessage, error) {
	var ctrl ControlMessage
	if err := json.Unmarshal(data, &ctrl); err != nil {
		return StreamMessage{}, fmt.Errorf("decoding stream message: %w", err)
	}
	if ctrl.Type != "" {
		return StreamMessage{Control: ctrl.Type}, nil
	}

	var resp LogEntryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return StreamMessage{}, fmt.Errorf("decoding log entry: %w", err)
	}
	if resp.ID == "" {
		return StreamMessage{}, fmt.Errorf("decoding log entry: missing id")
	}
	entry, err := resp.ToDomain()
	if err != nil {
		return StreamMessage{}, err
	}
	return StreamMessage{Entry: &entry}, nil
}

// EncodeEntry renders an entry as a stream frame
func EncodeEntry(entry domain.LogEntry) ([]byte, error) {
	return json.Marshal(ToLogEntryResponse(entry))
}

// EncodeControl renders a control frame
func EncodeControl(kind string) ([]byte, error) {
	return json.Marshal(ControlMessage{Type: kind})
}
