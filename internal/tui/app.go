package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/syslogdash/internal/stream"
)

// Streamer delivers connection events until its context is cancelled.
// stream.Manager is the production implementation.
type Streamer interface {
	Run(ctx context.Context, emit func(stream.Event))
}

// Run starts the dashboard. Pull requests go through client; live entries
// come from streamer, forwarded into the program from their own goroutine.
func Run(client Client, streamer Streamer, opts Options) error {
	model := NewModel(client, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		forwardStream(ctx, p, streamer)
	}()

	_, err := p.Run()

	// Cleanup: closing the stream intentionally suppresses the reconnect path
	cancel()
	<-done
	model.State().Close()

	return err
}

// forwardStream sends every stream event to the TUI program.
// It exits when the context is cancelled.
func forwardStream(ctx context.Context, p *tea.Program, streamer Streamer) {
	streamer.Run(ctx, func(ev stream.Event) {
		p.Send(StreamEventMsg(ev))
	})
}
