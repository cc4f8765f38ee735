package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/export"
)

// Client is the collector API surface the dashboard pulls from.
// Live entries arrive separately through the stream.
type Client interface {
	FetchLogs(ctx context.Context, limit int) ([]domain.LogEntry, error)
	FetchStats(ctx context.Context) (domain.StatsSnapshot, error)
	ClearLogs(ctx context.Context) error
}

// fetchLogs returns a command that fetches the newest snapshot
func (m Model) fetchLogs() tea.Cmd {
	client, limit, timeout := m.client, m.opts.InitialLimit, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := client.FetchLogs(ctx, limit)
		return LogsFetchedMsg{Entries: entries, Err: err}
	}
}

// fetchStats returns a command that fetches the stats snapshot
func (m Model) fetchStats() tea.Cmd {
	client, timeout, now := m.client, m.opts.RequestTimeout, m.opts.Now
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stats, err := client.FetchStats(ctx)
		return StatsFetchedMsg{Stats: stats, At: now(), Err: err}
	}
}

// clearLogs returns a command that clears the collector store
func (m Model) clearLogs() tea.Cmd {
	client, timeout := m.client, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ClearResultMsg{Err: client.ClearLogs(ctx)}
	}
}

// exportCSV writes the filtered entries to a dated file in the export directory
func (m Model) exportCSV(entries []domain.LogEntry) tea.Cmd {
	dir, now := m.opts.ExportDir, m.opts.Now
	return func() tea.Msg {
		if dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return ExportResultMsg{Err: fmt.Errorf("creating export directory: %w", err)}
			}
		}
		path := filepath.Join(dir, export.FileName(now()))
		if err := os.WriteFile(path, []byte(export.FormatCSV(entries)), 0644); err != nil {
			return ExportResultMsg{Err: fmt.Errorf("writing export: %w", err)}
		}
		return ExportResultMsg{Path: path, Count: len(entries)}
	}
}

// copyRaw copies a raw message to the system clipboard
func (m Model) copyRaw(raw string) tea.Cmd {
	write := m.opts.Clipboard
	return func() tea.Msg {
		return CopyResultMsg{Err: write(raw)}
	}
}
