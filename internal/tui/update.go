package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/dashboard"
	"github.com/charliek/syslogdash/internal/refresh"
	"github.com/charliek/syslogdash/internal/stream"
)

// chromeHeight is the number of lines around the table: header, stats,
// filter, pager and help.
const chromeHeight = 5

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)

	case tea.FocusMsg:
		if m.state.Scheduler().Hidden() {
			if timer, ok := m.state.Scheduler().Show(); ok {
				cmds = append(cmds, autoRefreshCmd(timer))
			}
			cmds = append(cmds, m.fetchStats())
		}

	case tea.BlurMsg:
		m.state.Scheduler().Hide()

	case StreamEventMsg:
		m.handleStreamEvent(stream.Event(msg))

	case LogsFetchedMsg:
		m.state.EndRefresh()
		if msg.Err != nil {
			m.state.FailFetch(msg.Err)
		} else {
			m.state.ReplaceLogs(msg.Entries)
		}

	case StatsFetchedMsg:
		if msg.Err != nil {
			m.state.FailStats(msg.Err)
		} else if m.state.ApplyStats(msg.Stats, msg.At) {
			m.logger.Info("msg", "Facility filter reset", "component", "tui", "reason", "facility no longer present")
		}

	case ClearResultMsg:
		if msg.Err != nil {
			m.logger.Error("msg", "Clear logs failed", "component", "tui", "error", msg.Err)
			cmds = append(cmds, m.notify("Failed to clear logs, please retry", dashboard.LevelError))
		} else {
			m.state.ClearAll()
			m.logger.Info("msg", "Logs cleared", "component", "tui")
			cmds = append(cmds, m.notify("All logs cleared", dashboard.LevelSuccess))
		}

	case ExportResultMsg:
		if msg.Err != nil {
			m.logger.Error("msg", "Export failed", "component", "tui", "error", msg.Err)
			cmds = append(cmds, m.notify("Export failed: "+truncateError(msg.Err, maxErrorDisplayLen), dashboard.LevelError))
		} else {
			m.logger.Info("msg", "Exported logs", "component", "tui", "path", msg.Path, "count", msg.Count)
			cmds = append(cmds, m.notify(fmt.Sprintf("Exported %d entries to %s", msg.Count, msg.Path), dashboard.LevelSuccess))
		}

	case CopyResultMsg:
		if msg.Err != nil {
			m.logger.Warn("msg", "Clipboard write failed", "component", "tui", "error", msg.Err)
			cmds = append(cmds, m.notify("Copy failed: "+truncateError(msg.Err, maxErrorDisplayLen), dashboard.LevelError))
		} else {
			cmds = append(cmds, m.notify("Raw message copied", dashboard.LevelSuccess))
		}

	case AutoRefreshTickMsg:
		outcome, next := m.state.Scheduler().Fire(msg.Gen, m.state.Paused())
		switch outcome {
		case refresh.Refresh:
			cmds = append(cmds, autoRefreshCmd(next), m.refresh())
		case refresh.Skipped:
			cmds = append(cmds, autoRefreshCmd(next))
		}

	case StatsTickMsg:
		cmds = append(cmds, m.fetchStats(), statsTickCmd(m.state.StatsInterval()))

	case SearchDebounceMsg:
		if msg.Gen == m.searchGen {
			m.state.SetSearch(msg.Text)
		}

	case NotificationClearMsg:
		m.state.ClearNotification(msg.Gen)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.syncTable()
	return m, tea.Batch(cmds...)
}

// handleWindowSize lays out the table and the detail viewport
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	tableHeight := msg.Height - chromeHeight
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetColumns(tableColumns(msg.Width))
	m.table.SetWidth(msg.Width)
	m.table.SetHeight(tableHeight)

	m.detail.Width = max(msg.Width-4, 20)
	m.detail.Height = max(msg.Height-6, 3)
	if m.mode == ModeDetail {
		m.setDetailContent()
	}

	m.help.Width = msg.Width
	m.ready = true
}

// handleStreamEvent applies a connection event. Only the collector's
// confirmation marks the connection live.
func (m *Model) handleStreamEvent(ev stream.Event) {
	switch ev.Kind {
	case stream.Connected:
		m.state.SetStatus(stream.StatusLive)
	case stream.ConnectionClosed:
		m.state.SetStatus(stream.StatusDown)
	case stream.EntryReceived:
		m.state.PushEntry(ev.Entry)
	}
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Handle mode-specific keys first
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeConfirmClear:
		return m.handleConfirmKey(msg)
	case ModeHelp:
		m.handleHelpKey(msg)
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.search.SetValue(m.state.Filter().Search)
		m.search.CursorEnd()
		cmd = m.search.Focus()

	case key.Matches(msg, m.keys.Facility):
		m.state.CycleFacility()

	case key.Matches(msg, m.keys.Severity):
		m.state.CycleSeverity()

	case key.Matches(msg, m.keys.ClearFilter):
		m.searchGen++
		m.search.SetValue("")
		m.state.ClearFilters()

	case key.Matches(msg, m.keys.PrevPage):
		if m.state.PrevPage() {
			m.table.GotoTop()
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.state.NextPage() {
			m.table.GotoTop()
		}

	case key.Matches(msg, m.keys.Open):
		m.openDetail()

	case key.Matches(msg, m.keys.Pause):
		if m.state.TogglePause() {
			cmd = m.notify("Paused, live entries are dropped", dashboard.LevelInfo)
		} else {
			cmd = m.notify("Resumed", dashboard.LevelInfo)
		}

	case key.Matches(msg, m.keys.Refresh):
		cmd = m.refresh()

	case key.Matches(msg, m.keys.AutoRefresh):
		cmd = m.toggleAutoRefresh()

	case key.Matches(msg, m.keys.Faster):
		cmd = m.setAutoRefreshInterval(stepInterval(m.state.Scheduler().Interval(), -1))

	case key.Matches(msg, m.keys.Slower):
		cmd = m.setAutoRefreshInterval(stepInterval(m.state.Scheduler().Interval(), 1))

	case key.Matches(msg, m.keys.Export):
		cmd = m.exportCSV(m.state.FilteredEntries())

	case key.Matches(msg, m.keys.Clear):
		m.mode = ModeConfirmClear

	default:
		m.table, cmd = m.table.Update(msg)
	}

	m.syncTable()
	return m, cmd
}

// handleSearchKey handles keys in search mode. Typing is debounced; enter
// applies immediately.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.search.Blur()
		m.search.SetValue(m.state.Filter().Search)
		m.searchGen++
		return m, nil

	case tea.KeyEnter:
		m.mode = ModeNormal
		m.search.Blur()
		m.searchGen++
		m.state.SetSearch(m.search.Value())
		m.syncTable()
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != prev {
		m.searchGen++
		return m, tea.Batch(cmd, searchDebounceCmd(m.searchGen, value))
	}
	return m, cmd
}

// handleDetailKey handles keys while the detail view is open
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.mode = ModeNormal
		return m, nil
	case "y":
		return m, m.copyRaw(m.detailEntry.RawMessage)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// handleConfirmKey resolves the clear confirmation. Only an explicit yes
// issues the request; dismissal does nothing.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		return m, m.clearLogs()
	case "n", "N", "esc", "q":
		m.mode = ModeNormal
	}
	return m, nil
}

// handleHelpKey handles keys in help mode
func (m *Model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "?", "q", "enter":
		m.mode = ModeNormal
	}
}

// openDetail shows the entry under the cursor. An entry evicted since the
// page was rendered is ignored.
func (m *Model) openDetail() {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.pageIDs) {
		return
	}
	entry, ok := m.state.Detail(m.pageIDs[cursor])
	if !ok {
		return
	}
	m.detailEntry = entry
	m.mode = ModeDetail
	m.setDetailContent()
	m.detail.GotoTop()
}

// refresh starts a forced resynchronization unless one is in flight
func (m *Model) refresh() tea.Cmd {
	if !m.state.BeginRefresh() {
		return nil
	}
	return tea.Batch(m.fetchLogs(), m.fetchStats())
}

func (m *Model) toggleAutoRefresh() tea.Cmd {
	sched := m.state.Scheduler()
	timer, ok := sched.Toggle()
	switch {
	case ok:
		return tea.Batch(autoRefreshCmd(timer), m.notify("Auto refresh every "+timer.Interval.String(), dashboard.LevelInfo))
	case sched.Interval() == 0:
		return m.notify("Auto refresh interval is off, use + to set one", dashboard.LevelInfo)
	default:
		return m.notify("Auto refresh stopped", dashboard.LevelInfo)
	}
}

func (m *Model) setAutoRefreshInterval(d time.Duration) tea.Cmd {
	timer, ok := m.state.Scheduler().SetInterval(d)
	label := "Auto refresh interval: " + intervalLabel(d)
	if ok {
		return tea.Batch(autoRefreshCmd(timer), m.notify(label, dashboard.LevelInfo))
	}
	return m.notify(label, dashboard.LevelInfo)
}

// notify shows a transient notification and schedules its removal
func (m *Model) notify(text string, level dashboard.Level) tea.Cmd {
	return notificationClearCmd(m.state.Notify(text, level))
}

// stepInterval moves step presets away from current
func stepInterval(current time.Duration, step int) time.Duration {
	presets := constants.AutoRefreshPresets
	idx := 0
	for i, p := range presets {
		if p <= current {
			idx = i
		}
	}
	idx += step
	if idx < 0 {
		idx = 0
	}
	if idx >= len(presets) {
		idx = len(presets) - 1
	}
	return presets[idx]
}
