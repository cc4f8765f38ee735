package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/export"
	"github.com/charliek/syslogdash/internal/stream"
)

// maxErrorDisplayLen is the maximum length of error messages in notifications
const maxErrorDisplayLen = 60

// Fixed column widths; the message column takes the rest
const (
	timeColWidth     = 19
	severityColWidth = 7
	facilityColWidth = 8
	hostColWidth     = 16
	appColWidth      = 12
	minMessageWidth  = 10
	cellPadding      = 2
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Connecting to " + m.opts.Target + "..."
	}

	switch m.mode {
	case ModeHelp:
		return m.helpView()
	case ModeDetail:
		return m.detailView()
	default:
		return m.mainView()
	}
}

// mainView renders the main layout
func (m Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteString("\n")
	sb.WriteString(m.statsView())
	sb.WriteString("\n")
	sb.WriteString(m.filterView())
	sb.WriteString("\n")

	if m.mode == ModeConfirmClear {
		sb.WriteString(lipgloss.Place(m.width, m.table.Height()+2, lipgloss.Center, lipgloss.Center, m.confirmView()))
	} else {
		sb.WriteString(m.table.View())
	}
	sb.WriteString("\n")

	sb.WriteString(m.pagerView())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

// headerView renders the title, connection status and refresh state
func (m Model) headerView() string {
	parts := []string{titleStyle.Render("syslogdash")}
	if m.opts.Target != "" {
		parts = append(parts, dimStyle.Render(m.opts.Target))
	}

	if m.state.Status() == stream.StatusLive {
		parts = append(parts, liveStyle.Render("● LIVE"))
	} else {
		parts = append(parts, downStyle.Render("○ DOWN"))
	}

	if m.state.Paused() {
		paused := "PAUSED"
		if n := m.state.Dropped(); n > 0 {
			paused = fmt.Sprintf("PAUSED (%d dropped)", n)
		}
		parts = append(parts, pausedStyle.Render(paused))
	}

	sched := m.state.Scheduler()
	auto := "auto refresh: off"
	if sched.Enabled() {
		auto = "auto refresh: " + intervalLabel(sched.Interval())
	}
	parts = append(parts, dimStyle.Render(auto))

	if m.state.Refreshing() {
		parts = append(parts, m.spinner.View()+" refreshing")
	}

	return headerStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

// statsView renders the counters from the latest stats snapshot
func (m Model) statsView() string {
	s := m.state.Stats()
	errors := fmt.Sprintf("Errors %d", s.ErrorCount())
	if s.ErrorCount() > 0 {
		errors = severityStyle(domain.SeverityError).Render(errors)
	}
	line := fmt.Sprintf(" Total %d  %s  Info %d  Sources %d",
		s.TotalMessages, errors, s.InfoCount(), s.SourceCount())

	if updated := m.state.StatsUpdated(); !updated.IsZero() {
		line += dimStyle.Render("  updated " + updated.Format("15:04:05"))
	}
	if m.state.StatsError() != nil {
		line += "  " + downStyle.Render("stale")
	}
	return line
}

// filterView renders the active filters or the search input
func (m Model) filterView() string {
	if m.mode == ModeSearch {
		return " " + m.search.View()
	}

	f := m.state.Filter()
	search := dimStyle.Render("none")
	if f.Search != "" {
		search = fmt.Sprintf("%q", f.Search)
	}
	return fmt.Sprintf(" Search: %s  Facility: %s  Severity: %s",
		search, m.facilityLabel(f.Facility), severityLabel(f.Severity))
}

// pagerView renders the page position and the current notification
func (m Model) pagerView() string {
	page := m.state.Page()

	var left string
	if page.TotalPages == 0 {
		left = "No matching entries"
	} else {
		left = fmt.Sprintf("Page %d/%d", page.Page, page.TotalPages)
	}
	left += fmt.Sprintf("  %d matching  %d/%d buffered", page.FilteredCount, m.state.BufferLen(), m.state.BufferCapacity())

	right := ""
	if n, ok := m.state.Notification(); ok {
		right = notificationStyle(n.Level).Render(n.Text)
	}

	leftWidth := m.width - lipgloss.Width(right) - 4
	if leftWidth < 0 {
		leftWidth = 0
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, statusStyle.Width(leftWidth).Render(left), "  ", right)
}

// confirmView renders the clear confirmation dialog
func (m Model) confirmView() string {
	body := fmt.Sprintf("%s\n\nThis removes every log held by the collector\nand cannot be undone.\n\n%s",
		titleStyle.Render("Clear all logs?"),
		dimStyle.Render("y confirm · n cancel"))
	return confirmStyle.Render(body)
}

// detailView renders the detail modal
func (m Model) detailView() string {
	footer := dimStyle.Render("y copy raw · ↑/↓ scroll · esc close")
	if n, ok := m.state.Notification(); ok {
		footer += "  " + notificationStyle(n.Level).Render(n.Text)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Log detail"),
		m.detail.View(),
		footer,
	)
	return modalStyle.Render(body)
}

// setDetailContent renders the selected entry into the detail viewport
func (m *Model) setDetailContent() {
	valueWidth := m.detail.Width - lipgloss.Width(labelStyle.Render("")) - 1
	if valueWidth < 10 {
		valueWidth = 10
	}
	wrap := lipgloss.NewStyle().Width(valueWidth)

	var lines []string
	for _, field := range export.DetailFields(m.detailEntry) {
		value := wrap.Render(field.Value)
		if field.Label == "Severity" {
			value = severityStyle(m.detailEntry.Severity).Render(field.Value)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(field.Label), " ", value))
	}
	m.detail.SetContent(strings.Join(lines, "\n"))
}

// helpView renders the help overlay
func (m Model) helpView() string {
	title := titleStyle.Render("syslogdash - Syslog Dashboard")
	target := ""
	if m.opts.Target != "" {
		target = dimStyle.Render("Collector: "+m.opts.Target) + "\n"
	}
	notes := dimStyle.Render("Live entries arriving while paused are dropped, not replayed.\n" +
		"Press any of esc, ?, q or enter to close help...")

	return helpStyle.Render(fmt.Sprintf("%s\n%s\n%s\n\n%s",
		title, target, m.help.FullHelpView(m.keys.FullHelp()), notes))
}

// syncTable loads the current page into the table
func (m *Model) syncTable() {
	page := m.state.Page()
	msgWidth := messageWidth(m.width)

	rows := make([]table.Row, len(page.Entries))
	ids := make([]string, len(page.Entries))
	for i, e := range page.Entries {
		rows[i] = formatRow(e, msgWidth)
		ids[i] = e.ID
	}
	m.table.SetRows(rows)
	m.pageIDs = ids

	if c := m.table.Cursor(); len(rows) > 0 && c >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

// tableColumns returns the log table columns for a terminal width
func tableColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Time", Width: timeColWidth},
		{Title: "Severity", Width: severityColWidth},
		{Title: "Facility", Width: facilityColWidth},
		{Title: "Host", Width: hostColWidth},
		{Title: "App", Width: appColWidth},
		{Title: "Message", Width: messageWidth(width)},
	}
}

func messageWidth(width int) int {
	fixed := timeColWidth + severityColWidth + facilityColWidth + hostColWidth + appColWidth
	w := width - fixed - 6*cellPadding
	if w < minMessageWidth {
		return minMessageWidth
	}
	return w
}

// formatRow formats one entry as a table row
func formatRow(e domain.LogEntry, msgWidth int) table.Row {
	msg := strings.Join(strings.Fields(e.Message), " ")
	if len([]rune(msg)) > msgWidth {
		msg = string([]rune(msg)[:msgWidth-1]) + "…"
	}
	return table.Row{
		e.Timestamp.Local().Format("2006-01-02 15:04:05"),
		e.Severity.String(),
		e.Facility.String(),
		orDash(e.Hostname),
		orDash(e.AppName),
		msg,
	}
}

// facilityLabel returns the option label for a selected facility
func (m Model) facilityLabel(f *domain.Facility) string {
	for _, opt := range m.state.FacilityOptions() {
		if opt.Facility == nil && f == nil {
			return opt.Label
		}
		if opt.Facility != nil && f != nil && *opt.Facility == *f {
			return opt.Label
		}
	}
	if f == nil {
		return "All facilities"
	}
	return f.String()
}

// severityLabel returns the label for a selected severity
func severityLabel(s *domain.Severity) string {
	if s == nil {
		return "All severities"
	}
	return severityStyle(*s).Render(s.String())
}

// intervalLabel formats an auto-refresh interval
func intervalLabel(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateError truncates an error message to maxLen characters
func truncateError(err error, maxLen int) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > maxLen {
		return msg[:maxLen-3] + "..."
	}
	return msg
}
