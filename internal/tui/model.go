package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/dashboard"
	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/logging"
	"github.com/charliek/syslogdash/internal/refresh"
	"github.com/charliek/syslogdash/internal/stream"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeDetail
	ModeConfirmClear
	ModeHelp
)

// StreamEventMsg carries one event from the connection manager
type StreamEventMsg stream.Event

// LogsFetchedMsg is sent when a snapshot fetch completes
type LogsFetchedMsg struct {
	Entries []domain.LogEntry
	Err     error
}

// StatsFetchedMsg is sent when a stats fetch completes
type StatsFetchedMsg struct {
	Stats domain.StatsSnapshot
	At    time.Time
	Err   error
}

// ClearResultMsg is sent when the clear request completes
type ClearResultMsg struct {
	Err error
}

// ExportResultMsg is sent when a CSV export has been written
type ExportResultMsg struct {
	Path  string
	Count int
	Err   error
}

// CopyResultMsg is sent after copying a raw message to the clipboard
type CopyResultMsg struct {
	Err error
}

// AutoRefreshTickMsg fires for one armed auto-refresh timer
type AutoRefreshTickMsg struct {
	Gen uint64
}

// StatsTickMsg is sent on every stats poll period
type StatsTickMsg time.Time

// SearchDebounceMsg applies typed search text once input settles
type SearchDebounceMsg struct {
	Gen  uint64
	Text string
}

// NotificationClearMsg removes a notification after it has been shown
type NotificationClearMsg struct {
	Gen uint64
}

// Options configure the dashboard model
type Options struct {
	// Target is the collector address shown in the header
	Target         string
	InitialLimit   int
	AutoRefresh    time.Duration
	RequestTimeout time.Duration
	ExportDir      string
	Logger         logging.Logger

	// Clipboard and Now are replaced in tests
	Clipboard func(string) error
	Now       func() time.Time
}

// Model is the bubbletea model for the dashboard
type Model struct {
	// Dependencies
	client Client
	state  *dashboard.State
	opts   Options
	logger logging.Logger

	// UI components
	table   table.Model
	search  textinput.Model
	detail  viewport.Model
	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	// Mode
	mode        Mode
	detailEntry domain.LogEntry
	pageIDs     []string
	searchGen   uint64

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewModel creates the dashboard model. The initial snapshot fetch is marked
// in flight so the spinner shows until it lands.
func NewModel(client Client, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.InitialLimit <= 0 {
		opts.InitialLimit = constants.DefaultInitialLimit
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = constants.DefaultRequestTimeout
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	state := dashboard.New(dashboard.Options{
		Capacity:    constants.MaxRetainedEntries,
		PageSize:    constants.PageSize,
		AutoRefresh: opts.AutoRefresh,
		Logger:      opts.Logger,
	})
	state.BeginRefresh()

	keys := DefaultKeyMap()

	ti := textinput.New()
	ti.Placeholder = "message, host, app or source ip"
	ti.Prompt = "/"
	ti.CharLimit = 200
	ti.Width = 40

	tbl := table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
		table.WithHeight(constants.PageSize),
		table.WithKeyMap(tableKeyMap(keys)),
	)
	tbl.SetStyles(tableStyles())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		client:  client,
		state:   state,
		opts:    opts,
		logger:  opts.Logger,
		table:   tbl,
		search:  ti,
		detail:  viewport.New(80, 20),
		spinner: sp,
		help:    help.New(),
		keys:    keys,
		mode:    ModeNormal,
	}
}

// State returns the application state
func (m Model) State() *dashboard.State {
	return m.state
}

// Init starts the initial load, the stats poll and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchLogs(),
		m.fetchStats(),
		statsTickCmd(m.state.StatsInterval()),
		m.spinner.Tick,
	)
}

// autoRefreshCmd schedules the one-shot tick for an armed timer
func autoRefreshCmd(timer refresh.Timer) tea.Cmd {
	return tea.Tick(timer.Interval, func(time.Time) tea.Msg {
		return AutoRefreshTickMsg{Gen: timer.Gen}
	})
}

// statsTickCmd returns a command that ticks once per stats period
func statsTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return StatsTickMsg(t)
	})
}

func searchDebounceCmd(gen uint64, text string) tea.Cmd {
	return tea.Tick(constants.SearchDebounce, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Gen: gen, Text: text}
	})
}

func notificationClearCmd(gen uint64) tea.Cmd {
	return tea.Tick(constants.NotificationDuration, func(time.Time) tea.Msg {
		return NotificationClearMsg{Gen: gen}
	})
}
