package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/syslogdash/internal/api"
	"github.com/charliek/syslogdash/internal/domain"
)

// severityColors are the terminal colors per severity, indexed by code
var severityColors = []lipgloss.Color{"201", "196", "160", "9", "11", "14", "10", "8"}

// LogPrinter handles consistent entry formatting for command output
type LogPrinter struct {
	w        io.Writer
	json     *json.Encoder
	dim      lipgloss.Style
	host     lipgloss.Style
	severity []lipgloss.Style
}

// NewLogPrinter creates a LogPrinter writing to w. Colors are only used when
// w is a terminal.
func NewLogPrinter(w io.Writer, jsonOutput bool) *LogPrinter {
	r := lipgloss.NewRenderer(w)
	lp := &LogPrinter{
		w:    w,
		dim:  r.NewStyle().Foreground(lipgloss.Color("8")),
		host: r.NewStyle().Foreground(lipgloss.Color("12")),
	}
	if jsonOutput {
		lp.json = json.NewEncoder(w)
	}
	for _, c := range severityColors {
		lp.severity = append(lp.severity, r.NewStyle().Foreground(c).Bold(true))
	}
	return lp
}

// PrintEntry prints one entry as a line, or as a JSON object in JSON mode
func (lp *LogPrinter) PrintEntry(entry domain.LogEntry) error {
	if lp.json != nil {
		return lp.json.Encode(api.ToLogEntryResponse(entry))
	}

	sev := fmt.Sprintf("%-6s", entry.Severity)
	if int(entry.Severity) < len(lp.severity) {
		sev = lp.severity[entry.Severity].Render(sev)
	}

	_, err := fmt.Fprintf(lp.w, "%s %s %s %s: %s\n",
		lp.dim.Render(entry.Timestamp.Local().Format("2006-01-02 15:04:05")),
		sev,
		lp.host.Render(orDash(entry.Hostname)),
		appTag(entry),
		entry.Message)
	return err
}

// appTag renders app[pid] the way syslog lines do
func appTag(e domain.LogEntry) string {
	app := orDash(e.AppName)
	if e.ProcID != "" {
		return app + "[" + e.ProcID + "]"
	}
	return app
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
