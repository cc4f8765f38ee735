// Package export renders read-only projections of log entries: CSV for download
// and the field list shown in the detail view.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
)

// Columns is the fixed CSV header
var Columns = []string{
	"timestamp", "facility", "severity", "hostname", "app_name",
	"proc_id", "msg_id", "source_ip", "message", "raw_message",
}

// FormatCSV serializes entries in the given order. String fields are always quoted
// with embedded quotes doubled; facility and severity are bare numbers. Rows are
// joined by "\n" with no trailing newline.
func FormatCSV(entries []domain.LogEntry) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(Columns, ","))

	for _, e := range entries {
		sb.WriteByte('\n')
		writeRow(&sb, e)
	}
	return sb.String()
}

// WriteCSV writes the CSV rendering of entries to w
func WriteCSV(w io.Writer, entries []domain.LogEntry) error {
	if _, err := io.WriteString(w, FormatCSV(entries)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// FileName returns the download name for an export made at now
func FileName(now time.Time) string {
	return fmt.Sprintf("syslog_export_%s.csv", now.UTC().Format("2006-01-02"))
}

// FormatTimestamp renders a timestamp in the canonical export format
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.ExportTimestampLayout)
}

func writeRow(sb *strings.Builder, e domain.LogEntry) {
	fields := []string{
		quote(FormatTimestamp(e.Timestamp)),
		strconv.Itoa(int(e.Facility)),
		strconv.Itoa(int(e.Severity)),
		quote(e.Hostname),
		quote(e.AppName),
		quote(e.ProcID),
		quote(e.MsgID),
		quote(e.SourceIP),
		quote(e.Message),
		quote(e.RawMessage),
	}
	sb.WriteString(strings.Join(fields, ","))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
