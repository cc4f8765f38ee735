package export

import (
	"fmt"

	"github.com/charliek/syslogdash/internal/domain"
)

// Field is one labelled value in the detail view
type Field struct {
	Label string
	Value string
}

// DetailFields projects an entry into the labelled fields shown in the detail view.
// Absent optional values render as "-".
func DetailFields(e domain.LogEntry) []Field {
	return []Field{
		{"ID", e.ID},
		{"Timestamp", FormatTimestamp(e.Timestamp)},
		{"Facility", fmt.Sprintf("%s (%d)", e.Facility, e.Facility)},
		{"Severity", fmt.Sprintf("%s (%d)", e.Severity, e.Severity)},
		{"Hostname", orDash(e.Hostname)},
		{"App", orDash(e.AppName)},
		{"Proc ID", orDash(e.ProcID)},
		{"Msg ID", orDash(e.MsgID)},
		{"Source IP", orDash(e.SourceIP)},
		{"Message", e.Message},
		{"Raw", e.RawMessage},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
