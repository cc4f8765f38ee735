package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/charliek/syslogdash/internal/api"
	"github.com/charliek/syslogdash/internal/config"
	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
	"github.com/charliek/syslogdash/internal/export"
	"github.com/charliek/syslogdash/internal/stream"
)

// Tail command flags
var (
	tailJSON     bool
	tailSearch   string
	tailFacility string
	tailSeverity string
)

// tailCmd follows the push stream
var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow live log entries",
	Long: `Follow live log entries pushed by the collector.

The connection is re-established 3 seconds after any abnormal close.

Examples:
  syslogdash tail                      # Print every entry
  syslogdash tail --severity err       # Only errors
  syslogdash tail --search nginx --json`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

// Export command flags
var (
	exportLimit    int
	exportSearch   string
	exportFacility string
	exportSeverity string
	exportOutput   string
)

// exportCmd writes entries as CSV
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export log entries as CSV",
	Long: `Export the newest log entries as CSV.

Filters are applied by the collector. The default output file is
syslog_export_YYYY-MM-DD.csv in dashboard.export_dir.

Examples:
  syslogdash export                          # Newest 100 entries
  syslogdash export --limit 1000 -o out.csv
  syslogdash export --facility auth -o -     # Write to stdout`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// Stats command flags
var statsJSON bool

// statsCmd prints the stats snapshot
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collector statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// Clear command flags
var clearYes bool

// clearCmd clears the collector store
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all logs held by the collector",
	Long: `Clear all logs held by the collector. This cannot be undone.

You are asked to confirm unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

// Show command flags
var showJSON bool

// showCmd prints one entry
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single log entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(showCmd)

	// Tail command flags
	tailCmd.Flags().BoolVar(&tailJSON, "json", false, "Print entries as JSON")
	tailCmd.Flags().StringVar(&tailSearch, "search", "", "Only entries containing text (message, host, app or source ip)")
	tailCmd.Flags().StringVar(&tailFacility, "facility", "", "Only entries with this facility (code or name)")
	tailCmd.Flags().StringVar(&tailSeverity, "severity", "", "Only entries with this severity (code or name)")

	// Export command flags
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", constants.DefaultInitialLimit, "Number of entries to export (max 1000)")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Only entries containing text (message, host or app)")
	exportCmd.Flags().StringVar(&exportFacility, "facility", "", "Only entries with this facility (code or name)")
	exportCmd.Flags().StringVar(&exportSeverity, "severity", "", "Only entries with this severity (code or name)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, - for stdout")

	// Stats command flags
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the raw JSON snapshot")

	// Clear command flags
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")

	// Show command flags
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the entry as JSON")
}

// parseFilter builds a filter from command flag values
func parseFilter(search, facility, severity string) (domain.FilterState, error) {
	f := domain.FilterState{Search: search}
	if facility != "" {
		fac, err := domain.ParseFacility(facility)
		if err != nil {
			return f, err
		}
		f.Facility = &fac
	}
	if severity != "" {
		sev, err := domain.ParseSeverity(severity)
		if err != nil {
			return f, err
		}
		f.Severity = &sev
	}
	return f, nil
}

func runTail(cmd *cobra.Command, args []string) error {
	filter, err := parseFilter(tailSearch, tailFacility, tailSeverity)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer logger.Close()

	dialer, err := stream.NewWebSocketDialer(cfg.API.URL, cfg.RequestTimeout())
	if err != nil {
		return err
	}

	printer := NewLogPrinter(cmd.OutOrStdout(), tailJSON)
	errOut := cmd.ErrOrStderr()

	manager := stream.NewManager(dialer, stream.WithLogger(logger))
	manager.Run(cmd.Context(), func(ev stream.Event) {
		switch ev.Kind {
		case stream.Connected:
			fmt.Fprintf(errOut, "Connected to %s\n", cfg.API.URL)
		case stream.ConnectionClosed:
			fmt.Fprintf(errOut, "Connection lost: %v (retrying in %s)\n", ev.Err, constants.ReconnectDelay)
		case stream.EntryReceived:
			if !filter.Matches(ev.Entry) {
				return
			}
			if err := printer.PrintEntry(ev.Entry); err != nil {
				logger.Warn("msg", "Failed to print entry", "component", "cli", "error", err)
			}
		}
	})
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, err := parseFilter(exportSearch, exportFacility, exportSeverity)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client := NewClient(cfg.API.URL, cfg.RequestTimeout())
	entries, err := client.QueryLogs(cmd.Context(), LogQuery{
		Limit:    exportLimit,
		Facility: filter.Facility,
		Severity: filter.Severity,
		Search:   filter.Search,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch logs: %w", err)
	}

	if exportOutput == "-" {
		return export.WriteCSV(cmd.OutOrStdout(), entries)
	}

	path := exportPath(cfg, exportOutput, time.Now())
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(export.FormatCSV(entries)), 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(entries), path)
	return nil
}

// exportPath returns the output file for an export; an empty output means the
// dated default name in the configured export directory
func exportPath(cfg *config.Config, output string, now time.Time) string {
	if output != "" {
		return output
	}
	return filepath.Join(cfg.Dashboard.ExportDir, export.FileName(now))
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client := NewClient(cfg.API.URL, cfg.RequestTimeout())
	stats, err := client.FetchStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		return json.NewEncoder(out).Encode(api.ToStatsResponse(stats))
	}
	return printStats(out, stats)
}

// printStats renders a stats snapshot as aligned tables
func printStats(out io.Writer, stats domain.StatsSnapshot) error {
	fmt.Fprintf(out, "Total:   %d\n", stats.TotalMessages)
	fmt.Fprintf(out, "Errors:  %d\n", stats.ErrorCount())
	fmt.Fprintf(out, "Info:    %d\n", stats.InfoCount())
	fmt.Fprintf(out, "Sources: %d\n", stats.SourceCount())
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FACILITY\tCODE\tCOUNT")
	fmt.Fprintln(w, "--------\t----\t-----")
	for _, f := range stats.Facilities() {
		fmt.Fprintf(w, "%s\t%d\t%d\n", f, f, stats.MessagesPerFacility[f])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SEVERITY\tCODE\tCOUNT")
	fmt.Fprintln(w, "--------\t----\t-----")
	for _, s := range domain.AllSeverities() {
		if n, ok := stats.MessagesPerSeverity[s]; ok {
			fmt.Fprintf(w, "%s\t%d\t%d\n", s, s, n)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(stats.RecentSources) > 0 {
		fmt.Fprintf(out, "\nRecent sources: %s\n", strings.Join(stats.RecentSources, ", "))
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !clearYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("Clear all logs on %s? This cannot be undone. [y/N]: ", cfg.API.URL))
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrClearNotConfirmed
		}
	}

	client := NewClient(cfg.API.URL, cfg.RequestTimeout())
	if err := client.ClearLogs(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "All logs cleared")
	return nil
}

// confirm asks a yes/no question; anything but y or yes is a no
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client := NewClient(cfg.API.URL, cfg.RequestTimeout())
	entry, err := client.FetchLog(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return json.NewEncoder(out).Encode(api.ToLogEntryResponse(entry))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, field := range export.DetailFields(entry) {
		fmt.Fprintf(w, "%s:\t%s\n", field.Label, field.Value)
	}
	return w.Flush()
}
