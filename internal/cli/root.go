package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/charliek/syslogdash/internal/config"
	"github.com/charliek/syslogdash/internal/logging"
	"github.com/charliek/syslogdash/internal/stream"
	"github.com/charliek/syslogdash/internal/tui"
)

// Version is set during build
var Version = "dev"

// Global flags
var (
	configPath string
	apiAddr    string
	verbose    bool
)

// rootCmd represents the base command; without a subcommand it opens the dashboard
var rootCmd = &cobra.Command{
	Use:   "syslogdash",
	Short: "A terminal dashboard for a syslog collector",
	Long: `syslogdash is a terminal dashboard for a syslog collector. It supports:
  - Live entries pushed over a WebSocket, with automatic reconnect
  - Search, facility and severity filters over the newest 1000 entries
  - Paging, entry details and copying raw messages
  - Manual and automatic refresh, pause, CSV export and clearing logs

The collector address comes from --addr, then SYSLOGDASH_ADDR, then api.url
in syslogdash.yaml.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runDashboard,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "syslogdash version %s\n", Version)
	},
}

func init() {
	// Persistent flags available to all subcommands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: syslogdash.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().StringVar(&apiAddr, "addr", "", "Collector address, overrides config and SYSLOGDASH_ADDR")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Set version template
	rootCmd.SetVersionTemplate("syslogdash version {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Close()

	return runTUI(cfg, cfg.API.URL, logger)
}

// loadConfig resolves configuration for a command. Precedence, lowest first:
// config file, env_file, process environment, --addr.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("addr") {
		if err := config.ValidateAPIURL(apiAddr); err != nil {
			return nil, fmt.Errorf("invalid --addr: %w", err)
		}
		cfg.API.URL = apiAddr
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger creates the diagnostic logger. The dashboard owns the terminal, so
// interactive commands never log to stderr; plain commands do when verbose.
func newLogger(cfg *config.Config, interactive bool) (*logging.Handle, error) {
	output := cfg.Logging.Output
	if !interactive && verbose {
		output = logging.OutputStderr
	}
	if interactive && output == logging.OutputStderr {
		output = logging.OutputFile
	}

	logger, err := logging.New(logging.Options{
		Output:    output,
		Directory: cfg.Logging.Dir,
		Name:      cfg.Logging.Name,
		Level:     cfg.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, nil
}

// runTUI opens the dashboard against the collector at target
func runTUI(cfg *config.Config, target string, logger logging.Logger) error {
	client := NewClient(target, cfg.RequestTimeout())

	dialer, err := stream.NewWebSocketDialer(target, cfg.RequestTimeout())
	if err != nil {
		return err
	}
	manager := stream.NewManager(dialer, stream.WithLogger(logger))

	logger.Info("msg", "Dashboard starting", "component", "cli", "target", target)
	return tui.Run(client, manager, tui.Options{
		Target:         target,
		InitialLimit:   cfg.Dashboard.InitialLimit,
		AutoRefresh:    cfg.AutoRefreshInterval(),
		RequestTimeout: cfg.RequestTimeout(),
		ExportDir:      cfg.Dashboard.ExportDir,
		Logger:         logger,
	})
}
