package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/charliek/syslogdash/internal/api"
	"github.com/charliek/syslogdash/internal/constants"
)

// Demo command flags
var (
	demoListen   string
	demoRate     float64
	demoSeed     int
	demoHeadless bool
)

// demoCmd runs a built-in collector with synthetic traffic
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a demo collector with synthetic traffic",
	Long: `Run an in-memory collector serving the same API as the real one, fed by
a generator of synthetic syslog entries, and open the dashboard against it.

With --headless the collector keeps running without the dashboard and prints
every generated entry; other syslogdash commands can be pointed at it with --addr.

Examples:
  syslogdash demo
  syslogdash demo --rate 20 --seed 500
  syslogdash demo --headless --listen 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoListen, "listen", constants.DefaultDemoAddress, "Listen address for the demo collector")
	demoCmd.Flags().Float64Var(&demoRate, "rate", 2, "Synthetic entries per second")
	demoCmd.Flags().IntVar(&demoSeed, "seed", 200, "Entries to publish before starting")
	demoCmd.Flags().BoolVar(&demoHeadless, "headless", false, "Run the collector without the dashboard")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, !demoHeadless)
	if err != nil {
		return err
	}
	defer logger.Close()

	store := api.NewStore(api.DefaultStoreConfig(), logger)
	server := api.NewServer(api.ServerConfig{Addr: demoListen}, api.NewHandlers(store, logger), logger)
	if err := server.Listen(); err != nil {
		return fmt.Errorf("failed to start demo collector: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve()
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	gen := api.NewGenerator(store, demoRate)
	gen.Seed(demoSeed)
	go func() {
		if err := gen.Run(ctx); err != nil {
			logger.Error("msg", "Generator stopped", "component", "cli", "error", err)
		}
	}()

	if demoHeadless {
		go printPublished(ctx, store, NewLogPrinter(cmd.OutOrStdout(), false))
		err = waitHeadless(ctx, cmd.ErrOrStderr(), server, serveErr)
	} else {
		err = runTUI(cfg, server.URL(), logger)
	}

	// Graceful shutdown
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer shutdownCancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("msg", "Demo collector shutdown failed", "component", "cli", "error", shutdownErr)
	}
	return err
}

// waitHeadless prints the collector address and blocks until the context is
// cancelled or the server fails
func waitHeadless(ctx context.Context, out io.Writer, server *api.Server, serveErr <-chan error) error {
	fmt.Fprintf(out, "Demo collector listening on %s (Ctrl+C to stop)\n", server.URL())
	fmt.Fprintf(out, "Try: syslogdash --addr %s\n", server.URL())

	select {
	case <-ctx.Done():
		fmt.Fprintln(out, "Shutting down...")
		return nil
	case err := <-serveErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("demo collector: %w", err)
		}
		return nil
	}
}

// printPublished prints every entry the store publishes until ctx is cancelled
// or the store is closed
func printPublished(ctx context.Context, store *api.Store, printer *LogPrinter) {
	id, ch := store.Subscribe()
	defer store.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			_ = printer.PrintEntry(entry)
		}
	}
}
