package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/syslogdash/internal/api"
	"github.com/charliek/syslogdash/internal/config"
	"github.com/charliek/syslogdash/internal/domain"
)

// resetFlags restores every flag to its default. Flag values are package
// variables, so they outlive a single Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// testConfig writes a config that keeps diagnostic logs out of the user's
// cache directory
func testConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syslogdash.yaml")
	content := "logging:\n  output: none\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type commandResult struct {
	stdout string
	stderr string
	err    error
}

func runCommand(t *testing.T, stdin string, args ...string) commandResult {
	t.Helper()
	t.Setenv("SYSLOGDASH_ADDR", "")
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// runAgainst runs a command against the collector with a throwaway config
func runAgainst(t *testing.T, client *Client, stdin string, args ...string) commandResult {
	t.Helper()
	full := append([]string{"--config", testConfig(t, ""), "--addr", client.BaseURL()}, args...)
	return runCommand(t, stdin, full...)
}

func TestVersionCommand(t *testing.T) {
	res := runCommand(t, "", "version")
	require.NoError(t, res.err)
	assert.Equal(t, "syslogdash version dev\n", res.stdout)
}

func TestUnknownArgsRejected(t *testing.T) {
	res := runCommand(t, "", "stats", "extra")
	assert.Error(t, res.err)
}

func TestLoadConfig_AddrFlagWins(t *testing.T) {
	client, store := newCollector(t)
	store.Publish(domain.LogEntry{Message: "x"})

	path := testConfig(t, "api:\n  url: http://127.0.0.1:1\n")
	res := runCommand(t, "", "--config", path, "--addr", client.BaseURL(), "stats", "--json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"total_messages":1`)
}

func TestLoadConfig_EnvAddress(t *testing.T) {
	client, _ := newCollector(t)
	path := testConfig(t, "api:\n  url: http://127.0.0.1:1\n")

	resetFlags(rootCmd)
	t.Setenv("SYSLOGDASH_ADDR", client.BaseURL())
	require.NoError(t, rootCmd.PersistentFlags().Set("config", path))
	t.Cleanup(func() { resetFlags(rootCmd) })

	cfg, err := loadConfig(statsCmd)
	require.NoError(t, err)
	assert.Equal(t, client.BaseURL(), cfg.API.URL)
}

func TestLoadConfig_InvalidAddr(t *testing.T) {
	res := runCommand(t, "", "--config", testConfig(t, ""), "--addr", "ftp://example.com", "stats")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid --addr")
}

func TestLoadConfig_MissingExplicitConfig(t *testing.T) {
	res := runCommand(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "stats")
	assert.ErrorIs(t, res.err, domain.ErrConfigNotFound)
}

func TestLoadConfig_VerboseRaisesLevel(t *testing.T) {
	resetFlags(rootCmd)
	t.Setenv("SYSLOGDASH_ADDR", "")
	require.NoError(t, rootCmd.PersistentFlags().Set("config", testConfig(t, "")))
	require.NoError(t, rootCmd.PersistentFlags().Set("verbose", "true"))
	t.Cleanup(func() { resetFlags(rootCmd) })

	cfg, err := loadConfig(statsCmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestExportCommand_File(t *testing.T) {
	client, store := newCollector(t)
	store.Publish(domain.LogEntry{Facility: 4, Severity: 3, Message: "auth failure"})
	store.Publish(domain.LogEntry{Facility: 1, Severity: 6, Message: "all good"})

	out := filepath.Join(t.TempDir(), "nested", "out.csv")
	res := runAgainst(t, client, "", "export", "--facility", "auth", "-o", out)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Exported 1 entries to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,facility,severity"))
	assert.Contains(t, lines[1], `"auth failure"`)
}

func TestExportCommand_Stdout(t *testing.T) {
	client, store := newCollector(t)
	for i := 0; i < 5; i++ {
		store.Publish(domain.LogEntry{Message: "m"})
	}

	res := runAgainst(t, client, "", "export", "-n", "3", "-o", "-")
	require.NoError(t, res.err)
	assert.Len(t, strings.Split(strings.TrimRight(res.stdout, "\n"), "\n"), 4)
	assert.Empty(t, res.stderr)
}

func TestExportCommand_InvalidFilter(t *testing.T) {
	client, _ := newCollector(t)
	res := runAgainst(t, client, "", "export", "--severity", "loud")
	assert.ErrorIs(t, res.err, domain.ErrInvalidFilter)
}

func TestExportPath(t *testing.T) {
	cfg := config.Default()
	cfg.Dashboard.ExportDir = "/tmp/exports"
	now := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "/tmp/exports/syslog_export_2024-03-05.csv", exportPath(cfg, "", now))
	assert.Equal(t, "mine.csv", exportPath(cfg, "mine.csv", now))
}

func TestStatsCommand_Text(t *testing.T) {
	client, store := newCollector(t)
	store.Publish(domain.LogEntry{Facility: 16, Severity: 3, SourceIP: "10.0.0.1"})
	store.Publish(domain.LogEntry{Facility: 16, Severity: 6, SourceIP: "10.0.0.2"})

	res := runAgainst(t, client, "", "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Total:   2")
	assert.Contains(t, res.stdout, "Errors:  1")
	assert.Contains(t, res.stdout, "Sources: 2")
	assert.Contains(t, res.stdout, "local0")
	assert.Contains(t, res.stdout, "ERR")
	assert.Contains(t, res.stdout, "Recent sources:")
}

func TestStatsCommand_JSON(t *testing.T) {
	client, store := newCollector(t)
	store.Publish(domain.LogEntry{Facility: 16, Severity: 3})

	res := runAgainst(t, client, "", "stats", "--json")
	require.NoError(t, res.err)

	var resp api.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, uint64(1), resp.TotalMessages)
	assert.Equal(t, uint64(1), resp.MessagesPerFacility["16"])
}

func TestStatsCommand_CollectorDown(t *testing.T) {
	res := runCommand(t, "", "--config", testConfig(t, "api:\n  timeout: 200ms\n"), "--addr", "http://127.0.0.1:1", "stats")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to fetch stats")
}

func TestClearCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr error
		cleared bool
	}{
		{name: "yes flag", args: []string{"clear", "--yes"}, cleared: true},
		{name: "confirmed", args: []string{"clear"}, stdin: "y\n", cleared: true},
		{name: "confirmed long", args: []string{"clear"}, stdin: "YES\n", cleared: true},
		{name: "declined", args: []string{"clear"}, stdin: "n\n", wantErr: domain.ErrClearNotConfirmed},
		{name: "no input", args: []string{"clear"}, wantErr: domain.ErrClearNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store := newCollector(t)
			store.Publish(domain.LogEntry{Message: "x"})

			res := runAgainst(t, client, tt.stdin, tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.err, tt.wantErr)
			} else {
				require.NoError(t, res.err)
				assert.Equal(t, "All logs cleared\n", res.stdout)
			}
			if tt.cleared {
				assert.Equal(t, 0, store.Len())
			} else {
				assert.Equal(t, 1, store.Len())
			}
		})
	}
}

func TestShowCommand(t *testing.T) {
	client, store := newCollector(t)
	store.Publish(domain.LogEntry{ID: "abc", Facility: 4, Severity: 3, Hostname: "web1", Message: "hello"})

	res := runAgainst(t, client, "", "show", "abc")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "ID:")
	assert.Contains(t, res.stdout, "abc")
	assert.Contains(t, res.stdout, "auth (4)")
	assert.Contains(t, res.stdout, "App:")
	assert.Contains(t, res.stdout, "hello")
}

func TestShowCommand_JSON(t *testing.T) {
	client, store := newCollector(t)
	store.Publish(domain.LogEntry{ID: "abc", Message: "hello"})

	res := runAgainst(t, client, "", "show", "abc", "--json")
	require.NoError(t, res.err)

	var resp api.LogEntryResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "abc", resp.ID)
	assert.Nil(t, resp.Hostname)
}

func TestShowCommand_NotFound(t *testing.T) {
	client, _ := newCollector(t)
	res := runAgainst(t, client, "", "show", "nope")
	assert.ErrorIs(t, res.err, domain.ErrEntryNotFound)
}

func TestParseFilter(t *testing.T) {
	f, err := parseFilter("disk", "local0", "3")
	require.NoError(t, err)
	assert.Equal(t, "disk", f.Search)
	require.NotNil(t, f.Facility)
	assert.Equal(t, domain.Facility(16), *f.Facility)
	require.NotNil(t, f.Severity)
	assert.Equal(t, domain.Severity(3), *f.Severity)

	f, err = parseFilter("", "", "")
	require.NoError(t, err)
	assert.Nil(t, f.Facility)
	assert.Nil(t, f.Severity)

	_, err = parseFilter("", "nope", "")
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{" Yes \n", true},
		{"yes", true},
		{"n\n", false},
		{"yep\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Sure? ")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Sure? ", out.String())
	}
}
