package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/brewburn/internal/cli"
	"github.com/theirongolddev/brewburn/internal/config"
	"github.com/theirongolddev/brewburn/internal/daemon"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonSchedule     string
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

const daemonStopTimeout = 8 * time.Second

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background budget daemon with HTTP/SSE endpoints",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	pf.DurationVar(&flagDaemonInterval, "interval", 0, "Ledger polling interval (default from config)")
	pf.StringVar(&flagDaemonSchedule, "forecast-schedule", "", "Cron spec for forecast refreshes, seconds first (default from config)")
	pf.StringVar(&flagDaemonPIDFile, "pid-file", filepath.Join(config.DataDir(), "brewburnd.pid"), "PID file path")
	pf.StringVar(&flagDaemonLogFile, "log-file", filepath.Join(config.DataDir(), "brewburnd.log"), "Log file path for detached mode")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func pidFile() daemon.PIDFile {
	return daemon.PIDFile{Path: flagDaemonPIDFile}
}

// daemonConfig merges the daemon flags over the [daemon] config section.
func daemonConfig(cfg config.Config) daemon.Config {
	dcfg := daemon.Config{
		Addr:             cfg.Daemon.Addr,
		Interval:         time.Duration(cfg.Daemon.IntervalSec) * time.Second,
		EventsBuffer:     flagDaemonEventsBuffer,
		ForecastSchedule: cfg.Daemon.ForecastSchedule,
	}
	if flagDaemonAddr != "" {
		dcfg.Addr = flagDaemonAddr
	}
	if flagDaemonInterval > 0 {
		dcfg.Interval = flagDaemonInterval
	}
	if flagDaemonSchedule != "" {
		dcfg.ForecastSchedule = flagDaemonSchedule
	}
	return dcfg
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("invalid daemon launch mode")
	case flagDaemonDetach:
		return startDaemonDetached()
	default:
		return runDaemonForeground()
	}
}

// startDaemonDetached re-executes this binary with --child, output going to
// the log file.
func startDaemonDetached() error {
	if err := pidFile().EnsureNotRunning(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(withoutDetach(os.Args[1:]), "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", daemonConfig(cfg).Addr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	pf := pidFile()
	if err := pf.EnsureNotRunning(); err != nil {
		return err
	}

	src, cfg, closeStore, err := openService()
	if err != nil {
		return err
	}
	defer closeStore()

	dcfg := daemonConfig(cfg)
	dbPath := cfg.DBPath()
	if flagDBPath != "" {
		dbPath = flagDBPath
	}

	if err := pf.Write(daemon.RuntimeState{
		PID:       os.Getpid(),
		Addr:      dcfg.Addr,
		StartedAt: time.Now(),
		DBPath:    dbPath,
	}); err != nil {
		return err
	}
	defer pf.Remove()

	svc := daemon.New(dcfg, src)

	fmt.Printf("  brewburn daemon listening on http://%s\n", dcfg.Addr)
	fmt.Printf("  Polling %s every %s\n", dbPath, dcfg.Interval)
	if dcfg.ForecastSchedule != "" {
		fmt.Printf("  Forecast refresh: %s\n", dcfg.ForecastSchedule)
	}
	fmt.Printf("  Stop with: brewburn daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	pf := pidFile()
	pid, err := pf.PID()
	if err != nil {
		fmt.Println("  Daemon: not running (pid file not found)")
		return nil
	}
	if !daemon.ProcessAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagDaemonAddr
	if st, err := pf.State(); err == nil && st.Addr != "" {
		addr = st.Addr
	}
	if addr == "" {
		cfg, _ := config.LoadFrom(configPath())
		addr = cfg.Daemon.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	st, err := fetchDaemonStatus(addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s (%d polls)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	fmt.Printf("  Entries: %d\n", st.Summary.Entries)
	for _, p := range []daemon.Period{st.Summary.Monthly, st.Summary.Weekly} {
		fmt.Printf("  %s: %s spent, %s left\n", p.Label, cli.FormatYen(p.Spent), cli.FormatYen(p.Remaining))
	}
	if st.ForecastAt.IsZero() {
		fmt.Println("  Forecast: pending")
	} else {
		fmt.Printf("  Forecast: %s\n", st.ForecastAt.Local().Format(time.RFC3339))
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	if st.ForecastError != "" {
		fmt.Printf("  Forecast error: %s\n", st.ForecastError)
	}
	return nil
}

func fetchDaemonStatus(addr string) (daemon.Status, error) {
	var st daemon.Status
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pf := pidFile()
	pid, err := pf.PID()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(daemonStopTimeout)
	for time.Now().Before(deadline) {
		if !daemon.ProcessAlive(pid) {
			pf.Remove()
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func withoutDetach(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
