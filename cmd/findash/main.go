package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/backend"
	"findash/internal/config"
	"findash/internal/store"
	"findash/internal/ui"
	"findash/internal/util"
)

func main() {
	configPath := flag.String("config", os.Getenv("FINDASH_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns stdout, so logs go to a dated file under /tmp.
	logPath := fmt.Sprintf("/tmp/findash-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(logFile, cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout(), logger)

	// Wait for the backend to come up before starting the dashboard; an
	// empty screen over a dead backend helps nobody.
	fmt.Fprintf(os.Stderr, "waiting for backend at %s...", cfg.Backend.BaseURL)
	waitCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Backend.StartupWaitSec)*time.Second)
	err = util.Retry(waitCtx, 5, 500*time.Millisecond, func() error {
		pingCtx, pingCancel := context.WithTimeout(waitCtx, 2*time.Second)
		defer pingCancel()
		return client.Ping(pingCtx)
	})
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nbackend not reachable at %s: %v\n", cfg.Backend.BaseURL, err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, " ok")
	logger.Info("backend reachable", "url", cfg.Backend.BaseURL)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating data dir: %v\n", err)
		os.Exit(1)
	}
	history, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening history store: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()
	logger.Info("history store open", "path", cfg.Storage.SQLitePath)

	p := tea.NewProgram(
		ui.NewModel(ui.Options{
			API:              client,
			History:          history,
			Logger:           logger,
			HealthInterval:   cfg.Dashboard.HealthInterval(),
			WorkflowInterval: cfg.Dashboard.WorkflowInterval(),
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
