// Package main is the entry point for iikochk, a terminal client for
// exercising the iiko Cloud API.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/config"
	"github.com/j-veylop/iiko-checker-tui/internal/logger"
	"github.com/j-veylop/iiko-checker-tui/internal/services"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/tabs/console"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/tabs/history"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/tabs/info"
	"github.com/j-veylop/iiko-checker-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := logger.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	logger.Info("Starting", "version", version.GetVersion(), "base_url", cfg.BaseURL, "archive", cfg.ArchiveEnabled())

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	state.SetAPILogin(cfg.APILogin)

	model.SetTabs([]app.Tab{
		console.New(state, svcManager, cfg.SlowCallThreshold),
		history.New(state, svcManager, cfg.SlowCallThreshold),
		info.New(state, cfg, svcManager),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func printUsage() {
	fmt.Println(`iikochk - iiko Cloud API checker

Usage:
  iikochk [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Console, Activity, Info)
  Tab/Shift+Tab   Navigate between tabs
  e               Edit the API login
  a / o / t / m   Get access token / organizations / terminal groups / nomenclature
  [ / ]           Cycle the selected organization
  Enter           Run selected operation, show selected call
  y / Y           Copy response / request JSON
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  IIKO_BASE_URL         API root (default: https://api-ru.iiko.services/api/1)
  IIKO_API_LOGIN        API login prefilled at startup
  IIKO_TIMEOUT          Per-request timeout (default: 60s)
  SLOW_CALL_THRESHOLD   Warn about calls slower than this (default: 5s, 0 disables)
  ARCHIVE_PATH          SQLite archive of all calls (default: disabled)
  ARCHIVE_RETENTION     Drop archived calls older than this (default: 720h, 0 keeps all)
  LOG_FILE              Write logs to this file (default: off)
  LOG_LEVEL             debug, info, warn or error (default: info)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/iiko-checker/.env
  - ~/.iiko-checker/.env`)
}
