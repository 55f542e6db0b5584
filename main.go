package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielhkuo/voterauth/apiclient"
	"github.com/danielhkuo/voterauth/cliparse"
	"github.com/danielhkuo/voterauth/flow"
	"github.com/danielhkuo/voterauth/tui"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseClientFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere
	logger, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening log file:", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	mode, err := flow.ParseAuthMode(cfg.AuthMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	client := apiclient.NewClient(cfg.APIURL, apiclient.WithLogger(logger))
	bridge := tui.NewBridge()

	ctrl := flow.New(client,
		flow.WithNotifier(bridge),
		flow.WithLogger(logger),
		flow.WithCallTimeout(cfg.CallTimeout),
		flow.WithAuthMode(mode),
		flow.WithObserver(func(s flow.FlowState) {
			// Sessions end when the voter starts over
			if s.Step == flow.CredentialsEntry && s.Voter == nil && !s.Loading {
				client.ClearSession()
			}
		}),
	)

	p := tea.NewProgram(tui.New(ctrl, tui.WithLogger(logger)), tea.WithAltScreen())
	bridge.Attach(p)

	logger.Info("client started", "api", cfg.APIURL, "auth_mode", mode.String())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}
