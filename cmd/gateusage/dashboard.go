package main

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/janekbaraniewski/gateusage/internal/config"
	"github.com/janekbaraniewski/gateusage/internal/core"
	"github.com/janekbaraniewski/gateusage/internal/history"
	"github.com/janekbaraniewski/gateusage/internal/tui"
	"github.com/janekbaraniewski/gateusage/internal/version"
)

func RunDashboard(cfg config.Config) error {
	session, _, gateway, err := newConsole()
	if err != nil {
		return err
	}

	// Config edits (login from another terminal, hand-edited settings)
	// flow into the live session; the client reads it on every request.
	stopWatch, err := config.Watch(config.ConfigDir(), func(cfg config.Config, creds config.Credentials) {
		session.SetBaseURL(cfg.BaseURL)
		session.SetCredentials(creds.Identity, creds.AccessToken)
	})
	if err != nil {
		log.Printf("dashboard: config watch unavailable: %v", err)
	} else {
		defer stopWatch()
	}

	store, err := history.OpenStore(history.DefaultPath(config.ConfigDir()))
	if err != nil {
		log.Printf("dashboard: history unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	model := tui.NewModel(tui.Options{
		Console:         gateway,
		Store:           store,
		BaseURL:         session.BaseURL,
		Window:          core.ParseTimeWindow(cfg.TimeWindow),
		RefreshInterval: time.Duration(cfg.UI.RefreshIntervalSeconds) * time.Second,
		WarnThreshold:   cfg.UI.WarnThreshold,
		CritThreshold:   cfg.UI.CritThreshold,
		Version:         version.Version,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
