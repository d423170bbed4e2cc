package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/gateusage/internal/api"
	"github.com/janekbaraniewski/gateusage/internal/config"
	"github.com/janekbaraniewski/gateusage/internal/console"
	"github.com/janekbaraniewski/gateusage/internal/version"
)

func main() {
	if os.Getenv("GATEUSAGE_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := cobra.Command{
		Use:   "gateusage",
		Short: "gateusage is a terminal dashboard and client for a self-hosted AI gateway console.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunDashboard(cfg)
		},
	}

	root.AddCommand(
		NewLoginCommand(),
		NewStatusCommand(),
		NewTokensCommand(cfg),
		NewLogsCommand(cfg),
		NewChannelsCommand(cfg),
		NewRedemptionsCommand(cfg),
		NewTopupCommand(cfg),
		NewProductsCommand(),
		NewVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newConsole builds the session-backed client stack used by every command.
func newConsole() (*api.Session, *api.Client, *console.Console, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, nil, nil, err
	}

	session := api.NewSession(cfg.BaseURL, creds.Identity, creds.AccessToken)
	client := api.NewClient(session)
	return session, client, console.New(client), nil
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gateusage version.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.Version)
		},
	}
}
