package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/gateusage/internal/config"
)

func NewLoginCommand() *cobra.Command {
	var (
		baseURL     string
		identity    string
		token       string
		fromBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Configure the gateway address and credentials.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if baseURL != "" {
				if err := config.SaveBaseURL(baseURL); err != nil {
					return err
				}
			}
			if identity != "" || token != "" {
				creds, err := config.LoadCredentials()
				if err != nil {
					return err
				}
				if identity != "" {
					creds.Identity = identity
				}
				if token != "" {
					creds.AccessToken = token
				}
				if err := config.SaveCredentials(creds); err != nil {
					return err
				}
			}

			session, client, gateway, err := newConsole()
			if err != nil {
				return err
			}

			if fromBrowser {
				imported, err := client.ImportBrowserCookies()
				if err != nil {
					return fmt.Errorf("importing browser cookies: %w", err)
				}
				fmt.Printf("Imported %d cookie(s) for %s\n", imported, session.BaseURL())
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			up, err := gateway.LoginStatus(ctx)
			if err != nil {
				return fmt.Errorf("probing gateway: %w", err)
			}
			if !up {
				fmt.Println("Gateway reachable but reported a failure; check the address.")
				return nil
			}

			fmt.Printf("Gateway %s is up. Credentials saved to %s\n",
				session.BaseURL(), config.CredentialsPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "gateway base address, e.g. https://gateway.example.com")
	cmd.Flags().StringVar(&identity, "identity", "", "user identifier sent as the Identity header")
	cmd.Flags().StringVar(&token, "token", "", "access token sent as Authorization: Bearer")
	cmd.Flags().BoolVar(&fromBrowser, "from-browser", false, "import gateway session cookies from a local browser")

	return cmd
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe the gateway without authentication.",
		RunE: func(_ *cobra.Command, _ []string) error {
			session, _, gateway, err := newConsole()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			up, err := gateway.LoginStatus(ctx)
			if err != nil {
				return err
			}
			if up {
				fmt.Printf("%s: up\n", session.BaseURL())
			} else {
				fmt.Printf("%s: reporting failure\n", session.BaseURL())
			}
			return nil
		},
	}
}
