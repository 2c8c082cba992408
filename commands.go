package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haguru/gatekeeper/config"
	"github.com/haguru/gatekeeper/internal/app"
	"github.com/haguru/gatekeeper/internal/auth"
	"github.com/haguru/gatekeeper/internal/hasher"
)

// NewRootCmd creates the gatekeeper command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	var configPath string

	serve := newServeCmd(&configPath)
	cmd := &cobra.Command{
		Use:          "gatekeeper",
		Short:        "Username/password sign-up and login service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.CONFIG_PATH, "config file path")

	cmd.AddCommand(serve)
	cmd.AddCommand(newHashCmd(&configPath))
	cmd.AddCommand(newKeygenCmd(&configPath))
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := app.NewApp(ctx, *configPath)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}

// newHashCmd prints the hash of a password read from stdin using the
// configured algorithm, for seeding a credential store by hand.
func newHashCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Hash a password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			h, err := hasher.New(cfg.Hasher)
			if err != nil {
				return err
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				return errors.New("empty password")
			}

			hash, err := h.Hash(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newKeygenCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Write a new cookie signing key",
		Long: `Write a new P-256 private key used to sign session cookies. The key is
written to --out, or to private_key_path from the config file. An existing
file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := out
			if path == "" {
				cfg, err := app.LoadConfig(*configPath)
				if err != nil {
					return err
				}
				path = cfg.PrivateKeyPath
			}
			if path == "" {
				return errors.New("no key path: set --out or private_key_path")
			}

			key, err := auth.GenerateKey()
			if err != nil {
				return err
			}
			if err := auth.WritePrivateKeyFile(path, key); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote signing key to %s\n", path)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "key file path, overrides private_key_path")
	return cmd
}
