// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ledgerlock/ledgerlock/cmd/app/commands"
)

var version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "ledgerlock",
		Usage:   "Zero-knowledge encrypted storage with tamper-evident audit chains",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-tenant",
				Usage: "Provision a new tenant with its key hierarchy and audit chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable tenant name",
					},
					&cli.StringFlag{
						Name:    "passphrase",
						Aliases: []string{"p"},
						Usage:   "Tenant passphrase (omit to be prompted)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateTenant(
						ctx,
						cmd.String("name"),
						cmd.String("passphrase"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "rotate-passphrase",
				Usage: "Re-wrap a tenant's DEK under a new passphrase",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant-id",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Tenant ID (UUID)",
					},
					&cli.StringFlag{
						Name:  "current-passphrase",
						Usage: "Current tenant passphrase (omit to be prompted, unless using --recovery-code)",
					},
					&cli.StringFlag{
						Name:  "recovery-code",
						Usage: "Recovery code, used instead of the current passphrase",
					},
					&cli.StringFlag{
						Name:  "new-passphrase",
						Usage: "New tenant passphrase (omit to be prompted)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRotatePassphrase(
						ctx,
						cmd.String("tenant-id"),
						cmd.String("current-passphrase"),
						cmd.String("recovery-code"),
						cmd.String("new-passphrase"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "verify-chain",
				Usage: "Verify the integrity of a tenant's audit chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant-id",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Tenant ID (UUID)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunVerifyChain(
						ctx,
						cmd.String("tenant-id"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "purge-audit-events",
				Usage: "Remove audit events up to a sequence, anchoring the removed prefix",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant-id",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Tenant ID (UUID)",
					},
					&cli.Uint64Flag{
						Name:     "through-sequence",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Purge events with sequence up to and including this value",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunPurgeAuditEvents(
						ctx,
						cmd.String("tenant-id"),
						cmd.Uint64("through-sequence"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
