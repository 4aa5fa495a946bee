package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/credstore/cmd/app/commands"
	"github.com/allisson/credstore/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	serve := &cli.Command{
		Name:  "server",
		Usage: "Serve the credential API and the metrics endpoint",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return commands.RunServer(ctx, version)
		},
	}

	migrate := &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations for DB_DRIVER",
		Action: withContainer(func(_ context.Context, _ *cli.Command, c *app.Container) error {
			cfg := c.Config()
			return commands.RunMigrations(c.Logger(), cfg.DBDriver, cfg.DBConnectionString)
		}),
	}

	cleanAudit := &cli.Command{
		Name:  "clean-audit-records",
		Usage: "Purge audit records past the retention window",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "days",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "Retention window in days",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Count matching records without deleting them",
			},
			formatFlag(),
		},
		Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
			useCase, err := c.AuditUseCase()
			if err != nil {
				return err
			}
			return commands.RunCleanAuditRecords(
				ctx,
				useCase,
				c.Logger(),
				commands.Stdout,
				int(cmd.Int("days")),
				cmd.Bool("dry-run"),
				cmd.String("format"),
			)
		}),
	}

	return []*cli.Command{serve, migrate, cleanAudit}
}
