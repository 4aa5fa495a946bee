package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/credstore/internal/app"
	"github.com/allisson/credstore/internal/config"
)

func getCommands(version string) []*cli.Command {
	var cmds []*cli.Command
	for _, group := range [][]*cli.Command{
		getSystemCommands(version),
		getKeyCommands(),
		getAuthCommands(),
	} {
		cmds = append(cmds, group...)
	}
	return cmds
}

// withContainer loads configuration, builds the dependency container and releases
// it once action returns.
func withContainer(action func(ctx context.Context, cmd *cli.Command, c *app.Container) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer func() { _ = container.Shutdown(ctx) }()
		return action(ctx, cmd, container)
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
