package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/credstore/cmd/app/commands"
	"github.com/allisson/credstore/internal/app"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{{
		Name:  "create-auth-token",
		Usage: "Generate a bearer token and its AUTH_TOKENS entry",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "actor",
				Aliases:  []string{"a"},
				Required: true,
				Usage:    "Actor the token authenticates as",
			},
			formatFlag(),
		},
		Action: withContainer(func(_ context.Context, cmd *cli.Command, c *app.Container) error {
			return commands.RunCreateAuthToken(
				c.SecretService(),
				c.Logger(),
				commands.Stdout,
				cmd.String("actor"),
				cmd.String("format"),
			)
		}),
	}}
}
