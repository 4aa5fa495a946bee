package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/credstore/cmd/app/commands"
	"github.com/allisson/credstore/internal/app"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{{
		Name:  "create-encryption-key",
		Usage: "Generate a key for the internal encryption provider",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Key name; defaults to key-YYYY-MM-DD",
			},
			&cli.StringFlag{
				Name:  "kms-key-uri",
				Usage: "Wrap the key with this KMS keeper (hashivault://..., base64key://...)",
			},
			formatFlag(),
		},
		Action: withContainer(func(ctx context.Context, cmd *cli.Command, c *app.Container) error {
			return commands.RunCreateEncryptionKey(
				ctx,
				c.KMSService(),
				c.Logger(),
				commands.Stdout,
				cmd.String("name"),
				cmd.String("kms-key-uri"),
				cmd.String("format"),
			)
		}),
	}}
}
