package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/sms-relay/cmd/app/commands"
	"github.com/allisson/sms-relay/internal/app"
	"github.com/allisson/sms-relay/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Provision topics, then start the send queue consumer and the HTTP servers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations for the gateway reference store",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "ensure-topics",
			Usage: "Create the configured Kafka topics that do not exist yet",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.KafkaAdmin()
				if err != nil {
					return err
				}

				return commands.RunEnsureTopics(
					ctx,
					admin,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.Topics(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clean-gateway-references",
			Usage: "Delete gateway references older than specified days from the SQL reference store",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete references older than this many days",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many references would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				purger, err := container.ReferencePurger()
				if err != nil {
					return err
				}

				return commands.RunCleanGatewayReferences(
					ctx,
					purger,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
