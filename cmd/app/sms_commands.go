package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/sms-relay/cmd/app/commands"
	"github.com/allisson/sms-relay/internal/app"
	"github.com/allisson/sms-relay/internal/config"
)

func getSmsCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "enqueue",
			Usage: "Publish a send request to the send queue topic",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "notification-id",
					Aliases: []string{"i"},
					Usage:   "Notification ID (UUID); a random one is generated when omitted",
				},
				&cli.StringFlag{
					Name:     "sender",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Sender shown on the handset",
				},
				&cli.StringFlag{
					Name:     "recipient",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Recipient phone number",
				},
				&cli.StringFlag{
					Name:     "message",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Message text",
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

				producer, err := container.Producer()
				if err != nil {
					return err
				}

				return commands.RunEnqueue(
					ctx,
					producer,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.KafkaSendSmsQueueTopic,
					commands.EnqueueInput{
						NotificationID: cmd.String("notification-id"),
						Sender:         cmd.String("sender"),
						Recipient:      cmd.String("recipient"),
						Message:        cmd.String("message"),
					},
					cmd.String("format"),
				)
			},
		},
	}
}
