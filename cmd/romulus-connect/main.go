package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/romulus-live/romulus-connect/pkg/log"
	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

func main() {
	cmd := &cli.Command{
		Name:                  "romulus-connect",
		EnableShellCompletion: true,
		Usage:                 "Standalone Romulus connector: run triggers or execute API operations",
		Commands: []*cli.Command{
			runCommand(),
			execCommand(),
			testCredentialsCommand(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func testCredentialsCommand() *cli.Command {
	return &cli.Command{
		Name:  "test-credentials",
		Usage: "Verify the API key against the Romulus account endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "api-key",
				Usage:    "Romulus API key",
				Required: true,
				Sources:  cli.EnvVars("ROMULUS_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Override for the API root",
				Value:   romulusapi.DefaultBaseURL,
				Sources: cli.EnvVars("ROMULUS_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("test-credentials")

			client, err := romulusapi.NewClient(
				romulusapi.Credentials{APIKey: command.String("api-key")},
				logger,
				romulusapi.WithBaseURL(command.String("base-url")),
			)
			if err != nil {
				return err
			}

			err = client.TestCredentials(ctx)
			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "Credentials are valid")

			return nil
		},
	}
}
