package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/romulus-live/romulus-connect/pkg/cmd"
	"github.com/romulus-live/romulus-connect/pkg/eventbus"
	"github.com/romulus-live/romulus-connect/pkg/events"
	"github.com/romulus-live/romulus-connect/pkg/log"
	"github.com/romulus-live/romulus-connect/pkg/otelhelper"
	"github.com/romulus-live/romulus-connect/pkg/protocol"
	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
	romulustrigger "github.com/romulus-live/romulus-connect/pkg/triggers/romulus"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a Romulus trigger and publish its events to the event bus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "connector-id",
				Aliases: []string{"id"},
				Usage:   "Custom connector ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("CONNECTOR_ID"),
			},
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
				Name:    "trigger",
				Usage:   "Trigger to run (romulus_webhook, romulus_poll)",
				Value:   "romulus_webhook",
				Sources: cli.EnvVars("TRIGGER_ID"),
			},
			&cli.StringFlag{
				Name:    "public-url",
				Usage:   "Externally reachable base URL for webhook deliveries",
				Sources: cli.EnvVars("PUBLIC_URL"),
			},
			&cli.StringFlag{
				Name:    "webhook-path",
				Usage:   "Local listen path for webhook deliveries",
				Value:   "/webhooks/romulus",
				Sources: cli.EnvVars("WEBHOOK_PATH"),
			},
			&cli.IntFlag{
				Name:    "webhook-port",
				Usage:   "Port for the webhook HTTP server",
				Value:   8085,
				Sources: cli.EnvVars("WEBHOOK_PORT"),
			},
			&cli.StringFlag{
				Name:    "event",
				Usage:   "Vendor event to subscribe to (webhook trigger)",
				Value:   romulustrigger.EventAgentCallCompleted,
				Sources: cli.EnvVars("ROMULUS_EVENT"),
			},
			&cli.StringFlag{
				Name:    "scope",
				Usage:   "Subscription scope: all or specific",
				Value:   romulustrigger.ScopeAll,
				Sources: cli.EnvVars("ROMULUS_SCOPE"),
			},
			&cli.StringFlag{
				Name:    "entity-id",
				Usage:   "Entity to scope the subscription to",
				Sources: cli.EnvVars("ROMULUS_ENTITY_ID"),
			},
			&cli.StringFlag{
				Name:    "agent-id",
				Usage:   "Agent whose call tasks are polled (poll trigger)",
				Sources: cli.EnvVars("ROMULUS_AGENT_ID"),
			},
			&cli.StringFlag{
				Name:    "schedule",
				Usage:   "Poll schedule (poll trigger)",
				Value:   "@every 1m",
				Sources: cli.EnvVars("ROMULUS_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: runTrigger,
	}
}

func runTrigger(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	connectorID := command.String("connector-id")
	if connectorID == "" {
		connectorID = "connector-" + uuid.New().String()[:8]
	}

	logger := log.WithModule("romulus-connect").With("connectorId", connectorID)
	logger.InfoContext(ctx, "Initializing Romulus connector")

	_, err := otelhelper.NewTracer(ctx, "romulus-connect")
	if err != nil {
		logger.WarnContext(ctx, "Failed to initialize tracer, continuing without tracing", "error", err)
	}

	eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
	defer func() {
		err := eventBus.Close()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	triggerID := command.String("trigger")

	manager := romulustrigger.GetServerManager(command.Int("webhook-port"), logger)

	err = manager.Start(ctx)
	if err != nil {
		return err
	}

	registry := cmd.NewRegistry(logger)

	trigger, err := registry.CreateTrigger(triggerID, triggerConfig(command, triggerID))
	if err != nil {
		return err
	}

	callback := publishCallback(eventBus, logger, connectorID, triggerID, command.String("webhook-path"))

	err = trigger.Start(ctx, callback)
	if err != nil {
		logger.ErrorContext(ctx, "Trigger stopped with error", "error", err)
	}

	return trigger.Stop(context.Background())
}

func triggerConfig(command *cli.Command, triggerID string) map[string]any {
	config := map[string]any{
		"api_key":  command.String("api-key"),
		"base_url": command.String("base-url"),
	}

	if triggerID == "romulus_poll" {
		config["agent_id"] = command.String("agent-id")
		config["schedule"] = command.String("schedule")

		return config
	}

	config["path"] = command.String("webhook-path")
	config["public_url"] = command.String("public-url")
	config["event"] = command.String("event")
	config["scope"] = command.String("scope")

	if entityID := command.String("entity-id"); entityID != "" {
		config["entity_id"] = entityID
	}

	return config
}

// publishCallback converts fired trigger data into connector events on the
// bus. Publish failures are logged, not returned, so a broker outage does
// not tear down the trigger.
func publishCallback(bus eventbus.EventPublisher, logger *slog.Logger, connectorID, triggerID, path string) protocol.TriggerCallback {
	return func(ctx context.Context, data map[string]any) error {
		var event eventbus.Event

		if triggerID == "romulus_poll" {
			agentID, _ := data["agent_id"].(string)
			callTask, _ := data["call_task"].(map[string]any)
			event = events.NewCallTaskPolled(agentID, callTask)
		} else {
			event = events.NewWebhookReceived(connectorID, path, data)
		}

		err := bus.Publish(ctx, connectorID, event)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to publish trigger event", "error", err)
		}

		return nil
	}
}
