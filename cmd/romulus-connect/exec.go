package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/romulus-live/romulus-connect/pkg/cmd"
	"github.com/romulus-live/romulus-connect/pkg/log"
	"github.com/romulus-live/romulus-connect/pkg/models"
	romulusapi "github.com/romulus-live/romulus-connect/pkg/romulus"
)

func execCommand() *cli.Command {
	return &cli.Command{
		Name:  "exec",
		Usage: "Execute one or more Romulus API operations and print the results as JSON",
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
				Name:  "resource",
				Usage: "Resource to operate on (agent, call, campaign, messenger, webhook)",
			},
			&cli.StringFlag{
				Name:  "operation",
				Usage: "Operation to perform within the resource",
			},
			&cli.StringFlag{
				Name:  "parameters",
				Usage: "Operation parameters as a JSON object",
				Value: "{}",
			},
			&cli.StringFlag{
				Name:  "input",
				Usage: "Path to a JSON file holding one operation config or an array of them",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: execOperations,
	}
}

func execOperations(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("exec")

	configs, err := loadExecConfigs(command)
	if err != nil {
		return err
	}

	registry := cmd.NewRegistry(logger)
	results := make([]any, 0, len(configs))

	// Batch execution is sequential and stops at the first failure.
	for index, config := range configs {
		config["api_key"] = command.String("api-key")
		config["base_url"] = command.String("base-url")

		action, err := registry.CreateAction("romulus", config)
		if err != nil {
			return fmt.Errorf("operation %d: %w", index, err)
		}

		executionCtx := models.ExecutionContext{
			ID: "exec-" + uuid.New().String()[:8],
		}

		result, err := action.Execute(ctx, executionCtx, logger)
		if err != nil {
			return fmt.Errorf("operation %d: %w", index, err)
		}

		results = append(results, result)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if len(results) == 1 {
		return encoder.Encode(results[0])
	}

	return encoder.Encode(results)
}

func loadExecConfigs(command *cli.Command) ([]map[string]any, error) {
	inputPath := command.String("input")
	if inputPath == "" {
		var parameters map[string]any

		err := json.Unmarshal([]byte(command.String("parameters")), &parameters)
		if err != nil {
			return nil, fmt.Errorf("invalid parameters JSON: %w", err)
		}

		return []map[string]any{{
			"resource":   command.String("resource"),
			"operation":  command.String("operation"),
			"parameters": parameters,
		}}, nil
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var batch []map[string]any

	err = json.Unmarshal(data, &batch)
	if err == nil {
		return batch, nil
	}

	var single map[string]any

	err = json.Unmarshal(data, &single)
	if err != nil {
		return nil, fmt.Errorf("input file must hold a JSON object or array of objects: %w", err)
	}

	return []map[string]any{single}, nil
}
