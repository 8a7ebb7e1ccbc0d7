package main

import (
	"context"
	"fmt"

	"github.com/yamiko-app/yamiko/internal/database"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply or inspect the embedded database migrations (up, status)"
}

func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, status")
	}

	url := dbURL()
	PrintInfo("Database: %s", redactPassword(url))
	ctx := context.Background()

	switch args[0] {
	case "up":
		version, err := database.Migrate(ctx, url)
		if err != nil {
			return err
		}
		PrintSuccess("Schema at version %d", version)
		return nil
	case "status":
		return database.MigrationStatus(ctx, url)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}
