package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/yamiko-app/yamiko/internal/bootstrap"
	"github.com/yamiko-app/yamiko/internal/config"
	"github.com/yamiko-app/yamiko/internal/database"
	"github.com/yamiko-app/yamiko/internal/database/postgres"
	"github.com/yamiko-app/yamiko/internal/droprate"
)

type SeedCommand struct{}

func (c *SeedCommand) Name() string {
	return "seed"
}

func (c *SeedCommand) Description() string {
	return "Check or apply the drop-rate seed file (check, apply) [path]"
}

func (c *SeedCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: check, apply")
	}

	path := getEnv("DROP_RATES_FILE", config.ConfigPathDropRates)
	if len(args) > 1 {
		path = args[1]
	}

	switch args[0] {
	case "check":
		return c.check(path)
	case "apply":
		return c.apply(path)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func (c *SeedCommand) check(path string) error {
	tables, err := droprate.LoadSeedFile(path)
	if err != nil {
		return err
	}

	packs := make([]string, 0, len(tables))
	for pack := range tables {
		packs = append(packs, pack)
	}
	sort.Strings(packs)

	for _, pack := range packs {
		PrintInfo("%s: %v", pack, tables[pack])
	}
	PrintSuccess("%s is valid (%d packs)", path, len(tables))
	return nil
}

func (c *SeedCommand) apply(path string) error {
	ctx := context.Background()
	url := dbURL()
	PrintInfo("Connecting to database: %s", redactPassword(url))

	pool, err := database.NewPool(ctx, url, database.PoolConfig{MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := bootstrap.SeedDropRates(ctx, postgres.NewDropRateRepository(pool), path); err != nil {
		return err
	}
	PrintSuccess("Drop-rate seed applied from %s", path)
	return nil
}
