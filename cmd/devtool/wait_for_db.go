package main

import (
	"context"
	"fmt"
	"time"

	"github.com/yamiko-app/yamiko/internal/database"
)

const (
	waitMaxRetries    = 30
	waitRetryInterval = 2 * time.Second
)

type WaitForDBCommand struct{}

func (c *WaitForDBCommand) Name() string {
	return "wait-for-db"
}

func (c *WaitForDBCommand) Description() string {
	return "Wait for database to be ready (with retries)"
}

func (c *WaitForDBCommand) Run(args []string) error {
	PrintHeader("Waiting for database...")

	url := dbURL()
	var err error
	for i := 0; i < waitMaxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), waitRetryInterval)
		pool, perr := database.NewPool(ctx, url, database.PoolConfig{MaxConns: 1})
		cancel()
		if perr == nil {
			pool.Close()
			PrintSuccess("Database is ready")
			return nil
		}
		err = perr

		fmt.Printf("Database not ready (%d/%d): %v\n", i+1, waitMaxRetries, err)
		time.Sleep(waitRetryInterval)
	}

	return fmt.Errorf("database failed to become ready after %d attempts: %w", waitMaxRetries, err)
}
