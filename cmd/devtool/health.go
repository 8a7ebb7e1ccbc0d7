package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	healthTimeout       = 5 * time.Second
	healthSlowThreshold = time.Second
)

type HealthCheckCommand struct{}

func (c *HealthCheckCommand) Name() string {
	return "health-check"
}

func (c *HealthCheckCommand) Description() string {
	return "Check application readiness [base-url]"
}

func (c *HealthCheckCommand) Run(args []string) error {
	base := getEnv("YAMIKO_URL", "http://localhost:8080")
	if len(args) > 0 {
		base = args[0]
	}

	PrintHeader(fmt.Sprintf("Health Check (%s)", base))

	start := time.Now()
	if err := checkHealth(&http.Client{Timeout: healthTimeout}, base); err != nil {
		PrintError("Health check failed: %v", err)
		return err
	}
	duration := time.Since(start)

	if duration > healthSlowThreshold {
		PrintWarning("Health check warning: slow response time (%v)", duration)
	} else {
		PrintSuccess("Health check passed (response time: %v)", duration)
	}
	return nil
}

// checkHealth requires both liveness and readiness to answer 200
func checkHealth(client *http.Client, base string) error {
	base = strings.TrimRight(base, "/")
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := client.Get(base + path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}
	return nil
}
