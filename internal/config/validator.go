package config

import (
	"fmt"
	"slices"
	"strings"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validLogFormats = map[string]bool{"text": true, "json": true}

// Validate rejects values that load fine but cannot run the service.
// Every problem is reported at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if !validLogLevels[c.LogLevel] {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	if !validLogFormats[c.LogFormat] {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	switch c.StorageDriver {
	case StorageDriverPostgres:
		var missing []string
		for name, value := range map[string]string{
			"DB_USER": c.DBUser,
			"DB_HOST": c.DBHost,
			"DB_PORT": c.DBPort,
			"DB_NAME": c.DBName,
		} {
			if value == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			problems = append(problems, "missing required database settings: "+strings.Join(missing, ", "))
		}
		if c.DBMaxConns < 1 {
			problems = append(problems, fmt.Sprintf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns))
		}
	case StorageDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_DRIVER must be %s or %s, got %q",
			StorageDriverPostgres, StorageDriverMemory, c.StorageDriver))
	}

	if c.MaxEnergy < 1 {
		problems = append(problems, fmt.Sprintf("MAX_ENERGY must be positive, got %d", c.MaxEnergy))
	}
	if c.DropRateCacheTTL <= 0 {
		problems = append(problems, "DROP_RATE_CACHE_TTL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Warnings reports settings that are legal but risky, such as example
// secrets left in place
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DBPassword == insecureDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if c.APIKey == insecureAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}
	if c.StorageDriver == StorageDriverMemory && c.Environment == "prod" {
		warnings = append(warnings, "STORAGE_DRIVER=memory keeps progression in process memory; data is lost on restart")
	}

	return warnings
}
