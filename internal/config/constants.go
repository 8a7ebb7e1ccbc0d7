package config

import "time"

const (
	// Configuration file paths
	ConfigPathDropRates = "configs/drop_rates.toml"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Defaults
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "yamiko"
	DefaultVersion     = "dev"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultMaxEnergy = 100

	DefaultDropRateCacheTTL  = 30 * time.Second
	DefaultDropRateCacheSize = 64
)

// Example values shipped in .env.example that must never reach production
const (
	insecureDBPassword = "change_this_secure_password"
	insecureAPIKey     = "generate_with_openssl_rand_hex_32"
)
