package droprate

import "time"

// RateSumTolerance is how far the five tier rates may drift from 100 in total
const RateSumTolerance = 0.01

// Cache defaults for the shared-store front
const (
	DefaultCacheSize = 64
	DefaultCacheTTL  = 30 * time.Second

	// CacheSchemaVersion is bumped whenever the cached table layout changes
	CacheSchemaVersion = "1.0"
)

// Validation messages
const (
	ErrMsgTierMissing   = "rate is required"
	ErrMsgRateRange     = "rate must be between 0 and 100"
	ErrMsgUnknownTier   = "unknown tier"
	ErrMsgRateSumFormat = "rates must sum to 100 (got %.4f)"
	ErrMsgPackTypeEmpty = "pack type is required"
)

// Log messages
const (
	LogMsgRatesUpdated      = "Drop rates updated"
	LogMsgRatesFallback     = "Drop rates not configured for pack, using fallback"
	LogMsgStoreReadFailed   = "Failed to read drop rates, using built-in defaults"
	LogMsgPublishFailed     = "Failed to publish drop-rate event"
	LogMsgSeedApplied       = "Seeded drop rates for pack"
	LogMsgSeedSkipped       = "Drop rates already configured for pack, seed skipped"
	LogMsgServiceShutdown   = "Drop-rate service shutting down..."
	LogMsgCacheInvalidation = "Invalidated cached drop rates"
)
