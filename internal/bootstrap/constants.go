package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingYamiko      = "Starting Yamiko"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStorageInitialized  = "Storage initialized"
	LogMsgMigrationsSkipped   = "Automatic migrations disabled"
	LogMsgDropRatesSeeded     = "Drop-rate tables seeded"
	LogMsgDropRateSeedMissing = "Drop-rate seed file not found, serving built-in rates"
	LogMsgUsersSeeded         = "Seed users provisioned"

	ErrMsgFailedMigrate        = "failed to run migrations"
	ErrMsgFailedConnectDB      = "failed to connect to database"
	ErrMsgFailedLoadSeed       = "failed to load drop-rate seed file"
	ErrMsgFailedSeedDropRates  = "failed to seed drop rates"
	ErrMsgFailedSeedUser       = "failed to provision seed user"
	ErrMsgUnknownStorageDriver = "unknown storage driver"
)

// =============================================================================
// Event System
// =============================================================================

const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgLevelUp                    = "User leveled up"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	// ShutdownTimeout bounds the whole graceful shutdown sequence
	ShutdownTimeout = 10 * time.Second

	LogMsgShuttingDownServer    = "Shutting down server..."
	LogMsgServerForcedShutdown  = "Server forced to shutdown"
	LogMsgServiceShutdownFailed = " service shutdown failed"
	LogMsgClosingStorage        = "Closing storage"
	LogMsgServerStopped         = "Server stopped"
)

// Service names used in shutdown logs
const (
	ServiceNameProgression = "Progression"
	ServiceNameDropRate    = "Drop rate"
)
