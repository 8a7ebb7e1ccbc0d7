package event

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// Log message constants
const (
	LogMsgHandlerErrorFormat = "%d handler(s) failed for event %s: %v"
	LogMsgPublishFailed      = "Failed to publish event"
)
