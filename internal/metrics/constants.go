package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameSecurityRejections   = "security_rejections_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameExpAwarded      = "exp_awarded_total"
	MetricNameLevelUps        = "level_ups_total"
	MetricNameRubiesGranted   = "rubies_granted_total"
	MetricNameDropRateUpdates = "drop_rate_updates_total"
	MetricNameGachaRolls      = "gacha_rolls_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextSecurityRejections   = "Requests rejected by the security middleware, by reason"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextExpAwarded      = "Total EXP awarded, by source"
	HelpTextLevelUps        = "Total number of levels gained"
	HelpTextRubiesGranted   = "Total rubies granted"
	HelpTextDropRateUpdates = "Total number of drop-rate table replacements"
	HelpTextGachaRolls      = "Total number of gacha rolls, by pack and tier"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelSource = "source"
	LabelPack   = "pack"
	LabelTier   = "tier"
	LabelReason = "reason"
)

// Label values for LabelReason
const (
	ReasonUnauthorized = "unauthorized"
	ReasonRateLimited  = "rate_limited"
)

// Label values for LabelSource
const (
	SourceGameplay = "gameplay"
	SourceGrant    = "grant"
)

// UnmatchedRoute labels requests that matched no route, keeping path cardinality bounded
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
)
