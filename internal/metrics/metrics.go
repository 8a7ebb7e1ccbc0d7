package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)

	SecurityRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSecurityRejections,
			Help: HelpTextSecurityRejections,
		},
		[]string{LabelReason},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	ExpAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameExpAwarded,
			Help: HelpTextExpAwarded,
		},
		[]string{LabelSource},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	RubiesGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRubiesGranted,
			Help: HelpTextRubiesGranted,
		},
	)

	DropRateUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDropRateUpdates,
			Help: HelpTextDropRateUpdates,
		},
		[]string{LabelPack},
	)

	GachaRolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGachaRolls,
			Help: HelpTextGachaRolls,
		},
		[]string{LabelPack, LabelTier},
	)
)
