package postgresjournal

import (
	"github.com/mdNoman21/notifyhub-go/notifyhub"
)

// The observability ports are aliases of the notifyhub interfaces so that one
// collector implementation serves both the Registry and the Journal.

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger = notifyhub.Logger

// MetricsCollector interface for collecting Journal performance and operational metrics.
type MetricsCollector = notifyhub.MetricsCollector

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext = notifyhub.SpanContext

// TracingCollector interface for collecting distributed tracing information from Journal operations.
// This interface follows the same dependency-free pattern as MetricsCollector, allowing users to integrate
// with any tracing backend (OpenTelemetry, Jaeger, Zipkin, etc.) by implementing this interface.
type TracingCollector = notifyhub.TracingCollector

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// This interface follows the same dependency-free pattern as MetricsCollector and TracingCollector,
// allowing users to integrate with any logging backend (OpenTelemetry, structured loggers, etc.)
// that supports context-based correlation and automatic trace/span ID inclusion.
type ContextualLogger = notifyhub.ContextualLogger

// Option defines a functional option for configuring Journal.
type Option func(*Journal) error

// WithTableName sets the table name for the Journal.
func WithTableName(tableName string) Option {
	return func(j *Journal) error {
		if tableName == "" {
			return notifyhub.ErrEmptyDeliveriesTableName
		}

		j.deliveriesTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Journal.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Record counts, durations, purge results (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Journal.
// The metrics collector will receive performance and operational metrics including
// record/query/purge durations, record counts, and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(j *Journal) error {
		j.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Journal.
// The tracing collector will receive distributed tracing information including
// span creation for record/query/purge operations, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(j *Journal) error {
		j.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Journal.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(j *Journal) error {
		j.contextualLogger = logger
		return nil
	}
}
