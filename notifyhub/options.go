package notifyhub

import (
	"slices"
)

// PanicHandler is called when a subscriber panics during delivery.
// The panic is always recovered and surfaced as a delivery failure;
// the handler only adds a hook for alerting or debugging.
type PanicHandler func(subscriptionID SubscriptionID, eventType string, recovered any)

// Option defines a functional option for configuring a Registry.
type Option func(*Registry) error

// WithFailFast switches the Registry from best-effort delivery to
// abort-on-first-error: a notify round stops at the first failing subscriber
// and the subscribers behind it are not invoked for that round.
func WithFailFast() Option {
	return func(r *Registry) error {
		r.failFast = true
		return nil
	}
}

// WithPanicHandler sets the handler invoked when a subscriber panics during delivery.
func WithPanicHandler(handler PanicHandler) Option {
	return func(r *Registry) error {
		r.panicHandler = handler
		return nil
	}
}

// WithDeliveryRecorder sets the recorder that receives the per-subscriber
// DeliveryRecord slice at the end of every notify round.
// A recorder failure is logged and counted but never fails the round.
func WithDeliveryRecorder(recorder DeliveryRecorder) Option {
	return func(r *Registry) error {
		if recorder == nil {
			return ErrNilDeliveryRecorderSupplied
		}

		r.recorder = recorder

		return nil
	}
}

// WithLogger sets the logger for the Registry.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: Per-delivery timing (development use)
// Info level: Round summaries with counts and durations (production-safe)
// Warn level: Non-critical issues like recorder failures
// Error level: Subscriber failures and panics.
func WithLogger(logger Logger) Option {
	return func(r *Registry) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Registry.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(r *Registry) error {
		r.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Registry.
// The metrics collector will receive performance and operational metrics including
// notify round durations, delivered/failed counts, subscriber panics, and recorder errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(r *Registry) error {
		r.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Registry.
// The tracing collector will receive distributed tracing information including
// span creation for notify rounds, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(r *Registry) error {
		r.tracingCollector = collector
		return nil
	}
}

// SubscribeOption defines a functional option applied to a single registration.
type SubscribeOption func(*registration)

// ForEventTypes restricts the subscription to the given event types.
// Without this option a subscription receives every notification.
//
// It sanitizes the input by ignoring empty event types (""); when every
// given event type is empty the subscription stays unrestricted.
func ForEventTypes(eventType string, eventTypes ...string) SubscribeOption {
	return func(reg *registration) {
		allEventTypes := append([]string{eventType}, eventTypes...)
		allEventTypes = slices.DeleteFunc(
			allEventTypes,
			func(e string) bool {
				return e == ""
			})

		if len(allEventTypes) == 0 {
			return
		}

		if reg.eventTypes == nil {
			reg.eventTypes = make(map[string]struct{}, len(allEventTypes))
		}

		for _, et := range allEventTypes {
			reg.eventTypes[et] = struct{}{}
		}
	}
}
