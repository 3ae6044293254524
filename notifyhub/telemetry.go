package notifyhub

import (
	"context"
	"fmt"
	"math"
	"time"
)

// logDeliveryWithDurationContext logs a single delivery with execution time at
// debug level, preferring the contextual logger when one is configured.
func (r *Registry) logDeliveryWithDurationContext(
	ctx context.Context,
	subscriptionID SubscriptionID,
	eventType string,
	duration time.Duration,
) {
	if r.contextualLogger != nil {
		r.contextualLogger.DebugContext(ctx, logMsgDelivered,
			logAttrSubscriptionID, subscriptionID.String(),
			logAttrEventType, eventType,
			logAttrDurationMS, r.toMilliseconds(duration))
		return
	}

	if r.logger != nil {
		r.logger.Debug(logMsgDelivered,
			logAttrSubscriptionID, subscriptionID.String(),
			logAttrEventType, eventType,
			logAttrDurationMS, r.toMilliseconds(duration))
	}
}

// logOperationContext logs operational information at info level, preferring
// the contextual logger when one is configured.
func (r *Registry) logOperationContext(ctx context.Context, action string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if r.logger != nil {
		r.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarnContext logs non-critical issues at warn level, preferring the
// contextual logger when one is configured.
func (r *Registry) logWarnContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if r.contextualLogger != nil {
		r.contextualLogger.WarnContext(ctx, message, allArgs...)
		return
	}

	if r.logger != nil {
		r.logger.Warn(message, allArgs...)
	}
}

// logErrorContext logs error information at error level, preferring the
// contextual logger when one is configured.
func (r *Registry) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if r.logger != nil {
		r.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (r *Registry) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (r *Registry) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if r.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
			contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		} else {
			r.metricsCollector.RecordDuration(metricName, duration, labels)
		}
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (r *Registry) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation,
	status string,
) {
	if r.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		} else {
			r.metricsCollector.RecordValue(metricName, value, labels)
		}
	}
}

// recordErrorMetricsContext records delivery failure metrics with context if the collector supports it.
func (r *Registry) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if r.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}

		// Use context-aware method if available
		if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricDeliveryFailures, labels)
		} else {
			r.metricsCollector.IncrementCounter(metricDeliveryFailures, labels)
		}
	}
}

// recordPanicMetrics records subscriber panic metrics if the metrics collector is configured.
func (r *Registry) recordPanicMetrics(operation string) {
	if r.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"failure_type":    failureTypePanic,
		}
		r.metricsCollector.IncrementCounter(metricSubscriberPanics, labels)
	}
}

// recordRecorderErrorMetrics records recorder failure metrics if the metrics collector is configured.
func (r *Registry) recordRecorderErrorMetrics(operation string) {
	if r.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			spanAttrErrorType: errorTypeRecorder,
		}
		r.metricsCollector.IncrementCounter(metricRecorderErrors, labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (r *Registry) startTraceSpan(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, SpanContext) {
	if r.tracingCollector != nil {
		return r.tracingCollector.StartSpan(ctx, operation, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (r *Registry) finishTraceSpan(
	spanCtx SpanContext,
	status string,
	attrs map[string]string,
) {
	if r.tracingCollector != nil && spanCtx != nil {
		r.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// startNotifySpan starts a tracing span for a notify round.
func (r *Registry) startNotifySpan(
	ctx context.Context,
	notification Notification,
	roundID RoundID,
	subscriberCount int,
) (context.Context, SpanContext) {
	spanAttrs := map[string]string{
		spanAttrOperation:       operationNotify,
		spanAttrEventType:       notification.EventType,
		spanAttrRoundID:         roundID.String(),
		spanAttrSubscriberCount: fmt.Sprintf("%d", subscriberCount),
	}

	return r.startTraceSpan(ctx, spanNameNotify, spanAttrs)
}

// finishNotifySpanSuccess finishes a successful notify span with results.
func (r *Registry) finishNotifySpanSuccess(
	span SpanContext,
	delivered int,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusSuccess)
		span.AddAttribute(spanAttrDeliveredCount, fmt.Sprintf("%d", delivered))
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
	}

	r.finishTraceSpan(span, statusSuccess, map[string]string{
		spanAttrDeliveredCount: fmt.Sprintf("%d", delivered),
	})
}

// finishNotifySpanError finishes a notify span with error details.
func (r *Registry) finishNotifySpanError(
	span SpanContext,
	errorType string,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusError)
		span.AddAttribute(spanAttrErrorType, errorType)

		if duration > 0 {
			span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
		}
	}

	r.finishTraceSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// === Tracing Observer Pattern ===
// These observers simplify tracing span management by encapsulating lifecycle complexity.

// notifyTracingObserver encapsulates tracing span lifecycle management for notify rounds.
type notifyTracingObserver struct {
	r    *Registry
	span SpanContext
}

// startNotifyTracing creates a new tracing observer for a notify round.
func (r *Registry) startNotifyTracing(
	ctx context.Context,
	notification Notification,
	roundID RoundID,
	subscriberCount int,
) (*notifyTracingObserver, context.Context) {

	newCtx, span := r.startNotifySpan(ctx, notification, roundID, subscriberCount)

	return &notifyTracingObserver{
		r:    r,
		span: span,
	}, newCtx
}

// finishError completes the notify tracing span with error details.
func (nto *notifyTracingObserver) finishError(errorType string, duration time.Duration) {
	if nto.span == nil {
		return
	}

	nto.r.finishNotifySpanError(nto.span, errorType, duration)
}

// finishSuccess completes the notify tracing span for successful rounds.
func (nto *notifyTracingObserver) finishSuccess(delivered int, duration time.Duration) {
	if nto.span == nil {
		return
	}

	nto.r.finishNotifySpanSuccess(nto.span, delivered, duration)
}

// === Metrics Observer Pattern ===
// These observers simplify the metrics collection by encapsulating recording complexity.

// notifyMetricsObserver encapsulates the metrics collection for notify rounds.
type notifyMetricsObserver struct {
	r   *Registry
	ctx context.Context
}

// startNotifyMetrics creates a new metrics observer for a notify round.
func (r *Registry) startNotifyMetrics(ctx context.Context) *notifyMetricsObserver {
	return &notifyMetricsObserver{
		r:   r,
		ctx: ctx,
	}
}

// recordSuccess records all metrics for a fully successful notify round.
func (nmo *notifyMetricsObserver) recordSuccess(delivered int, duration time.Duration) {
	nmo.r.recordDurationMetricsContext(nmo.ctx, metricNotifyDuration, duration, operationNotify, statusSuccess)
	nmo.r.recordValueMetricsContext(nmo.ctx, metricNotificationsDelivered, float64(delivered), operationNotify, statusSuccess)
}

// recordError records the round metrics for a notify round with failures.
// The per-failure counters were already recorded while the round ran.
func (nmo *notifyMetricsObserver) recordError(delivered int, duration time.Duration) {
	nmo.r.recordDurationMetricsContext(nmo.ctx, metricNotifyDuration, duration, operationNotify, statusError)
	nmo.r.recordValueMetricsContext(nmo.ctx, metricNotificationsDelivered, float64(delivered), operationNotify, statusError)
}

// recordDeliveryFailure records the counters for one failed delivery.
func (nmo *notifyMetricsObserver) recordDeliveryFailure(errorType string) {
	nmo.r.recordErrorMetricsContext(nmo.ctx, operationNotify, errorType)

	if errorType == errorTypePanic {
		nmo.r.recordPanicMetrics(operationNotify)
	}
}

// recordRecorderFailure records the counter for a failed delivery recording.
func (nmo *notifyMetricsObserver) recordRecorderFailure() {
	nmo.r.recordRecorderErrorMetrics(operationNotify)
}
