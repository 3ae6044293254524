package postgresjournal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mdNoman21/notifyhub-go/notifyhub"
)

// logQueryWithDurationContext logs SQL queries with execution time at debug level,
// preferring the contextual logger when one is configured.
func (j *Journal) logQueryWithDurationContext(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if j.contextualLogger != nil {
		j.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, j.toMilliseconds(duration), logAttrQuery, sqlQuery)
		return
	}

	if j.logger != nil {
		j.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, j.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperationContext logs operational information at info level,
// preferring the contextual logger when one is configured.
func (j *Journal) logOperationContext(ctx context.Context, action string, args ...any) {
	if j.contextualLogger != nil {
		j.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if j.logger != nil {
		j.logger.Info(logMsgOperation+action, args...)
	}
}

// logErrorContext logs error information at error level,
// preferring the contextual logger when one is configured.
func (j *Journal) logErrorContext(
	ctx context.Context,
	message string,
	err error,
	args ...any,
) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if j.contextualLogger != nil {
		j.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if j.logger != nil {
		j.logger.Error(message, allArgs...)
	}
}

// logWarn logs warnings at warn level if a logger is configured.
func (j *Journal) logWarn(message string, args ...any) {
	if j.logger != nil {
		j.logger.Warn(message, args...)
		return
	}

	if j.contextualLogger != nil {
		j.contextualLogger.WarnContext(context.Background(), message, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (j *Journal) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (j *Journal) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if j.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}

		// Use context-aware method if available
		if contextualCollector, ok := j.metricsCollector.(notifyhub.ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		} else {
			j.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
		}
	}
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (j *Journal) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if j.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := j.metricsCollector.(notifyhub.ContextualMetricsCollector); ok {
			contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		} else {
			j.metricsCollector.RecordDuration(metricName, duration, labels)
		}
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (j *Journal) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation,
	status string,
) {
	if j.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := j.metricsCollector.(notifyhub.ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		} else {
			j.metricsCollector.RecordValue(metricName, value, labels)
		}
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (j *Journal) startTraceSpan(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, SpanContext) {
	if j.tracingCollector != nil {
		return j.tracingCollector.StartSpan(ctx, operation, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (j *Journal) finishTraceSpan(
	spanCtx SpanContext,
	status string,
	attrs map[string]string,
) {
	if j.tracingCollector != nil && spanCtx != nil {
		j.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// startRecordSpan starts a tracing span for record operations.
func (j *Journal) startRecordSpan(ctx context.Context, records notifyhub.DeliveryRecords) (context.Context, SpanContext) {
	spanAttrs := map[string]string{
		spanAttrOperation:   operationRecord,
		spanAttrRecordCount: fmt.Sprintf("%d", len(records)),
	}

	if len(records) > 0 {
		spanAttrs[spanAttrEventType] = records[0].EventType
	}

	return j.startTraceSpan(ctx, spanNameRecord, spanAttrs)
}

// finishRecordSpanSuccess finishes a successful record span with results.
func (j *Journal) finishRecordSpanSuccess(
	span SpanContext,
	rowsAffected int64,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusSuccess)
		span.AddAttribute(spanAttrRowsAffected, fmt.Sprintf("%d", rowsAffected))
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
	}

	j.finishTraceSpan(span, statusSuccess, map[string]string{
		spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected),
	})
}

// finishRecordSpanError finishes a record span with error details.
func (j *Journal) finishRecordSpanError(
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

	j.finishTraceSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// startQuerySpan starts a tracing span for query operations.
func (j *Journal) startQuerySpan(ctx context.Context) (context.Context, SpanContext) {
	spanAttrs := map[string]string{
		spanAttrOperation: operationQuery,
	}

	return j.startTraceSpan(ctx, spanNameQuery, spanAttrs)
}

// finishQuerySpanSuccess finishes a successful query span with results.
func (j *Journal) finishQuerySpanSuccess(
	span SpanContext,
	deliveries notifyhub.DeliveryRecords,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusSuccess)
		span.AddAttribute(spanAttrRecordCount, fmt.Sprintf("%d", len(deliveries)))
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
	}

	j.finishTraceSpan(span, statusSuccess, map[string]string{
		spanAttrRecordCount: fmt.Sprintf("%d", len(deliveries)),
	})
}

// finishQuerySpanError finishes a query span with error details.
func (j *Journal) finishQuerySpanError(
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

	j.finishTraceSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// startPurgeSpan starts a tracing span for purge operations.
func (j *Journal) startPurgeSpan(ctx context.Context, until time.Time) (context.Context, SpanContext) {
	spanAttrs := map[string]string{
		spanAttrOperation:  operationPurge,
		spanAttrPurgeUntil: until.Format(time.RFC3339),
	}

	return j.startTraceSpan(ctx, spanNamePurge, spanAttrs)
}

// finishPurgeSpanSuccess finishes a successful purge span with results.
func (j *Journal) finishPurgeSpanSuccess(
	span SpanContext,
	purgedCount int64,
	duration time.Duration,
) {
	if span != nil {
		span.SetStatus(statusSuccess)
		span.AddAttribute(spanAttrPurgedCount, fmt.Sprintf("%d", purgedCount))
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))
	}

	j.finishTraceSpan(span, statusSuccess, map[string]string{
		spanAttrPurgedCount: fmt.Sprintf("%d", purgedCount),
	})
}

// finishPurgeSpanError finishes a purge span with error details.
func (j *Journal) finishPurgeSpanError(
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

	j.finishTraceSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// === Tracing Observer Pattern ===
// These observers simplify tracing span management by encapsulating lifecycle complexity.

// recordTracingObserver encapsulates tracing span lifecycle management for record operations.
type recordTracingObserver struct {
	j    *Journal
	span SpanContext
}

// queryTracingObserver encapsulates tracing span lifecycle management for query operations.
type queryTracingObserver struct {
	j    *Journal
	span SpanContext
}

// purgeTracingObserver encapsulates tracing span lifecycle management for purge operations.
type purgeTracingObserver struct {
	j    *Journal
	span SpanContext
}

// startRecordTracing creates a new tracing observer for record operations.
func (j *Journal) startRecordTracing(ctx context.Context, records notifyhub.DeliveryRecords) (*recordTracingObserver, context.Context) {
	newCtx, span := j.startRecordSpan(ctx, records)

	return &recordTracingObserver{
		j:    j,
		span: span,
	}, newCtx
}

// startQueryTracing creates a new tracing observer for query operations.
func (j *Journal) startQueryTracing(ctx context.Context) (*queryTracingObserver, context.Context) {
	newCtx, span := j.startQuerySpan(ctx)

	return &queryTracingObserver{
		j:    j,
		span: span,
	}, newCtx
}

// startPurgeTracing creates a new tracing observer for purge operations.
func (j *Journal) startPurgeTracing(ctx context.Context, until time.Time) (*purgeTracingObserver, context.Context) {
	newCtx, span := j.startPurgeSpan(ctx, until)

	return &purgeTracingObserver{
		j:    j,
		span: span,
	}, newCtx
}

// finishError completes the record tracing span with error details.
func (rto *recordTracingObserver) finishError(errorType string, duration time.Duration) {
	if rto.span == nil {
		return
	}

	rto.j.finishRecordSpanError(rto.span, errorType, duration)
}

// finishSuccess completes the record tracing span for successful operations.
func (rto *recordTracingObserver) finishSuccess(rowsAffected int64, duration time.Duration) {
	if rto.span == nil {
		return
	}

	rto.j.finishRecordSpanSuccess(rto.span, rowsAffected, duration)
}

// finishError completes the query tracing span with error details.
func (qto *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	if qto.span == nil {
		return
	}

	qto.j.finishQuerySpanError(qto.span, errorType, duration)
}

// finishSuccess completes the query tracing span for successful operations.
func (qto *queryTracingObserver) finishSuccess(deliveries notifyhub.DeliveryRecords, duration time.Duration) {
	if qto.span == nil {
		return
	}

	qto.j.finishQuerySpanSuccess(qto.span, deliveries, duration)
}

// finishError completes the purge tracing span with error details.
func (pto *purgeTracingObserver) finishError(errorType string, duration time.Duration) {
	if pto.span == nil {
		return
	}

	pto.j.finishPurgeSpanError(pto.span, errorType, duration)
}

// finishSuccess completes the purge tracing span for successful operations.
func (pto *purgeTracingObserver) finishSuccess(purgedCount int64, duration time.Duration) {
	if pto.span == nil {
		return
	}

	pto.j.finishPurgeSpanSuccess(pto.span, purgedCount, duration)
}

// === Metrics Observer Pattern ===
// These observers simplify the metrics collection by encapsulating recording complexity.

// recordMetricsObserver encapsulates the metrics collection for record operations.
type recordMetricsObserver struct {
	j   *Journal
	ctx context.Context
}

// queryMetricsObserver encapsulates the metrics collection for query operations.
type queryMetricsObserver struct {
	j   *Journal
	ctx context.Context
}

// purgeMetricsObserver encapsulates the metrics collection for purge operations.
type purgeMetricsObserver struct {
	j   *Journal
	ctx context.Context
}

// startRecordMetrics creates a new metrics observer for record operations.
func (j *Journal) startRecordMetrics(ctx context.Context) *recordMetricsObserver {
	return &recordMetricsObserver{
		j:   j,
		ctx: ctx,
	}
}

// startQueryMetrics creates a new metrics observer for query operations.
func (j *Journal) startQueryMetrics(ctx context.Context) *queryMetricsObserver {
	return &queryMetricsObserver{
		j:   j,
		ctx: ctx,
	}
}

// startPurgeMetrics creates a new metrics observer for purge operations.
func (j *Journal) startPurgeMetrics(ctx context.Context) *purgeMetricsObserver {
	return &purgeMetricsObserver{
		j:   j,
		ctx: ctx,
	}
}

// recordSuccess records all metrics for a successful record operation.
func (rmo *recordMetricsObserver) recordSuccess(recordCount int, duration time.Duration) {
	rmo.j.recordDurationMetricsContext(rmo.ctx, metricRecordDuration, duration, operationRecord, statusSuccess)
	rmo.j.recordValueMetricsContext(rmo.ctx, metricDeliveriesRecorded, float64(recordCount), operationRecord, statusSuccess)
}

// recordError records all metrics for a failed record operation.
func (rmo *recordMetricsObserver) recordError(errorType string, duration time.Duration) {
	rmo.j.recordDurationMetricsContext(rmo.ctx, metricRecordDuration, duration, operationRecord, statusError)
	rmo.j.recordErrorMetricsContext(rmo.ctx, operationRecord, errorType)
}

// recordSuccess records all metrics for a successful query operation.
func (qmo *queryMetricsObserver) recordSuccess(deliveries notifyhub.DeliveryRecords, duration time.Duration) {
	qmo.j.recordDurationMetricsContext(qmo.ctx, metricQueryDuration, duration, operationQuery, statusSuccess)

	recordCount := float64(0)
	if deliveries != nil {
		recordCount = float64(len(deliveries))
	}

	qmo.j.recordValueMetricsContext(qmo.ctx, metricDeliveriesQueried, recordCount, operationQuery, statusSuccess)
}

// recordError records all metrics for a failed query operation.
func (qmo *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	qmo.j.recordDurationMetricsContext(qmo.ctx, metricQueryDuration, duration, operationQuery, statusError)
	qmo.j.recordErrorMetricsContext(qmo.ctx, operationQuery, errorType)
}

// recordSuccess records all metrics for a successful purge operation.
func (pmo *purgeMetricsObserver) recordSuccess(purgedCount int64, duration time.Duration) {
	pmo.j.recordDurationMetricsContext(pmo.ctx, metricPurgeDuration, duration, operationPurge, statusSuccess)
	pmo.j.recordValueMetricsContext(pmo.ctx, metricDeliveriesPurged, float64(purgedCount), operationPurge, statusSuccess)
}

// recordError records all metrics for a failed purge operation.
func (pmo *purgeMetricsObserver) recordError(errorType string, duration time.Duration) {
	pmo.j.recordDurationMetricsContext(pmo.ctx, metricPurgeDuration, duration, operationPurge, statusError)
	pmo.j.recordErrorMetricsContext(pmo.ctx, operationPurge, errorType)
}
