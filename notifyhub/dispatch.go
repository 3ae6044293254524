package notifyhub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	logMsgRoundCompleted  = "notify round completed"
	logMsgDeliveryFailed  = "delivery to subscriber failed"
	logMsgRecordingFailed = "failed to record deliveries"
	logMsgDelivered       = "notification delivered to subscriber"
	logMsgOperation       = "registry operation: "

	logAttrError           = "error"
	logAttrEventType       = "event_type"
	logAttrRoundID         = "round_id"
	logAttrSubscriptionID  = "subscription_id"
	logAttrSubscriberCount = "subscriber_count"
	logAttrDeliveredCount  = "delivered_count"
	logAttrFailedCount     = "failed_count"
	logAttrSkippedCount    = "skipped_count"
	logAttrDurationMS      = "duration_ms"

	metricNotifyDuration         = "notifyhub_notify_duration_seconds"
	metricNotificationsDelivered = "notifyhub_notifications_delivered_total"
	metricDeliveryFailures       = "notifyhub_delivery_failures_total"
	metricSubscriberPanics       = "notifyhub_subscriber_panics_total"
	metricRecorderErrors         = "notifyhub_recorder_errors_total"

	spanNameNotify          = "notifyhub.notify"
	spanAttrOperation       = "operation"
	spanAttrEventType       = "event_type"
	spanAttrRoundID         = "round_id"
	spanAttrSubscriberCount = "subscriber_count"
	spanAttrDeliveredCount  = "delivered_count"
	spanAttrDurationMS      = "duration_ms"
	spanAttrErrorType       = "error_type"

	operationNotify = "notify"
	statusSuccess   = "success"
	statusError     = "error"

	errorTypeDelivery = "delivery_failed"
	errorTypePanic    = "subscriber_panic"
	errorTypeRecorder = "recorder_failed"
	failureTypePanic  = "panic"
)

type (
	deliveredCountInt = int
	failedCountInt    = int
	skippedCountInt   = int
)

// NotifyAll broadcasts the notification to every active subscription in
// registration order and returns nil once every delivery succeeded.
//
// Dispatch is synchronous and sequential against a snapshot of the
// subscription sequence taken when the round starts: subscriptions added or
// removed while the round runs take effect the next round. Each addressed
// subscription is invoked exactly once per round.
//
// By default delivery is best-effort: a failing subscriber never prevents the
// subscribers behind it from receiving the round, and all failures are joined
// into the returned error, testable with errors.Is against ErrDeliveryFailed
// and ErrSubscriberPanicked. A registry configured with WithFailFast aborts
// the round at the first failure instead; the remaining deliveries of the
// round are recorded as skipped.
func (r *Registry) NotifyAll(ctx context.Context, notification Notification) error {
	roundID := uuid.New()
	targets := r.snapshotRegistrations()

	tracing, ctx := r.startNotifyTracing(ctx, notification, roundID, len(targets))
	metrics := r.startNotifyMetrics(ctx)

	start := time.Now()
	records, failures := r.deliverToAll(ctx, roundID, targets, notification, metrics)
	duration := time.Since(start)

	delivered, failed, skipped := countOutcomes(records)
	r.updateCounters(delivered, failed)
	r.recordDeliveries(ctx, records, metrics)

	r.logOperationContext(
		ctx,
		logMsgRoundCompleted,
		logAttrRoundID, roundID.String(),
		logAttrEventType, notification.EventType,
		logAttrSubscriberCount, len(targets),
		logAttrDeliveredCount, delivered,
		logAttrFailedCount, failed,
		logAttrSkippedCount, skipped,
		logAttrDurationMS, r.toMilliseconds(duration),
	)

	if len(failures) > 0 {
		metrics.recordError(delivered, duration)
		tracing.finishError(errorTypeFor(failures[0]), duration)

		return errors.Join(failures...)
	}

	metrics.recordSuccess(delivered, duration)
	tracing.finishSuccess(delivered, duration)

	return nil
}

// deliverToAll walks the snapshot in order and returns the per-subscription
// records of the round together with the delivery failures.
func (r *Registry) deliverToAll(
	ctx context.Context,
	roundID RoundID,
	targets []registration,
	notification Notification,
	metrics *notifyMetricsObserver,
) (DeliveryRecords, []error) {

	records := make(DeliveryRecords, 0, len(targets))
	failures := make([]error, 0)
	aborted := false

	for _, target := range targets {
		if !target.wants(notification.EventType) {
			continue
		}

		if aborted {
			records = append(records, r.buildRecord(roundID, len(records), target, notification, OutcomeSkipped, "", 0))
			continue
		}

		deliveryStart := time.Now()
		receiveErr := r.deliverOne(ctx, target, notification)
		deliveryDuration := time.Since(deliveryStart)

		if receiveErr != nil {
			failures = append(failures, receiveErr)
			records = append(records, r.buildRecord(
				roundID, len(records), target, notification, OutcomeFailed, receiveErr.Error(), deliveryDuration))

			r.logErrorContext(
				ctx,
				logMsgDeliveryFailed,
				receiveErr,
				logAttrRoundID, roundID.String(),
				logAttrSubscriptionID, target.id.String(),
				logAttrEventType, notification.EventType)

			metrics.recordDeliveryFailure(errorTypeFor(receiveErr))

			if r.failFast {
				aborted = true
			}

			continue
		}

		records = append(records, r.buildRecord(
			roundID, len(records), target, notification, OutcomeDelivered, "", deliveryDuration))

		r.logDeliveryWithDurationContext(ctx, target.id, notification.EventType, deliveryDuration)
	}

	return records, failures
}

// deliverOne invokes a single subscriber, converting an error return or a
// recovered panic into a sentinel-tagged delivery failure.
func (r *Registry) deliverOne(
	ctx context.Context,
	target registration,
	notification Notification,
) (receiveErr error) {

	defer func() {
		if recovered := recover(); recovered != nil {
			receiveErr = errors.Join(ErrSubscriberPanicked, fmt.Errorf("%v", recovered))

			if r.panicHandler != nil {
				r.panicHandler(target.id, notification.EventType, recovered)
			}
		}
	}()

	if err := target.subscriber.Receive(ctx, notification); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	return nil
}

// buildRecord assembles the delivery record for one subscription of the round.
// The notification was validated on construction, so no re-validation happens here.
func (r *Registry) buildRecord(
	roundID RoundID,
	position int,
	target registration,
	notification Notification,
	outcome DeliveryOutcome,
	failureReason string,
	deliveryDuration time.Duration,
) DeliveryRecord {

	return DeliveryRecord{
		RoundID:          roundID,
		Position:         position,
		SubscriptionID:   target.id,
		EventType:        notification.EventType,
		OccurredAt:       notification.OccurredAt,
		PayloadJSON:      notification.PayloadJSON,
		MetadataJSON:     notification.MetadataJSON,
		Outcome:          outcome,
		FailureReason:    failureReason,
		DeliveryDuration: deliveryDuration,
		RecordedAt:       time.Now(),
	}
}

// recordDeliveries hands the round's records to the configured recorder.
// A recorder failure is logged and counted but never fails the notify round.
func (r *Registry) recordDeliveries(ctx context.Context, records DeliveryRecords, metrics *notifyMetricsObserver) {
	if r.recorder == nil || len(records) == 0 {
		return
	}

	if recordErr := r.recorder.Record(ctx, records); recordErr != nil {
		r.logWarnContext(ctx, logMsgRecordingFailed, recordErr)
		metrics.recordRecorderFailure()
	}
}

// updateCounters folds the round's results into the registry counters.
func (r *Registry) updateCounters(delivered, failed int) {
	r.mu.Lock()
	r.notifyRounds++
	r.deliveredTotal += uint64(delivered)
	r.failedTotal += uint64(failed)
	r.mu.Unlock()
}

func countOutcomes(records DeliveryRecords) (deliveredCountInt, failedCountInt, skippedCountInt) {
	var delivered, failed, skipped int

	for _, record := range records {
		switch record.Outcome {
		case OutcomeDelivered:
			delivered++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}

	return delivered, failed, skipped
}

func errorTypeFor(err error) string {
	if errors.Is(err, ErrSubscriberPanicked) {
		return errorTypePanic
	}

	return errorTypeDelivery
}
