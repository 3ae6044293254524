package fixtures

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	. "github.com/mdNoman21/notifyhub-go/notifyhub"
)

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

func GivenEventMetadata(t testing.TB) EventMetadata {
	return BuildEventMetadata(GivenUniqueID(t), GivenUniqueID(t), GivenUniqueID(t))
}

func FilterAllEventTypesForOneInstrument(instrumentID uuid.UUID) Filter {
	filter := BuildDeliveryFilter().
		Matching().
		AnyEventTypeOf(
			PriceTickReceivedEventType,
			ThresholdBreachedEventType).
		AndAnyPredicateOf(P("InstrumentID", instrumentID.String())).
		Finalize()

	return filter
}

func FilterAllEventTypesForOneSensor(sensorID uuid.UUID) Filter {
	filter := BuildDeliveryFilter().
		Matching().
		AnyEventTypeOf(
			SensorReadingCapturedEventType,
			SensorFaultDetectedEventType).
		AndAnyPredicateOf(P("SensorID", sensorID.String())).
		Finalize()

	return filter
}

func FixturePriceTickReceived(instrumentID uuid.UUID, fakeClock time.Time) DomainEvent {
	return BuildPriceTickReceived(instrumentID, "XETR", "182.45", "EUR", fakeClock)
}

func FixtureThresholdBreached(instrumentID uuid.UUID, fakeClock time.Time) DomainEvent {
	return BuildThresholdBreached(instrumentID, "above", "180.00", "182.45", fakeClock)
}

func FixtureSensorReadingCaptured(sensorID uuid.UUID, fakeClock time.Time) DomainEvent {
	return BuildSensorReadingCaptured(sensorID, "celsius", "21.50", fakeClock)
}

func FixtureSensorFaultDetected(sensorID uuid.UUID, fakeClock time.Time) DomainEvent {
	return BuildSensorFaultDetected(sensorID, "E42", "supply voltage out of range", fakeClock)
}

func ToNotification(t testing.TB, domainEvent DomainEvent) Notification {
	notification, err := NotificationWithEmptyMetadataFrom(domainEvent)
	assert.NoError(t, err, "error in arranging test data")

	return notification
}

func ToNotificationWithMetadata(t testing.TB, domainEvent DomainEvent, eventMetadata EventMetadata) Notification {
	notification, err := NotificationFrom(domainEvent, eventMetadata)
	assert.NoError(t, err, "error in arranging test data")

	return notification
}

func ToDeliveryRecord(
	t testing.TB,
	roundID uuid.UUID,
	position int,
	subscriptionID uuid.UUID,
	notification Notification,
	outcome DeliveryOutcome,
) DeliveryRecord {

	failureReason := ""
	if outcome == OutcomeFailed {
		failureReason = "subscriber rejected the notification"
	}

	record, err := BuildDeliveryRecord(roundID, position, subscriptionID, notification, outcome, failureReason, time.Millisecond)
	assert.NoError(t, err, "error in arranging test data")

	return record
}
