package fixtures

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/mdNoman21/notifyhub-go/notifyhub"
)

var (
	// ErrMappingToNotificationFailed is returned when domain event serialization fails.
	ErrMappingToNotificationFailed = errors.New("mapping to notification failed for domain event")

	// ErrMappingToNotificationFailedForMetadata is returned when metadata serialization fails.
	ErrMappingToNotificationFailedForMetadata = errors.New("mapping to notification failed for metadata")

	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// NotificationFrom converts a DomainEvent and EventMetadata to a Notification.
func NotificationFrom(event DomainEvent, metadata notifyhub.EventMetadata) (notifyhub.Notification, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return notifyhub.Notification{}, errors.Join(ErrMappingToNotificationFailed, err)
	}

	metadataJSON, err := metadata.ToJSON()
	if err != nil {
		return notifyhub.Notification{}, errors.Join(ErrMappingToNotificationFailedForMetadata, err)
	}

	notification, err := notifyhub.BuildNotification(
		event.IsEventType(),
		event.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)

	if err != nil {
		return notifyhub.Notification{}, errors.Join(ErrMappingToNotificationFailed, err)
	}

	return notification, nil
}

// NotificationWithEmptyMetadataFrom converts a DomainEvent to a Notification with empty metadata.
func NotificationWithEmptyMetadataFrom(event DomainEvent) (notifyhub.Notification, error) {
	payloadJSON, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return notifyhub.Notification{}, errors.Join(ErrMappingToNotificationFailed, err)
	}

	notification, err := notifyhub.BuildNotificationWithEmptyMetadata(
		event.IsEventType(),
		event.HasOccurredAt(),
		payloadJSON,
	)

	if err != nil {
		return notifyhub.Notification{}, errors.Join(ErrMappingToNotificationFailed, err)
	}

	return notification, nil
}

// DomainEventsFrom converts multiple Notifications to DomainEvents.
func DomainEventsFrom(notifications notifyhub.Notifications) (DomainEvents, error) {
	domainEvents := make(DomainEvents, 0, len(notifications))

	for _, notification := range notifications {
		domainEvent, err := DomainEventFrom(notification)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a Notification back to its corresponding DomainEvent.
func DomainEventFrom(notification notifyhub.Notification) (DomainEvent, error) {
	switch notification.EventType {
	case PriceTickReceivedEventType:
		return unmarshalPriceTickReceived(notification.PayloadJSON)

	case ThresholdBreachedEventType:
		return unmarshalThresholdBreached(notification.PayloadJSON)

	case SensorReadingCapturedEventType:
		return unmarshalSensorReadingCaptured(notification.PayloadJSON)

	case SensorFaultDetectedEventType:
		return unmarshalSensorFaultDetected(notification.PayloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}
}

func unmarshalPriceTickReceived(payloadJSON []byte) (DomainEvent, error) {
	var event PriceTickReceived

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event)
	if err != nil {
		return PriceTickReceived{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

func unmarshalThresholdBreached(payloadJSON []byte) (DomainEvent, error) {
	var event ThresholdBreached

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event)
	if err != nil {
		return ThresholdBreached{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

func unmarshalSensorReadingCaptured(payloadJSON []byte) (DomainEvent, error) {
	var event SensorReadingCaptured

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event)
	if err != nil {
		return SensorReadingCaptured{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

func unmarshalSensorFaultDetected(payloadJSON []byte) (DomainEvent, error) {
	var event SensorFaultDetected

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event)
	if err != nil {
		return SensorFaultDetected{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
