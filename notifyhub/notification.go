package notifyhub

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrEmptyEventType = errors.New("event type must not be empty")
var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

// Notifications is an alias type for a slice of Notification
type Notifications = []Notification

// Notification is a DTO (data transfer object) broadcast by the Registry to its subscribers.
//
// It is built on scalars to be completely agnostic of the implementation of domain events in the client code.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildNotification
//   - BuildNotificationWithEmptyMetadata
type Notification struct {
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildNotification is a factory method for Notification.
//
// It populates the Notification with the given scalar input.
// Returns an error if eventType is empty or payloadJSON or metadataJSON are not valid JSON.
func BuildNotification(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (Notification, error) {
	if eventType == "" {
		return Notification{}, ErrEmptyEventType
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return Notification{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(metadataJSON) {
		return Notification{}, ErrInvalidMetadataJSON
	}

	return Notification{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildNotificationWithEmptyMetadata is a factory method for Notification.
//
// It populates the Notification with the given scalar input and creates valid empty JSON for MetadataJSON.
// Returns an error if eventType is empty or payloadJSON is not valid JSON.
func BuildNotificationWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (Notification, error) {
	return BuildNotification(eventType, occurredAt, payloadJSON, []byte("{}"))
}
