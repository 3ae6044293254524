package fixtures

import (
	"time"

	"github.com/google/uuid"
)

// SensorReadingCapturedEventType is the event type identifier.
const SensorReadingCapturedEventType = "SensorReadingCaptured"

// SensorReadingCaptured represents when a telemetry sensor captures a measurement.
type SensorReadingCaptured struct {
	EventType  EventTypeString
	SensorID   SensorIDString
	Unit       string
	Reading    string
	OccurredAt OccurredAtTS
}

// BuildSensorReadingCaptured creates a new SensorReadingCaptured event.
func BuildSensorReadingCaptured(
	sensorID uuid.UUID,
	unit string,
	reading string,
	occurredAt time.Time,
) SensorReadingCaptured {

	event := SensorReadingCaptured{
		EventType:  SensorReadingCapturedEventType,
		SensorID:   sensorID.String(),
		Unit:       unit,
		Reading:    reading,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e SensorReadingCaptured) IsEventType() string {
	return SensorReadingCapturedEventType
}

// HasOccurredAt returns when this event occurred.
func (e SensorReadingCaptured) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e SensorReadingCaptured) IsErrorEvent() bool {
	return false
}
