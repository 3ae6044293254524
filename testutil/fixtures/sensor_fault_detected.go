package fixtures

import (
	"time"

	"github.com/google/uuid"
)

// SensorFaultDetectedEventType is the event type identifier.
const SensorFaultDetectedEventType = "SensorFaultDetected"

// SensorFaultDetected represents when a telemetry sensor reports a malfunction.
type SensorFaultDetected struct {
	EventType  EventTypeString
	SensorID   SensorIDString
	FaultCode  string
	FaultInfo  string
	OccurredAt OccurredAtTS
}

// BuildSensorFaultDetected creates a new SensorFaultDetected event.
func BuildSensorFaultDetected(
	sensorID uuid.UUID,
	faultCode string,
	faultInfo string,
	occurredAt time.Time,
) SensorFaultDetected {

	event := SensorFaultDetected{
		EventType:  SensorFaultDetectedEventType,
		SensorID:   sensorID.String(),
		FaultCode:  faultCode,
		FaultInfo:  faultInfo,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e SensorFaultDetected) IsEventType() string {
	return SensorFaultDetectedEventType
}

// HasOccurredAt returns when this event occurred.
func (e SensorFaultDetected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failure condition.
func (e SensorFaultDetected) IsErrorEvent() bool {
	return true
}
