package fixtures

import (
	"time"

	"github.com/google/uuid"
)

// ThresholdBreachedEventType is the event type identifier.
const ThresholdBreachedEventType = "ThresholdBreached"

// ThresholdBreached represents when an observed price crosses a configured alert threshold.
type ThresholdBreached struct {
	EventType     EventTypeString
	InstrumentID  InstrumentIDString
	Direction     string
	Limit         string
	ObservedPrice string
	OccurredAt    OccurredAtTS
}

// BuildThresholdBreached creates a new ThresholdBreached event.
func BuildThresholdBreached(
	instrumentID uuid.UUID,
	direction string,
	limit string,
	observedPrice string,
	occurredAt time.Time,
) ThresholdBreached {

	event := ThresholdBreached{
		EventType:     ThresholdBreachedEventType,
		InstrumentID:  instrumentID.String(),
		Direction:     direction,
		Limit:         limit,
		ObservedPrice: observedPrice,
		OccurredAt:    ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ThresholdBreached) IsEventType() string {
	return ThresholdBreachedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ThresholdBreached) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a regular business alert.
func (e ThresholdBreached) IsErrorEvent() bool {
	return false
}
