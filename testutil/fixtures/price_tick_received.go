package fixtures

import (
	"time"

	"github.com/google/uuid"
)

// PriceTickReceivedEventType is the event type identifier.
const PriceTickReceivedEventType = "PriceTickReceived"

// PriceTickReceived represents when a price tick for a market instrument arrives from a trading venue.
type PriceTickReceived struct {
	EventType    EventTypeString
	InstrumentID InstrumentIDString
	Venue        string
	Price        string
	Currency     string
	OccurredAt   OccurredAtTS
}

// BuildPriceTickReceived creates a new PriceTickReceived event.
func BuildPriceTickReceived(
	instrumentID uuid.UUID,
	venue string,
	price string,
	currency string,
	occurredAt time.Time,
) PriceTickReceived {

	event := PriceTickReceived{
		EventType:    PriceTickReceivedEventType,
		InstrumentID: instrumentID.String(),
		Venue:        venue,
		Price:        price,
		Currency:     currency,
		OccurredAt:   ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e PriceTickReceived) IsEventType() string {
	return PriceTickReceivedEventType
}

// HasOccurredAt returns when this event occurred.
func (e PriceTickReceived) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e PriceTickReceived) IsErrorEvent() bool {
	return false
}
