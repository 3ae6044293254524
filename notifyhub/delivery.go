package notifyhub

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrEmptyRoundID is returned when a delivery record carries no round ID.
	ErrEmptyRoundID = errors.New("round id must not be empty")

	// ErrEmptySubscriptionID is returned when a delivery record carries no subscription ID.
	ErrEmptySubscriptionID = errors.New("subscription id must not be empty")

	// ErrUnknownDeliveryOutcome is returned when a delivery record carries an outcome
	// other than delivered, failed, or skipped.
	ErrUnknownDeliveryOutcome = errors.New("unknown delivery outcome")

	// ErrNoDeliveryRecords is returned when a recorder receives an empty record slice.
	ErrNoDeliveryRecords = errors.New("no delivery records supplied")
)

// RoundID identifies one notify round; every delivery record of the round shares it.
type RoundID = uuid.UUID

// DeliveryOutcome classifies the result of one delivery attempt within a notify round.
type DeliveryOutcome string

const (
	// OutcomeDelivered marks a delivery the subscriber accepted without error.
	OutcomeDelivered DeliveryOutcome = "delivered"

	// OutcomeFailed marks a delivery the subscriber rejected with an error or a recovered panic.
	OutcomeFailed DeliveryOutcome = "failed"

	// OutcomeSkipped marks a delivery that was never attempted because a
	// fail-fast round aborted before reaching the subscriber.
	OutcomeSkipped DeliveryOutcome = "skipped"
)

// DeliveryRecords is an alias type for a slice of DeliveryRecord
type DeliveryRecords = []DeliveryRecord

// DeliveryRecord is the per-subscriber result of one notify round.
//
// Like Notification it is built on scalars so journal implementations stay
// agnostic of the client code's domain events. Position is the zero-based
// delivery order within the round, counting only subscriptions the round
// actually addressed (whitelist-excluded subscriptions leave no record).
type DeliveryRecord struct {
	RoundID          RoundID
	Position         int
	SubscriptionID   SubscriptionID
	EventType        string
	OccurredAt       time.Time
	PayloadJSON      []byte
	MetadataJSON     []byte
	Outcome          DeliveryOutcome
	FailureReason    string
	DeliveryDuration time.Duration
	RecordedAt       time.Time
}

// Validate ensures the delivery record has valid data for storage operations.
func (r DeliveryRecord) Validate() error {
	if r.RoundID == uuid.Nil {
		return ErrEmptyRoundID
	}

	if r.SubscriptionID == uuid.Nil {
		return ErrEmptySubscriptionID
	}

	if r.EventType == "" {
		return ErrEmptyEventType
	}

	switch r.Outcome {
	case OutcomeDelivered, OutcomeFailed, OutcomeSkipped:
	default:
		return ErrUnknownDeliveryOutcome
	}

	if !jsoniter.ConfigFastest.Valid(r.PayloadJSON) {
		return ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(r.MetadataJSON) {
		return ErrInvalidMetadataJSON
	}

	return nil
}

// BuildDeliveryRecord creates a new DeliveryRecord with validation.
func BuildDeliveryRecord(
	roundID RoundID,
	position int,
	subscriptionID SubscriptionID,
	notification Notification,
	outcome DeliveryOutcome,
	failureReason string,
	deliveryDuration time.Duration,
) (DeliveryRecord, error) {

	record := DeliveryRecord{
		RoundID:          roundID,
		Position:         position,
		SubscriptionID:   subscriptionID,
		EventType:        notification.EventType,
		OccurredAt:       notification.OccurredAt,
		PayloadJSON:      notification.PayloadJSON,
		MetadataJSON:     notification.MetadataJSON,
		Outcome:          outcome,
		FailureReason:    failureReason,
		DeliveryDuration: deliveryDuration,
		RecordedAt:       time.Now(),
	}

	if err := record.Validate(); err != nil {
		return DeliveryRecord{}, err
	}

	return record, nil
}

// DeliveryRecorder persists the per-subscriber results of notify rounds.
//
// This interface follows the same dependency-free pattern as the observability
// collectors, allowing users to plug in any storage backend by implementing it.
// The Registry hands over the full record slice of a round in one call;
// implementations must not retain the slice beyond the call.
type DeliveryRecorder interface {
	Record(ctx context.Context, records DeliveryRecords) error
}
