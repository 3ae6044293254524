package notifyhub

import (
	"context"

	"github.com/google/uuid"
)

// SubscriptionID is the opaque identity token issued by a Registry at registration time.
// Removal is keyed by this token, so two registrations of the same Subscriber
// are independently removable.
type SubscriptionID = uuid.UUID

// Subscriber is the receive capability held by a Registry.
//
// Receive is invoked synchronously during a notify round with the caller's
// context. Returning an error marks the delivery as failed; it does not
// remove the subscription.
type Subscriber interface {
	Receive(ctx context.Context, notification Notification) error
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(ctx context.Context, notification Notification) error

// Receive implements the Subscriber interface.
func (f SubscriberFunc) Receive(ctx context.Context, notification Notification) error {
	return f(ctx, notification)
}

// Subscription is the handle returned by Registry.Register.
//
// The zero value is inert: Cancel on it is a no-op and ID returns the nil UUID.
type Subscription struct {
	id         SubscriptionID
	eventTypes []string
	registry   *Registry
}

// ID returns the identity token of this subscription.
func (s Subscription) ID() SubscriptionID {
	return s.id
}

// EventTypes returns the event type whitelist of this subscription,
// nil when the subscription receives every notification.
func (s Subscription) EventTypes() []string {
	return s.eventTypes
}

// Cancel removes this subscription from its registry.
// Canceling an already removed subscription is a no-op.
func (s Subscription) Cancel() {
	if s.registry == nil {
		return
	}

	s.registry.Remove(s.id)
}
