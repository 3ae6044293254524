package notifyhub

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Registry owns an ordered sequence of subscriptions and fans notifications
// out to them synchronously, in registration order.
//
// A Registry is safe for concurrent use. Register and Remove that run while
// a notify round is in flight take effect the next round, because NotifyAll
// dispatches against a snapshot of the sequence.
type Registry struct {
	mu            sync.RWMutex
	registrations []registration

	failFast         bool
	panicHandler     PanicHandler
	recorder         DeliveryRecorder
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector

	notifyRounds   uint64
	deliveredTotal uint64
	failedTotal    uint64
}

// registration is the internal per-subscription record.
// eventTypes nil means the subscription receives every notification.
type registration struct {
	id         SubscriptionID
	subscriber Subscriber
	eventTypes map[string]struct{}
}

// wants reports whether this registration should receive the given event type.
func (r registration) wants(eventType string) bool {
	if r.eventTypes == nil {
		return true
	}

	_, ok := r.eventTypes[eventType]

	return ok
}

// Stats is a point-in-time snapshot of registry counters.
type Stats struct {
	ActiveSubscriptions int
	NotifyRounds        uint64
	DeliveredTotal      uint64
	FailedTotal         uint64
}

// NewRegistry creates a new Registry with optional configuration.
func NewRegistry(options ...Option) (*Registry, error) {
	registry := &Registry{}

	for _, option := range options {
		if err := option(registry); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Register appends the subscriber to the end of the subscription sequence and
// returns its Subscription. It never fails and performs no uniqueness check:
// registering the same subscriber again yields a second, independent
// subscription which receives every matching notification once more per round.
//
// A nil subscriber is not registered; the returned zero-value Subscription is inert.
func (r *Registry) Register(subscriber Subscriber, opts ...SubscribeOption) Subscription {
	if subscriber == nil {
		return Subscription{}
	}

	reg := registration{
		id:         uuid.New(),
		subscriber: subscriber,
	}

	for _, opt := range opts {
		opt(&reg)
	}

	r.mu.Lock()
	r.registrations = append(r.registrations, reg)
	r.mu.Unlock()

	return Subscription{
		id:         reg.id,
		eventTypes: eventTypesOf(reg),
		registry:   r,
	}
}

// Remove deletes the subscription with the given token from the sequence,
// preserving the relative order of the remaining subscriptions.
// An unknown token is a silent no-op.
func (r *Registry) Remove(id SubscriptionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.registrations {
		if r.registrations[i].id == id {
			r.registrations = slices.Delete(r.registrations, i, i+1)
			return
		}
	}
}

// Stats returns a snapshot of the registry counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{
		ActiveSubscriptions: len(r.registrations),
		NotifyRounds:        r.notifyRounds,
		DeliveredTotal:      r.deliveredTotal,
		FailedTotal:         r.failedTotal,
	}
}

// snapshotRegistrations copies the current subscription sequence for a notify round.
func (r *Registry) snapshotRegistrations() []registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	targets := make([]registration, len(r.registrations))
	copy(targets, r.registrations)

	return targets
}

// eventTypesOf extracts the sorted whitelist of a registration, nil when unrestricted.
func eventTypesOf(reg registration) []string {
	if reg.eventTypes == nil {
		return nil
	}

	eventTypes := make([]string, 0, len(reg.eventTypes))
	for eventType := range reg.eventTypes {
		eventTypes = append(eventTypes, eventType)
	}
	slices.Sort(eventTypes)

	return eventTypes
}
