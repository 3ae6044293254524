package subscribers

import (
	"context"
	"sync"

	"github.com/mdNoman21/notifyhub-go/notifyhub"
)

// SubscriberSpy is a Subscriber implementation that captures received notifications for testing.
// It supports scripted failures and panics so error paths of the Registry can be exercised
// without real subscriber implementations.
type SubscriberSpy struct {
	name     string
	received []notifyhub.Notification
	mu       sync.Mutex

	failWith      error
	failOnceWith  error
	panicWith     any
	panicOnceWith any

	log *DeliveryLog
}

// NewSubscriberSpy creates a new SubscriberSpy.
// The name identifies the spy in a shared DeliveryLog when one is joined.
func NewSubscriberSpy(name string) *SubscriberSpy {
	return &SubscriberSpy{
		name:     name,
		received: make([]notifyhub.Notification, 0),
	}
}

// FailingWith scripts the spy to reject every delivery with the given error.
func (s *SubscriberSpy) FailingWith(err error) *SubscriberSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err

	return s
}

// FailingOnceWith scripts the spy to reject only the next delivery with the given error.
func (s *SubscriberSpy) FailingOnceWith(err error) *SubscriberSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOnceWith = err

	return s
}

// PanickingWith scripts the spy to panic with the given value on every delivery.
func (s *SubscriberSpy) PanickingWith(v any) *SubscriberSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panicWith = v

	return s
}

// PanickingOnceWith scripts the spy to panic with the given value only on the next delivery.
func (s *SubscriberSpy) PanickingOnceWith(v any) *SubscriberSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panicOnceWith = v

	return s
}

// JoiningLog attaches the spy to a shared DeliveryLog which records the
// delivery order across all joined spies.
func (s *SubscriberSpy) JoiningLog(log *DeliveryLog) *SubscriberSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log

	return s
}

// Receive implements the Subscriber interface.
// The notification is captured before any scripted failure or panic fires,
// so tests can assert what a failing subscriber saw.
func (s *SubscriberSpy) Receive(_ context.Context, notification notifyhub.Notification) error {
	s.mu.Lock()
	s.received = append(s.received, notification)
	log := s.log

	panicValue := s.panicWith
	if s.panicOnceWith != nil {
		panicValue = s.panicOnceWith
		s.panicOnceWith = nil
	}

	failure := s.failWith
	if s.failOnceWith != nil {
		failure = s.failOnceWith
		s.failOnceWith = nil
	}
	s.mu.Unlock()

	if log != nil {
		log.append(s.name)
	}

	if panicValue != nil {
		panic(panicValue)
	}

	return failure
}

// Name returns the identifier of this spy.
func (s *SubscriberSpy) Name() string {
	return s.name
}

// ReceivedCount returns the number of captured notifications.
func (s *SubscriberSpy) ReceivedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.received)
}

// ReceivedNotifications returns a copy of all captured notifications in delivery order.
func (s *SubscriberSpy) ReceivedNotifications() []notifyhub.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := make([]notifyhub.Notification, len(s.received))
	copy(notifications, s.received)

	return notifications
}

// ReceivedEventTypes returns the event types of all captured notifications in delivery order.
func (s *SubscriberSpy) ReceivedEventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	eventTypes := make([]string, 0, len(s.received))
	for _, notification := range s.received {
		eventTypes = append(eventTypes, notification.EventType)
	}

	return eventTypes
}

// LastReceived returns the most recently captured notification,
// reporting false when nothing was received yet.
func (s *SubscriberSpy) LastReceived() (notifyhub.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.received) == 0 {
		return notifyhub.Notification{}, false
	}

	return s.received[len(s.received)-1], true
}

// Reset clears all captured notifications and scripted behavior.
func (s *SubscriberSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.received = s.received[:0]
	s.failWith = nil
	s.failOnceWith = nil
	s.panicWith = nil
	s.panicOnceWith = nil
}

// Compile-time check to ensure SubscriberSpy implements the Subscriber interface.
var _ notifyhub.Subscriber = (*SubscriberSpy)(nil)
