package subscribers

import (
	"context"
	"sync"

	"github.com/mdNoman21/notifyhub-go/notifyhub"
)

// DeliveryRecorderSpy is a DeliveryRecorder implementation that captures the
// delivery records handed over by the Registry after each notify round.
type DeliveryRecorderSpy struct {
	calls    []notifyhub.DeliveryRecords
	mu       sync.Mutex
	failWith error
}

// NewDeliveryRecorderSpy creates a new DeliveryRecorderSpy.
func NewDeliveryRecorderSpy() *DeliveryRecorderSpy {
	return &DeliveryRecorderSpy{
		calls: make([]notifyhub.DeliveryRecords, 0),
	}
}

// FailingWith scripts the spy to reject every Record call with the given error.
func (s *DeliveryRecorderSpy) FailingWith(err error) *DeliveryRecorderSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err

	return s
}

// Record implements the DeliveryRecorder interface.
// The records are copied so later rounds cannot alias captured data.
func (s *DeliveryRecorderSpy) Record(_ context.Context, records notifyhub.DeliveryRecords) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordsCopy := make(notifyhub.DeliveryRecords, len(records))
	copy(recordsCopy, records)
	s.calls = append(s.calls, recordsCopy)

	return s.failWith
}

// RecordCallCount returns the number of Record calls the spy has received.
func (s *DeliveryRecorderSpy) RecordCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.calls)
}

// RecordedRounds returns a copy of the record slices in call order, one per notify round.
func (s *DeliveryRecorderSpy) RecordedRounds() []notifyhub.DeliveryRecords {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]notifyhub.DeliveryRecords, len(s.calls))
	copy(calls, s.calls)

	return calls
}

// LastRecordedRound returns the records of the most recent Record call,
// reporting false when nothing was recorded yet.
func (s *DeliveryRecorderSpy) LastRecordedRound() (notifyhub.DeliveryRecords, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) == 0 {
		return nil, false
	}

	return s.calls[len(s.calls)-1], true
}

// Reset clears all captured calls and scripted behavior.
func (s *DeliveryRecorderSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = s.calls[:0]
	s.failWith = nil
}

// Compile-time check to ensure DeliveryRecorderSpy implements the DeliveryRecorder interface.
var _ notifyhub.DeliveryRecorder = (*DeliveryRecorderSpy)(nil)
