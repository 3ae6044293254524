package subscribers

import (
	"sync"
)

// DeliveryLog records the order in which a group of joined spies received
// notifications, enabling assertions on cross-subscriber delivery order.
type DeliveryLog struct {
	entries []string
	mu      sync.Mutex
}

// NewDeliveryLog creates a new DeliveryLog.
func NewDeliveryLog() *DeliveryLog {
	return &DeliveryLog{
		entries: make([]string, 0),
	}
}

// append adds one spy name to the log; called by joined spies on every delivery.
func (l *DeliveryLog) append(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, name)
}

// Entries returns a copy of the recorded spy names in delivery order.
func (l *DeliveryLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]string, len(l.entries))
	copy(entries, l.entries)

	return entries
}

// Reset clears the recorded delivery order.
func (l *DeliveryLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = l.entries[:0]
}
