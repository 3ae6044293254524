// Package fixtures contains minimal test events for Registry and journal testing.
//
// This package provides a small set of domain events from a market data and
// sensor telemetry domain that are used for testing NotifyHub functionality.
// These events follow proper domain-driven design patterns with meaningful
// business events like PriceTickReceived and SensorFaultDetected.
//
// The events implement the DomainEvent interface and include serialization
// utilities (NotificationFrom, DomainEventFrom) needed for Registry testing,
// plus arrangement helpers (GivenUniqueID, ToNotification) for test setup.
//
// This is testing infrastructure - not production domain code.
package fixtures
