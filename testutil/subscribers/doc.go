// Package subscribers provides test doubles for the Registry's collaborators.
//
// This package contains spy implementations of the Subscriber and
// DeliveryRecorder interfaces:
//   - SubscriberSpy: captures received notifications and supports scripted
//     failures and panics for error-path testing
//   - DeliveryLog: records the delivery order across a group of spies
//   - DeliveryRecorderSpy: captures the delivery records of notify rounds
//
// These test doubles enable comprehensive testing of notification dispatch
// ordering, failure handling, and delivery journaling without real
// subscriber or storage implementations.
package subscribers
