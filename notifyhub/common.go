package notifyhub

import (
	"errors"
)

var (
	// ErrNilDeliveryRecorderSupplied is returned when a nil DeliveryRecorder is configured.
	ErrNilDeliveryRecorderSupplied = errors.New("nil delivery recorder supplied")

	// ErrDeliveryFailed marks the error a NotifyAll round returns when one or more
	// subscribers returned an error.
	ErrDeliveryFailed = errors.New("delivery to subscriber failed")

	// ErrSubscriberPanicked marks a delivery failure caused by a recovered subscriber panic.
	ErrSubscriberPanicked = errors.New("subscriber panicked during delivery")

	// ErrNilDatabaseConnection is returned when a journal is constructed with a nil connection.
	ErrNilDatabaseConnection = errors.New("nil database connection supplied")

	// ErrEmptyDeliveriesTableName is returned when an empty deliveries table name is configured.
	ErrEmptyDeliveriesTableName = errors.New("empty deliveriesTableName supplied")

	// ErrRecordingDeliveriesFailed is returned when persisting delivery records fails.
	ErrRecordingDeliveriesFailed = errors.New("recording deliveries failed")

	// ErrQueryingDeliveriesFailed is returned when querying delivery records fails.
	ErrQueryingDeliveriesFailed = errors.New("querying deliveries failed")

	// ErrPurgingDeliveriesFailed is returned when purging delivery records fails.
	ErrPurgingDeliveriesFailed = errors.New("purging deliveries failed")

	// ErrScanningDBRowFailed is returned when scanning a database row fails.
	ErrScanningDBRowFailed = errors.New("scanning database row failed")

	// ErrBuildingQueryFailed is returned when building a SQL query fails.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrGettingRowsAffectedFailed is returned when the rows affected count cannot be read.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected count failed")

	// ErrBuildingDeliveryRecordFailed is returned when a delivery record cannot be rebuilt from a database row.
	ErrBuildingDeliveryRecordFailed = errors.New("building delivery record failed")
)
