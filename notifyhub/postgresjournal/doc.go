// Package postgresjournal provides a PostgreSQL implementation of the notifyhub.DeliveryRecorder interface.
//
// This package persists the delivery records emitted by a notifyhub.Registry,
// supporting multiple database adapters (pgx, sql.DB, sqlx) with optional
// read replica routing for queries and retention purges.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Atomic multi-row inserts for whole notify rounds
//   - Delivery filtering by event type, JSON payload predicates, outcome, and time range
//   - Consistency-aware read routing to an optional replica pool
//   - Configurable table names and dual-logger support
//
// The journal expects a deliveries table with this shape:
//
//	CREATE TABLE deliveries (
//		round_id        uuid                     NOT NULL,
//		position        integer                  NOT NULL,
//		subscription_id uuid                     NOT NULL,
//		event_type      text                     NOT NULL,
//		occurred_at     timestamp with time zone NOT NULL,
//		payload         jsonb                    NOT NULL,
//		metadata        jsonb                    NOT NULL,
//		outcome         text                     NOT NULL,
//		failure_reason  text                     NOT NULL DEFAULT '',
//		delivery_micros bigint                   NOT NULL,
//		recorded_at     timestamp with time zone NOT NULL
//	);
//	CREATE INDEX deliveries_recorded_at_idx ON deliveries (recorded_at, position);
//	CREATE INDEX deliveries_event_type_idx ON deliveries (event_type);
//	CREATE INDEX deliveries_payload_idx ON deliveries USING gin (payload);
//
// Usage examples:
//
//	// Basic usage as the registry's recorder
//	db, _ := pgxpool.New(context.Background(), dsn)
//	journal, _ := postgresjournal.NewJournalFromPGXPool(db)
//	registry, _ := notifyhub.NewRegistry(notifyhub.WithDeliveryRecorder(journal))
//
//	// With a custom table and operational logging
//	journal, _ := postgresjournal.NewJournalFromPGXPool(
//		db,
//		postgresjournal.WithTableName("audit_deliveries"),
//		postgresjournal.WithLogger(logger),
//	)
//
//	// Query failed deliveries for one event type
//	filter := notifyhub.BuildDeliveryFilter().
//		Matching().
//		AnyEventTypeOf("PriceTickReceived").
//		AnyOutcomeOf(notifyhub.OutcomeFailed).
//		Finalize()
//	failed, _ := journal.Query(ctx, filter)
//
//	// Drop records older than 30 days
//	purged, _ := journal.Purge(ctx, time.Now().AddDate(0, 0, -30))
package postgresjournal
