// Package adapters provides database adapter implementations for the PostgreSQL delivery journal.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, allowing the journal to work seamlessly with any
// supported database connection type.
//
// The PGX adapter additionally supports an optional read replica: queries carrying an
// eventual consistency preference in their context are routed to the replica, while
// writes always go to the primary.
package adapters
