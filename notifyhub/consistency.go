package notifyhub

import (
	"context"
)

// ConsistencyLevel defines the consistency requirements for journal query operations.
type ConsistencyLevel int

const (
	// StrongConsistency requires reading from the primary database to ensure immediate visibility of recent deliveries.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reading from replica databases, accepting a small delay for better performance.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "notifyhub.consistency_level"

// WithStrongConsistency returns a context that requests strong consistency for journal queries.
// Queries with this context will read from the primary database.
//
// Use this for audit flows that must observe deliveries recorded moments ago.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that requests eventual consistency for journal queries.
// Queries with this context may read from replica databases for better performance.
//
// Use this for reporting and dashboard queries that tolerate slightly stale data.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// Returns StrongConsistency as the default if no consistency level is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String returns a human-readable representation of the consistency level.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
