package postgresjournal

import (
	"github.com/mdNoman21/notifyhub-go/notifyhub/postgresjournal/internal/adapters"
)

// NewJournalWithAdapter exposes the internal constructor so package tests can
// wire a scripted database adapter without a live PostgreSQL instance.
func NewJournalWithAdapter(db adapters.DBAdapter, options ...Option) (*Journal, error) {
	return newJournal(db, options...)
}
