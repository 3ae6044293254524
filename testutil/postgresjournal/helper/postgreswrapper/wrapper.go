package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/mdNoman21/notifyhub-go/notifyhub/postgresjournal"
	"github.com/mdNoman21/notifyhub-go/testutil/postgresjournal/config"
)

// Adapter type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// Wrapper interface to abstract over different adapter types
type Wrapper interface {
	GetJournal() *postgresjournal.Journal
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool    *pgxpool.Pool
	journal *postgresjournal.Journal
}

func (w *PGXPoolWrapper) GetJournal() *postgresjournal.Journal {
	return w.journal
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db      *sql.DB
	journal *postgresjournal.Journal
}

func (w *SQLDBWrapper) GetJournal() *postgresjournal.Journal {
	return w.journal
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db      *sqlx.DB
	journal *postgresjournal.Journal
}

func (w *SQLXWrapper) GetJournal() *postgresjournal.Journal {
	return w.journal
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SkipUnlessIntegration skips the test unless INTEGRATION_TESTS is set,
// so the suite passes on machines without a provisioned Postgres.
func SkipUnlessIntegration(t testing.TB) {
	t.Helper()

	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS to run tests against a live Postgres")
	}
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the ADAPTER_TYPE environment variable
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresjournal.Option) Wrapper {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolSingleConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")

		journal, err := postgresjournal.NewJournalFromPGXPool(connPool, options...)
		assert.NoError(t, err, "error creating journal")

		return &PGXPoolWrapper{pool: connPool, journal: journal}

	case typeSQLDB:
		db := config.PostgresSQLDBSingleConfig()

		journal, err := postgresjournal.NewJournalFromSQLDB(db, options...)
		assert.NoError(t, err, "error creating journal")

		return &SQLDBWrapper{db: db, journal: journal}

	case typeSQLXDB:
		db := config.PostgresSQLXSingleConfig()

		journal, err := postgresjournal.NewJournalFromSQLX(db, options...)
		assert.NoError(t, err, "error creating journal")

		return &SQLXWrapper{db: db, journal: journal}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// CreateReplicaWrapperWithTestConfig connects to the primary and replica nodes
// of the replicated test database. Only the pgx adapter supports a replica.
func CreateReplicaWrapperWithTestConfig(t testing.TB, options ...postgresjournal.Option) Wrapper {
	primary, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolPrimaryConfig())
	assert.NoError(t, err, "error connecting to primary DB pool in test setup")

	replica, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolReplicaConfig())
	assert.NoError(t, err, "error connecting to replica DB pool in test setup")

	journal, err := postgresjournal.NewJournalFromPGXPoolAndReplica(primary, replica, options...)
	assert.NoError(t, err, "error creating journal")

	return &replicaWrapper{primary: primary, replica: replica, journal: journal}
}

type replicaWrapper struct {
	primary *pgxpool.Pool
	replica *pgxpool.Pool
	journal *postgresjournal.Journal
}

func (w *replicaWrapper) GetJournal() *postgresjournal.Journal {
	return w.journal
}

func (w *replicaWrapper) Close() {
	w.primary.Close()
	w.replica.Close()
}
