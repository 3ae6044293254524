package postgresjournal_test

import (
	"context"
	"time"

	"github.com/mdNoman21/notifyhub-go/notifyhub"
	"github.com/mdNoman21/notifyhub-go/notifyhub/postgresjournal/internal/adapters"
)

// fakeDBResult is a scripted adapters.DBResult.
type fakeDBResult struct {
	rowsAffected    int64
	rowsAffectedErr error
}

func (r fakeDBResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.rowsAffectedErr
}

// fakeDeliveryRow mirrors the column layout the journal scans per result row.
type fakeDeliveryRow struct {
	roundID        string
	position       int
	subscriptionID string
	eventType      string
	occurredAt     time.Time
	payload        string
	metadata       string
	outcome        string
	failureReason  string
	deliveryMicros int64
	recordedAt     time.Time
}

func fakeRowFromRecord(record notifyhub.DeliveryRecord) fakeDeliveryRow {
	return fakeDeliveryRow{
		roundID:        record.RoundID.String(),
		position:       record.Position,
		subscriptionID: record.SubscriptionID.String(),
		eventType:      record.EventType,
		occurredAt:     record.OccurredAt,
		payload:        string(record.PayloadJSON),
		metadata:       string(record.MetadataJSON),
		outcome:        string(record.Outcome),
		failureReason:  record.FailureReason,
		deliveryMicros: record.DeliveryDuration.Microseconds(),
		recordedAt:     record.RecordedAt,
	}
}

// fakeDBRows replays scripted rows through the adapters.DBRows interface.
type fakeDBRows struct {
	rows    []fakeDeliveryRow
	idx     int
	scanErr error
	closed  bool
}

func (r *fakeDBRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}

	r.idx++

	return true
}

func (r *fakeDBRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}

	row := r.rows[r.idx-1]
	*(dest[0].(*string)) = row.roundID
	*(dest[1].(*int)) = row.position
	*(dest[2].(*string)) = row.subscriptionID
	*(dest[3].(*string)) = row.eventType
	*(dest[4].(*time.Time)) = row.occurredAt
	*(dest[5].(*[]byte)) = []byte(row.payload)
	*(dest[6].(*[]byte)) = []byte(row.metadata)
	*(dest[7].(*string)) = row.outcome
	*(dest[8].(*string)) = row.failureReason
	*(dest[9].(*int64)) = row.deliveryMicros
	*(dest[10].(*time.Time)) = row.recordedAt

	return nil
}

func (r *fakeDBRows) Close() error {
	r.closed = true
	return nil
}

// fakeDBAdapter is a scripted adapters.DBAdapter that captures the SQL and the
// contexts the journal hands to the database layer.
type fakeDBAdapter struct {
	execSQL  []string
	querySQL []string
	queryCtx context.Context

	execResult fakeDBResult
	execErr    error
	queryRows  *fakeDBRows
	queryErr   error
}

func newFakeDBAdapter() *fakeDBAdapter {
	return &fakeDBAdapter{
		queryRows: &fakeDBRows{},
	}
}

func (f *fakeDBAdapter) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.execSQL = append(f.execSQL, query)

	if f.execErr != nil {
		return nil, f.execErr
	}

	return f.execResult, nil
}

func (f *fakeDBAdapter) Query(ctx context.Context, query string) (adapters.DBRows, error) {
	f.querySQL = append(f.querySQL, query)
	f.queryCtx = ctx

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return f.queryRows, nil
}

func (f *fakeDBAdapter) lastExecSQL() string {
	if len(f.execSQL) == 0 {
		return ""
	}

	return f.execSQL[len(f.execSQL)-1]
}

func (f *fakeDBAdapter) lastQuerySQL() string {
	if len(f.querySQL) == 0 {
		return ""
	}

	return f.querySQL[len(f.querySQL)-1]
}

// Compile-time check that the fake satisfies the adapter interface.
var _ adapters.DBAdapter = (*fakeDBAdapter)(nil)
