package postgresjournal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/mdNoman21/notifyhub-go/notifyhub"
	"github.com/mdNoman21/notifyhub-go/notifyhub/postgresjournal/internal/adapters"
)

const (
	defaultDeliveriesTableName   = "deliveries"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildPurgeQueryFailed  = "failed to build purge query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed during delivery insert"
	logMsgDBPurgeFailed          = "database execution failed during delivery purge"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildRecordFailed      = "failed to build delivery record from database row"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgQueryCompleted         = "query completed"
	logMsgDeliveriesRecorded     = "deliveries recorded"
	logMsgDeliveriesPurged       = "deliveries purged"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "journal operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrEventType             = "event_type"
	logAttrRecordCount           = "record_count"
	logAttrDurationMS            = "duration_ms"
	logAttrPurgedCount           = "purged_count"
	logActionRecord              = "record"
	logActionQuery               = "query"
	logActionPurge               = "purge"
	colRoundID                   = "round_id"
	colPosition                  = "position"
	colSubscriptionID            = "subscription_id"
	colEventType                 = "event_type"
	colOccurredAt                = "occurred_at"
	colPayload                   = "payload"
	colMetadata                  = "metadata"
	colOutcome                   = "outcome"
	colFailureReason             = "failure_reason"
	colDeliveryMicros            = "delivery_micros"
	colRecordedAt                = "recorded_at"
	dialectPostgres              = "postgres"
	castJsonb                    = "?::jsonb"
)

const (
	metricRecordDuration     = "notifyhub_journal_record_duration_seconds"
	metricQueryDuration      = "notifyhub_journal_query_duration_seconds"
	metricPurgeDuration      = "notifyhub_journal_purge_duration_seconds"
	metricDeliveriesRecorded = "notifyhub_journal_deliveries_recorded_total"
	metricDeliveriesQueried  = "notifyhub_journal_deliveries_queried_total"
	metricDeliveriesPurged   = "notifyhub_journal_deliveries_purged_total"
	metricDatabaseErrors     = "notifyhub_journal_database_errors_total"
	spanNameRecord           = "notifyhub.journal.record"
	spanNameQuery            = "notifyhub.journal.query"
	spanNamePurge            = "notifyhub.journal.purge"
	spanAttrOperation        = "operation"
	spanAttrErrorType        = "error_type"
	spanAttrRecordCount      = "record_count"
	spanAttrEventType        = "event_type"
	spanAttrRowsAffected     = "rows_affected"
	spanAttrPurgedCount      = "purged_count"
	spanAttrPurgeUntil       = "purge_until"
	spanAttrDurationMS       = "duration_ms"
	operationRecord          = "record"
	operationQuery           = "query"
	operationPurge           = "purge"
	statusSuccess            = "success"
	statusError              = "error"
	errorTypeBuildQuery      = "build_query"
	errorTypeDatabaseInsert  = "database_insert"
	errorTypeDatabaseQuery   = "database_query"
	errorTypeDatabasePurge   = "database_purge"
	errorTypeScanRow         = "scan_row"
	errorTypeBuildRecord     = "build_record"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	purgedCountInt64  = int64
	queryDuration     = time.Duration
)

// Journal is a PostgreSQL-backed delivery journal. It persists the per-subscriber
// delivery records a notifyhub.Registry emits and supports ordered, filtered
// queries over them as well as retention purges.
//
// Journal implements notifyhub.DeliveryRecorder.
type Journal struct {
	db                  adapters.DBAdapter
	deliveriesTableName string
	logger              Logger
	metricsCollector    MetricsCollector
	tracingCollector    TracingCollector
	contextualLogger    ContextualLogger
}

type queryResultRow struct {
	roundID        string
	position       int
	subscriptionID string
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	outcome        string
	failureReason  string
	deliveryMicros int64
	recordedAt     time.Time
}

// NewJournalFromPGXPool creates a new Journal using a pgx Pool with optional configuration.
func NewJournalFromPGXPool(db *pgxpool.Pool, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, notifyhub.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapter(db), options...)
}

// NewJournalFromPGXPoolAndReplica creates a new Journal using a primary pgx Pool for writes
// and a replica pgx Pool for queries that request eventual consistency.
func NewJournalFromPGXPoolAndReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Journal, error) {
	if primary == nil || replica == nil {
		return nil, notifyhub.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapterWithReplica(primary, replica), options...)
}

// NewJournalFromSQLDB creates a new Journal using a sql.DB with optional configuration.
func NewJournalFromSQLDB(db *sql.DB, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, notifyhub.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), options...)
}

// NewJournalFromSQLX creates a new Journal using a sqlx.DB with optional configuration.
func NewJournalFromSQLX(db *sqlx.DB, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, notifyhub.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLXAdapter(db), options...)
}

func newJournal(db adapters.DBAdapter, options ...Option) (*Journal, error) {
	j := &Journal{
		db:                  db,
		deliveriesTableName: defaultDeliveriesTableName,
	}

	for _, option := range options {
		if err := option(j); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// Record persists the given delivery records in a single atomic insert.
//
// Records are stored exactly as supplied: RecordedAt and Position are taken from the
// records themselves, so a round replayed from a registry keeps its original order.
// Supplying no records is an error, the registry never records empty rounds.
func (j *Journal) Record(ctx context.Context, records notifyhub.DeliveryRecords) error {
	if len(records) == 0 {
		return notifyhub.ErrNoDeliveryRecords
	}

	tracing, ctx := j.startRecordTracing(ctx, records)
	metrics := j.startRecordMetrics(ctx)

	sqlQuery, buildQueryErr := j.buildInsertQuery(records)
	if buildQueryErr != nil {
		j.logErrorContext(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrRecordCount, len(records))
		metrics.recordError(errorTypeBuildQuery, 0)
		tracing.finishError(errorTypeBuildQuery, 0)

		return buildQueryErr
	}

	rowsAffected, duration, execErr := j.executeInsertQuery(ctx, sqlQuery)
	if execErr != nil {
		metrics.recordError(errorTypeDatabaseInsert, duration)
		tracing.finishError(errorTypeDatabaseInsert, duration)

		return execErr
	}

	j.logOperationContext(ctx,
		logMsgDeliveriesRecorded,
		logAttrRecordCount, len(records),
		logAttrDurationMS, j.toMilliseconds(duration),
	)

	metrics.recordSuccess(len(records), duration)
	tracing.finishSuccess(rowsAffected, duration)

	return nil
}

// Query retrieves delivery records matching the provided notifyhub.Filter criteria,
// ordered by the time they were recorded and their position within the round.
//
// Routing honors the consistency level carried in ctx: with a replica configured,
// notifyhub.WithEventualConsistency directs the read to the replica.
func (j *Journal) Query(ctx context.Context, filter notifyhub.Filter) (notifyhub.DeliveryRecords, error) {
	var empty notifyhub.DeliveryRecords

	tracing, ctx := j.startQueryTracing(ctx)
	metrics := j.startQueryMetrics(ctx)

	sqlQuery, buildQueryErr := j.buildSelectQuery(filter)
	if buildQueryErr != nil {
		j.logErrorContext(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		metrics.recordError(errorTypeBuildQuery, 0)
		tracing.finishError(errorTypeBuildQuery, 0)

		return empty, buildQueryErr
	}

	rows, duration, queryErr := j.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		metrics.recordError(errorTypeDatabaseQuery, duration)
		tracing.finishError(errorTypeDatabaseQuery, duration)

		return empty, queryErr
	}
	defer j.closeRows(rows)

	deliveries, scanErr := j.processQueryResults(ctx, rows)
	if scanErr != nil {
		metrics.recordError(j.queryErrorType(scanErr), duration)
		tracing.finishError(j.queryErrorType(scanErr), duration)

		return empty, scanErr
	}

	j.logOperationContext(ctx,
		logMsgQueryCompleted,
		logAttrRecordCount, len(deliveries),
		logAttrDurationMS, j.toMilliseconds(duration),
	)

	metrics.recordSuccess(deliveries, duration)
	tracing.finishSuccess(deliveries, duration)

	return deliveries, nil
}

// Purge deletes all delivery records that were recorded before the given time
// and returns the number of deleted records. Purge always runs on the primary.
func (j *Journal) Purge(ctx context.Context, until time.Time) (int64, error) {
	tracing, ctx := j.startPurgeTracing(ctx, until)
	metrics := j.startPurgeMetrics(ctx)

	sqlQuery, buildQueryErr := j.buildPurgeQuery(until)
	if buildQueryErr != nil {
		j.logErrorContext(ctx, logMsgBuildPurgeQueryFailed, buildQueryErr)
		metrics.recordError(errorTypeBuildQuery, 0)
		tracing.finishError(errorTypeBuildQuery, 0)

		return 0, buildQueryErr
	}

	purgedCount, duration, execErr := j.executePurgeQuery(ctx, sqlQuery)
	if execErr != nil {
		metrics.recordError(errorTypeDatabasePurge, duration)
		tracing.finishError(errorTypeDatabasePurge, duration)

		return 0, execErr
	}

	j.logOperationContext(ctx,
		logMsgDeliveriesPurged,
		logAttrPurgedCount, purgedCount,
		logAttrDurationMS, j.toMilliseconds(duration),
	)

	metrics.recordSuccess(purgedCount, duration)
	tracing.finishSuccess(purgedCount, duration)

	return purgedCount, nil
}

// executeInsertQuery executes the SQL insert query and returns rows affected and duration.
func (j *Journal) executeInsertQuery(ctx context.Context, sqlQuery string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	tag, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDurationContext(ctx, sqlQuery, logActionRecord, duration)

	if execErr != nil {
		j.logErrorContext(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)

		return 0, duration, errors.Join(notifyhub.ErrRecordingDeliveriesFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		j.logErrorContext(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)

		return 0, duration, errors.Join(notifyhub.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// executeQuery executes the SQL select query and returns rows with timing information.
func (j *Journal) executeQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := j.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDurationContext(ctx, sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		j.logErrorContext(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(notifyhub.ErrQueryingDeliveriesFailed, queryErr)
	}

	return rows, duration, nil
}

// executePurgeQuery executes the SQL delete query and returns the purged count and duration.
func (j *Journal) executePurgeQuery(ctx context.Context, sqlQuery string) (
	purgedCountInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	tag, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDurationContext(ctx, sqlQuery, logActionPurge, duration)

	if execErr != nil {
		j.logErrorContext(ctx, logMsgDBPurgeFailed, execErr, logAttrQuery, sqlQuery)

		return 0, duration, errors.Join(notifyhub.ErrPurgingDeliveriesFailed, execErr)
	}

	purgedCount, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		j.logErrorContext(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)

		return 0, duration, errors.Join(notifyhub.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return purgedCount, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (j *Journal) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		j.logWarn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// processQueryResults processes database rows and converts them back to delivery records.
func (j *Journal) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	notifyhub.DeliveryRecords,
	error,
) {

	var empty notifyhub.DeliveryRecords
	result := queryResultRow{}
	deliveries := make(notifyhub.DeliveryRecords, 0)

	for rows.Next() {
		rowScanErr := rows.Scan(
			&result.roundID,
			&result.position,
			&result.subscriptionID,
			&result.eventType,
			&result.occurredAt,
			&result.payload,
			&result.metadata,
			&result.outcome,
			&result.failureReason,
			&result.deliveryMicros,
			&result.recordedAt,
		)
		if rowScanErr != nil {
			j.logErrorContext(ctx, logMsgScanRowFailed, rowScanErr)

			return empty, errors.Join(notifyhub.ErrScanningDBRowFailed, rowScanErr)
		}

		record, buildRecordErr := j.buildDeliveryRecord(result)
		if buildRecordErr != nil {
			j.logErrorContext(ctx, logMsgBuildRecordFailed, buildRecordErr, logAttrEventType, result.eventType)

			return empty, buildRecordErr
		}

		deliveries = append(deliveries, record)
	}

	return deliveries, nil
}

// buildDeliveryRecord rebuilds a validated delivery record from a scanned database row.
func (j *Journal) buildDeliveryRecord(result queryResultRow) (notifyhub.DeliveryRecord, error) {
	var empty notifyhub.DeliveryRecord

	roundID, roundIDErr := uuid.Parse(result.roundID)
	if roundIDErr != nil {
		return empty, errors.Join(notifyhub.ErrBuildingDeliveryRecordFailed, roundIDErr)
	}

	subscriptionID, subscriptionIDErr := uuid.Parse(result.subscriptionID)
	if subscriptionIDErr != nil {
		return empty, errors.Join(notifyhub.ErrBuildingDeliveryRecordFailed, subscriptionIDErr)
	}

	record := notifyhub.DeliveryRecord{
		RoundID:          roundID,
		Position:         result.position,
		SubscriptionID:   subscriptionID,
		EventType:        result.eventType,
		OccurredAt:       result.occurredAt,
		PayloadJSON:      result.payload,
		MetadataJSON:     result.metadata,
		Outcome:          notifyhub.DeliveryOutcome(result.outcome),
		FailureReason:    result.failureReason,
		DeliveryDuration: time.Duration(result.deliveryMicros) * time.Microsecond,
		RecordedAt:       result.recordedAt,
	}

	if validateErr := record.Validate(); validateErr != nil {
		return empty, errors.Join(notifyhub.ErrBuildingDeliveryRecordFailed, validateErr)
	}

	return record, nil
}

func (j *Journal) buildInsertQuery(records notifyhub.DeliveryRecords) (sqlQueryString, error) {
	insertRows := make([][]interface{}, 0, len(records))

	for _, record := range records {
		insertRows = append(insertRows, goqu.Vals{
			record.RoundID.String(),
			record.Position,
			record.SubscriptionID.String(),
			record.EventType,
			record.OccurredAt,
			goqu.L(castJsonb, string(record.PayloadJSON)),
			goqu.L(castJsonb, string(record.MetadataJSON)),
			string(record.Outcome),
			record.FailureReason,
			record.DeliveryDuration.Microseconds(),
			record.RecordedAt,
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(j.deliveriesTableName).
		Cols(
			colRoundID, colPosition, colSubscriptionID, colEventType, colOccurredAt,
			colPayload, colMetadata, colOutcome, colFailureReason, colDeliveryMicros, colRecordedAt,
		).
		Vals(insertRows...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(notifyhub.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (j *Journal) buildSelectQuery(filter notifyhub.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(j.deliveriesTableName).
		Select(
			colRoundID, colPosition, colSubscriptionID, colEventType, colOccurredAt,
			colPayload, colMetadata, colOutcome, colFailureReason, colDeliveryMicros, colRecordedAt,
		).
		Order(goqu.I(colRecordedAt).Asc(), goqu.I(colPosition).Asc())

	selectStmt = j.addWhereClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(notifyhub.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (j *Journal) buildPurgeQuery(until time.Time) (sqlQueryString, error) {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(j.deliveriesTableName).
		Where(goqu.C(colRecordedAt).Lt(until))

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(notifyhub.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (j *Journal) addWhereClause(filter notifyhub.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0)
		predicateExpressions := make([]goqu.Expression, 0)

		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(
				eventTypeExpressions,
				goqu.Ex{colEventType: eventType},
			)
		}

		// eventTypes must always be filtered with OR ;-)
		eventTypesExpressionList := goqu.Or(eventTypeExpressions...)

		for _, predicate := range item.Predicates() {
			predicateExpressions = append(
				predicateExpressions,
				goqu.L(fmt.Sprintf(`%s @> '{"%s": "%s"}'`, colPayload, predicate.Key(), predicate.Val())),
			)
		}

		var predicatesExpressionList exp.ExpressionList

		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(
			itemsExpressions,
			goqu.And(eventTypesExpressionList, predicatesExpressionList),
		)
	}

	outcomeExpressions := make([]goqu.Expression, 0)

	for _, outcome := range filter.Outcomes() {
		outcomeExpressions = append(
			outcomeExpressions,
			goqu.Ex{colOutcome: string(outcome)},
		)
	}

	// outcomes are filtered with OR as well
	outcomesExpressionList := goqu.Or(outcomeExpressions...)

	occurredAtExpressions := make([]goqu.Expression, 0)

	if !filter.OccurredFrom().IsZero() {
		occurredAtExpressions = append(
			occurredAtExpressions,
			goqu.C(colOccurredAt).Gte(filter.OccurredFrom()),
		)
	}

	if !filter.OccurredUntil().IsZero() {
		occurredAtExpressions = append(
			occurredAtExpressions,
			goqu.C(colOccurredAt).Lte(filter.OccurredUntil()),
		)
	}

	selectStmt = selectStmt.Where(
		goqu.And(
			goqu.Or(itemsExpressions...),
			outcomesExpressionList,
			goqu.And(occurredAtExpressions...),
		),
	)

	return selectStmt
}

// queryErrorType classifies a query processing error for metrics and tracing labels.
func (j *Journal) queryErrorType(err error) string {
	if errors.Is(err, notifyhub.ErrBuildingDeliveryRecordFailed) {
		return errorTypeBuildRecord
	}

	return errorTypeScanRow
}

// Ensure Journal implements notifyhub.DeliveryRecorder.
var _ notifyhub.DeliveryRecorder = (*Journal)(nil)
