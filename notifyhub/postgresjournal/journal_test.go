package postgresjournal_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mdNoman21/notifyhub-go/notifyhub"
	"github.com/mdNoman21/notifyhub-go/notifyhub/postgresjournal"
	. "github.com/mdNoman21/notifyhub-go/testutil/fixtures"    //nolint:revive
	. "github.com/mdNoman21/notifyhub-go/testutil/subscribers" //nolint:revive
)

func Test_Journal_Record_PersistsDeliveriesInASingleInsert(t *testing.T) {
	// setup
	db := newFakeDBAdapter()
	db.execResult = fakeDBResult{rowsAffected: 2}

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	roundID := GivenUniqueID(t)
	notification := ToNotification(t, FixturePriceTickReceived(GivenUniqueID(t), fakeClock))
	deliveredRecord := ToDeliveryRecord(t, roundID, 0, GivenUniqueID(t), notification, notifyhub.OutcomeDelivered)
	failedRecord := ToDeliveryRecord(t, roundID, 1, GivenUniqueID(t), notification, notifyhub.OutcomeFailed)

	// act
	recordErr := journal.Record(context.Background(), notifyhub.DeliveryRecords{deliveredRecord, failedRecord})

	// assert
	assert.NoError(t, recordErr)
	assert.Len(t, db.execSQL, 1, "both records should go into one insert statement")

	insertSQL := db.lastExecSQL()
	assert.Contains(t, insertSQL, `INSERT INTO "deliveries"`)
	assert.Contains(t, insertSQL, `"round_id"`)
	assert.Contains(t, insertSQL, `"subscription_id"`)
	assert.Contains(t, insertSQL, `"delivery_micros"`)
	assert.Contains(t, insertSQL, `"failure_reason"`)
	assert.Contains(t, insertSQL, roundID.String())
	assert.Contains(t, insertSQL, deliveredRecord.SubscriptionID.String())
	assert.Contains(t, insertSQL, failedRecord.SubscriptionID.String())
	assert.Contains(t, insertSQL, `'`+PriceTickReceivedEventType+`'`)
	assert.Contains(t, insertSQL, `::jsonb`)
	assert.Contains(t, insertSQL, `'delivered'`)
	assert.Contains(t, insertSQL, `'failed'`)
	assert.Contains(t, insertSQL, `'subscriber rejected the notification'`)
}

func Test_Journal_Record_WithoutRecords_ReturnsError(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	// act
	recordErr := journal.Record(context.Background(), notifyhub.DeliveryRecords{})

	// assert
	assert.ErrorIs(t, recordErr, notifyhub.ErrNoDeliveryRecords)
	assert.Empty(t, db.execSQL, "no statement should reach the database")
}

func Test_Journal_Record_DatabaseFailure_ReturnsError(t *testing.T) {
	// setup
	db := newFakeDBAdapter()
	db.execErr = errors.New("connection reset by peer")

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	notification := ToNotification(t, FixturePriceTickReceived(GivenUniqueID(t), fakeClock))
	record := ToDeliveryRecord(t, GivenUniqueID(t), 0, GivenUniqueID(t), notification, notifyhub.OutcomeDelivered)

	// act
	recordErr := journal.Record(context.Background(), notifyhub.DeliveryRecords{record})

	// assert
	assert.ErrorIs(t, recordErr, notifyhub.ErrRecordingDeliveriesFailed)
	assert.ErrorContains(t, recordErr, "connection reset by peer")
}

func Test_Journal_Record_RowsAffectedFailure_ReturnsError(t *testing.T) {
	// setup
	db := newFakeDBAdapter()
	db.execResult = fakeDBResult{rowsAffectedErr: errors.New("rows affected unavailable")}

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	notification := ToNotification(t, FixturePriceTickReceived(GivenUniqueID(t), fakeClock))
	record := ToDeliveryRecord(t, GivenUniqueID(t), 0, GivenUniqueID(t), notification, notifyhub.OutcomeDelivered)

	// act
	recordErr := journal.Record(context.Background(), notifyhub.DeliveryRecords{record})

	// assert
	assert.ErrorIs(t, recordErr, notifyhub.ErrGettingRowsAffectedFailed)
	assert.ErrorContains(t, recordErr, "rows affected unavailable")
}

func Test_Journal_Query_BuildsOrderedSelect(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	// arrange
	filter := notifyhub.BuildDeliveryFilter().MatchingAnyDelivery()

	// act
	deliveries, queryErr := journal.Query(context.Background(), filter)

	// assert
	assert.NoError(t, queryErr)
	assert.Empty(t, deliveries)

	selectSQL := db.lastQuerySQL()
	assert.Contains(t, selectSQL, `FROM "deliveries"`)
	assert.Contains(t, selectSQL, `"round_id"`)
	assert.Contains(t, selectSQL, `"payload"`)
	assert.Contains(t, selectSQL, `"metadata"`)
	assert.Contains(t, selectSQL, `ORDER BY "recorded_at" ASC, "position" ASC`)
}

func Test_Journal_Query_AppliesEventTypeAndPredicateCriteria(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	// arrange
	instrumentID := GivenUniqueID(t)
	filter := notifyhub.BuildDeliveryFilter().
		Matching().
		AnyEventTypeOf(PriceTickReceivedEventType, ThresholdBreachedEventType).
		AndAnyPredicateOf(notifyhub.P("InstrumentID", instrumentID.String())).
		Finalize()

	// act
	_, queryErr := journal.Query(context.Background(), filter)

	// assert
	assert.NoError(t, queryErr)

	selectSQL := db.lastQuerySQL()
	assert.Contains(t, selectSQL, `"event_type" = 'PriceTickReceived'`)
	assert.Contains(t, selectSQL, `"event_type" = 'ThresholdBreached'`)
	assert.Contains(t, selectSQL, fmt.Sprintf(`payload @> '{"InstrumentID": "%s"}'`, instrumentID.String()))
}

func Test_Journal_Query_AppliesOutcomeAndTimeRangeCriteria(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	filter := notifyhub.BuildDeliveryFilter().
		Matching().
		AnyEventTypeOf(PriceTickReceivedEventType).
		AnyOutcomeOf(notifyhub.OutcomeFailed, notifyhub.OutcomeSkipped).
		OccurredFrom(fakeClock).
		AndOccurredUntil(fakeClock.Add(time.Hour)).
		Finalize()

	// act
	_, queryErr := journal.Query(context.Background(), filter)

	// assert
	assert.NoError(t, queryErr)

	selectSQL := db.lastQuerySQL()
	assert.Contains(t, selectSQL, `"outcome" = 'failed'`)
	assert.Contains(t, selectSQL, `"outcome" = 'skipped'`)
	assert.Contains(t, selectSQL, `"occurred_at" >=`)
	assert.Contains(t, selectSQL, `"occurred_at" <=`)
}

func Test_Journal_Query_RehydratesRecordsFromRows(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	roundID := GivenUniqueID(t)
	notification := ToNotification(t, FixturePriceTickReceived(GivenUniqueID(t), fakeClock))
	deliveredRecord := ToDeliveryRecord(t, roundID, 0, GivenUniqueID(t), notification, notifyhub.OutcomeDelivered)
	failedRecord := ToDeliveryRecord(t, roundID, 1, GivenUniqueID(t), notification, notifyhub.OutcomeFailed)

	db.queryRows = &fakeDBRows{rows: []fakeDeliveryRow{
		fakeRowFromRecord(deliveredRecord),
		fakeRowFromRecord(failedRecord),
	}}

	// act
	deliveries, queryErr := journal.Query(context.Background(), notifyhub.BuildDeliveryFilter().MatchingAnyDelivery())

	// assert
	assert.NoError(t, queryErr)
	assert.Equal(t, notifyhub.DeliveryRecords{deliveredRecord, failedRecord}, deliveries)
	assert.True(t, db.queryRows.closed, "rows should be closed after the query")
}

func Test_Journal_Query_CorruptRoundID_ReturnsError(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	notification := ToNotification(t, FixturePriceTickReceived(GivenUniqueID(t), fakeClock))
	record := ToDeliveryRecord(t, GivenUniqueID(t), 0, GivenUniqueID(t), notification, notifyhub.OutcomeDelivered)

	corruptRow := fakeRowFromRecord(record)
	corruptRow.roundID = "not-a-uuid"
	db.queryRows = &fakeDBRows{rows: []fakeDeliveryRow{corruptRow}}

	// act
	deliveries, queryErr := journal.Query(context.Background(), notifyhub.BuildDeliveryFilter().MatchingAnyDelivery())

	// assert
	assert.ErrorIs(t, queryErr, notifyhub.ErrBuildingDeliveryRecordFailed)
	assert.Nil(t, deliveries)
}

func Test_Journal_Query_ScanFailure_ReturnsError(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	notification := ToNotification(t, FixturePriceTickReceived(GivenUniqueID(t), fakeClock))
	record := ToDeliveryRecord(t, GivenUniqueID(t), 0, GivenUniqueID(t), notification, notifyhub.OutcomeDelivered)

	db.queryRows = &fakeDBRows{
		rows:    []fakeDeliveryRow{fakeRowFromRecord(record)},
		scanErr: errors.New("destination type mismatch"),
	}

	// act
	deliveries, queryErr := journal.Query(context.Background(), notifyhub.BuildDeliveryFilter().MatchingAnyDelivery())

	// assert
	assert.ErrorIs(t, queryErr, notifyhub.ErrScanningDBRowFailed)
	assert.ErrorContains(t, queryErr, "destination type mismatch")
	assert.Nil(t, deliveries)
}

func Test_Journal_Query_DatabaseFailure_ReturnsError(t *testing.T) {
	// setup
	db := newFakeDBAdapter()
	db.queryErr = errors.New("relation does not exist")

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	// act
	deliveries, queryErr := journal.Query(context.Background(), notifyhub.BuildDeliveryFilter().MatchingAnyDelivery())

	// assert
	assert.ErrorIs(t, queryErr, notifyhub.ErrQueryingDeliveriesFailed)
	assert.ErrorContains(t, queryErr, "relation does not exist")
	assert.Nil(t, deliveries)
}

func Test_Journal_Query_PropagatesConsistencyLevelToDatabaseLayer(t *testing.T) {
	// setup
	db := newFakeDBAdapter()

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	// arrange
	ctx := notifyhub.WithEventualConsistency(context.Background())

	// act
	_, queryErr := journal.Query(ctx, notifyhub.BuildDeliveryFilter().MatchingAnyDelivery())

	// assert
	assert.NoError(t, queryErr)
	assert.Equal(t, notifyhub.EventualConsistency, notifyhub.GetConsistencyLevel(db.queryCtx))
}

func Test_Journal_Purge_DeletesRecordsBeforeCutoff(t *testing.T) {
	// setup
	db := newFakeDBAdapter()
	db.execResult = fakeDBResult{rowsAffected: 17}

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// act
	purgedCount, purgeErr := journal.Purge(context.Background(), fakeClock)

	// assert
	assert.NoError(t, purgeErr)
	assert.Equal(t, int64(17), purgedCount)

	purgeSQL := db.lastExecSQL()
	assert.Contains(t, purgeSQL, `DELETE FROM "deliveries"`)
	assert.Contains(t, purgeSQL, `"recorded_at" <`)
}

func Test_Journal_Purge_DatabaseFailure_ReturnsError(t *testing.T) {
	// setup
	db := newFakeDBAdapter()
	db.execErr = errors.New("deadlock detected")

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	fakeClock := time.Unix(0, 0).UTC()

	// act
	purgedCount, purgeErr := journal.Purge(context.Background(), fakeClock)

	// assert
	assert.ErrorIs(t, purgeErr, notifyhub.ErrPurgingDeliveriesFailed)
	assert.ErrorContains(t, purgeErr, "deadlock detected")
	assert.Zero(t, purgedCount)
}

func Test_Journal_ServesAsRegistryDeliveryRecorder(t *testing.T) {
	// setup
	db := newFakeDBAdapter()
	db.execResult = fakeDBResult{rowsAffected: 1}

	journal, err := postgresjournal.NewJournalWithAdapter(db)
	assert.NoError(t, err, "creating the journal failed")

	registry, err := notifyhub.NewRegistry(notifyhub.WithDeliveryRecorder(journal))
	assert.NoError(t, err, "creating the registry failed")

	fakeClock := time.Unix(0, 0).UTC()

	// arrange
	spy := NewSubscriberSpy("audited")
	subscription := registry.Register(spy)
	defer subscription.Cancel()

	notification := ToNotification(t, FixturePriceTickReceived(GivenUniqueID(t), fakeClock))

	// act
	notifyErr := registry.NotifyAll(context.Background(), notification)

	// assert
	assert.NoError(t, notifyErr)
	assert.Equal(t, 1, spy.ReceivedCount())
	assert.Len(t, db.execSQL, 1, "the round should be journaled with one insert")
	assert.Contains(t, db.lastExecSQL(), `INSERT INTO "deliveries"`)
	assert.Contains(t, db.lastExecSQL(), subscription.ID().String())
	assert.Contains(t, db.lastExecSQL(), `'`+PriceTickReceivedEventType+`'`)
}
