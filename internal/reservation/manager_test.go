package reservation

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewManager(gdb), mock
}

// S1: reserving a valid window succeeds and returns a stamped id.
func TestManagerReserveSucceeds(t *testing.T) {
	mgr, mock := newMockManager(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO rsvp.reservations`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	start := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	end := start.Add(3 * 24 * time.Hour)
	r := NewPendingReservation("kobe", "room-114514", start, end, "")

	created, err := mgr.Reserve(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, id.String(), created.ID)
	require.Equal(t, StatusPending, created.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// S2: a conflicting window surfaces as a classified, parsed conflict.
func TestManagerReserveConflict(t *testing.T) {
	mgr, mock := newMockManager(t)

	pgErr := &pgconn.PgError{
		Code:       "23P01",
		SchemaName: "rsvp",
		TableName:  "reservations",
		Detail: `Key (resource_id, timespan)=(room-114514, ["2025-06-02 19:00:00+00", "2025-06-05 19:00:00+00")) ` +
			`conflicts with existing key (resource_id, timespan)=(room-114514, ["2025-06-01 19:00:00+00", "2025-06-03 19:00:00+00"))`,
	}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO rsvp.reservations`)).WillReturnError(pgErr)

	start := time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 5, 19, 0, 0, 0, time.UTC)
	r := NewPendingReservation("kobe", "room-114514", start, end, "")

	_, err := mgr.Reserve(context.Background(), r)

	var conflict *ConflictReservationError
	require.ErrorAs(t, err, &conflict)
	require.True(t, conflict.Info.IsParsed())
	require.Equal(t, "room-114514", conflict.Info.Parsed.New.ResourceID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// S3/S4: confirming a PENDING reservation transitions it; confirming
// anything else (already confirmed, unknown id) is NotFoundError.
func TestManagerChangeStatusConfirms(t *testing.T) {
	mgr, mock := newMockManager(t)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "user_id", "resource_id", "timespan", "note", "status", "metadata"}).
		AddRow(id.String(), "kobe", "room-114514", "[2025-06-02T19:00:00Z,2025-06-05T19:00:00Z)", "", "CONFIRMED", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE rsvp.reservations`)).WillReturnRows(rows)

	updated, err := mgr.ChangeStatus(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, updated.Status)
	require.Nil(t, updated.Metadata)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestManagerChangeStatusNotFoundWhenNotPending(t *testing.T) {
	mgr, mock := newMockManager(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE rsvp.reservations`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "resource_id", "timespan", "note", "status", "metadata"}))

	_, err := mgr.ChangeStatus(context.Background(), id.String())

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestManagerChangeStatusInvalidID(t *testing.T) {
	mgr, _ := newMockManager(t)

	_, err := mgr.ChangeStatus(context.Background(), "not-a-uuid")

	var badID *InvalidReservationIDError
	require.ErrorAs(t, err, &badID)
}

// S5: deleting a reservation issues one DELETE and never errors on a
// missing row.
func TestManagerDeleteIsIdempotent(t *testing.T) {
	mgr, mock := newMockManager(t)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rsvp.reservations`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := mgr.Delete(context.Background(), id.String())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// S6: querying applies the requested filters, including status, and
// returns the matched page.
func TestManagerQueryAppliesFilters(t *testing.T) {
	mgr, mock := newMockManager(t)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "user_id", "resource_id", "timespan", "note", "status", "metadata"}).
		AddRow(id.String(), "kobe", "room-114514", "[2025-06-02T19:00:00Z,2025-06-05T19:00:00Z)", "", "CONFIRMED", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, resource_id, timespan, note, status, metadata FROM "rsvp"."reservations"`)).
		WillReturnRows(rows)

	q := Query{
		UserID:     "kobe",
		ResourceID: "room-114514",
		Status:     StatusConfirmed,
		Start:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Page:       1,
		PageSize:   20,
	}

	results, err := mgr.Query(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "kobe", results[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestManagerGetNotFound(t *testing.T) {
	mgr, mock := newMockManager(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, resource_id, timespan, note, status, metadata`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "resource_id", "timespan", "note", "status", "metadata"}))

	_, err := mgr.Get(context.Background(), id.String())

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestManagerBlockSetsMetadata checks both that Block's own return value
// carries the reason, and that a subsequent Get reads the same metadata
// back from storage rather than relying on the in-memory reason.
func TestManagerBlockSetsMetadata(t *testing.T) {
	mgr, mock := newMockManager(t)

	id := uuid.New()
	blockRows := sqlmock.NewRows([]string{"id", "user_id", "resource_id", "timespan", "note", "status", "metadata"}).
		AddRow(id.String(), "kobe", "room-114514", "[2025-06-02T19:00:00Z,2025-06-05T19:00:00Z)", "", "BLOCKED", []byte(`{"reason":"maintenance"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE rsvp.reservations`)).WillReturnRows(blockRows)

	blocked, err := mgr.Block(context.Background(), id.String(), "maintenance")
	require.NoError(t, err)
	require.Equal(t, StatusBlocked, blocked.Status)
	require.Equal(t, "maintenance", blocked.Metadata["reason"])

	getRows := sqlmock.NewRows([]string{"id", "user_id", "resource_id", "timespan", "note", "status", "metadata"}).
		AddRow(id.String(), "kobe", "room-114514", "[2025-06-02T19:00:00Z,2025-06-05T19:00:00Z)", "", "BLOCKED", []byte(`{"reason":"maintenance"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, resource_id, timespan, note, status, metadata`)).
		WillReturnRows(getRows)

	fetched, err := mgr.Get(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, StatusBlocked, fetched.Status)
	require.Equal(t, "maintenance", fetched.Metadata["reason"])
	require.NoError(t, mock.ExpectationsWereMet())
}
