package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryCols = []string{"id", "user_id", "entry_date", "start_time", "end_time", "break_hours", "total_hours", "status", "status_comment", "created_at", "updated_at"}

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewService(NewStore(mock)), mock
}

func entryRow(mock pgxmock.PgxPoolIface, id, userID, status string, date time.Time, total float64) *pgxmock.Rows {
	now := time.Now()
	return mock.NewRows(entryCols).
		AddRow(id, userID, date, "09:00", "17:00", 0.0, total, status, "", now, now)
}

func TestSubmitUpdatesExistingPendingEntry(t *testing.T) {
	svc, mock := newTestService(t)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM timesheet_entries").
		WithArgs("u-1", date).
		WillReturnRows(entryRow(mock, "t-1", "u-1", StatusPending, date, 8))
	mock.ExpectQuery("UPDATE timesheet_entries").
		WithArgs("08:00", "16:30", 0.5, 8.0, "t-1", "u-1", StatusPending).
		WillReturnRows(entryRow(mock, "t-1", "u-1", StatusPending, date, 8))

	entry, err := svc.Submit(context.Background(), "u-1", date, "08:00", "16:30", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "t-1", entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRefusesFinalizedEntry(t *testing.T) {
	svc, mock := newTestService(t)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM timesheet_entries").
		WithArgs("u-1", date).
		WillReturnRows(entryRow(mock, "t-1", "u-1", StatusApproved, date, 8))

	_, err := svc.Submit(context.Background(), "u-1", date, "08:00", "16:30", 0.5)
	assert.ErrorIs(t, err, ErrImmutableEntry)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitInsertsNewEntry(t *testing.T) {
	svc, mock := newTestService(t)
	date := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM timesheet_entries").
		WithArgs("u-1", date).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO timesheet_entries").
		WithArgs("u-1", date, "09:00", "17:00", 0.0, 8.0, StatusPending).
		WillReturnRows(entryRow(mock, "t-2", "u-1", StatusPending, date, 8))

	entry, err := svc.Submit(context.Background(), "u-1", date, "09:00", "17:00", 0)
	require.NoError(t, err)
	assert.Equal(t, "t-2", entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertRejectsWholeBatchOnOneInvalidCandidate(t *testing.T) {
	svc, mock := newTestService(t)

	candidates := []Candidate{
		{Date: "2024-06-10", StartTime: "09:00", EndTime: "17:00"},
		{Date: "2024-06-11", StartTime: "09:00", EndTime: "17:00"},
		{Date: "2024-06-12", StartTime: "09:00", EndTime: "17:00"},
		{Date: "2024-06-13", StartTime: "17:00", EndTime: "09:00"}, // invalid
	}

	_, err := svc.BulkUpsert(context.Background(), "u-1", candidates)
	assert.ErrorIs(t, err, ErrEndBeforeStart)
	// No SQL may run when validation fails.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertReportsCounts(t *testing.T) {
	svc, mock := newTestService(t)

	batch := mock.ExpectBatch()
	batch.ExpectExec("INSERT INTO timesheet_entries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec("UPDATE timesheet_entries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0)) // finalized row, skipped

	candidates := []Candidate{
		{Date: "2024-06-10", StartTime: "09:00", EndTime: "17:00"},
		{ID: "t-9", Date: "2024-06-11", StartTime: "09:00", EndTime: "17:00"},
	}

	result, err := svc.BulkUpsert(context.Background(), "u-1", candidates)
	require.NoError(t, err)
	assert.Equal(t, BulkResult{Modified: 0, Inserted: 1, Total: 1}, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertInvalidDate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.BulkUpsert(context.Background(), "u-1", []Candidate{
		{Date: "not-a-date", StartTime: "09:00", EndTime: "17:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSetStatusInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SetStatus(context.Background(), "t-1", "archived", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteNotDeletable(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("DELETE FROM timesheet_entries").
		WithArgs("t-1", "u-1", StatusPending).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), "t-1", "u-1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
