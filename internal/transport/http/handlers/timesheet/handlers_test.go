package timesheethandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/auth"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/timesheet"
	"hrms/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

var entryCols = []string{"id", "user_id", "entry_date", "start_time", "end_time", "break_hours", "total_hours", "status", "status_comment", "created_at", "updated_at"}

func newTestRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	service := timesheet.NewService(timesheet.NewStore(mock))
	notify := notifications.New(notifications.NewStore(mock), notifications.LogRelay{})

	router := chi.NewRouter()
	router.Use(middleware.Auth(testSecret))
	NewHandler(service, notify).RegisterRoutes(router)
	return router, mock
}

func entryRow(mock pgxmock.PgxPoolIface, id, userID, status string, date time.Time, total float64) *pgxmock.Rows {
	now := time.Now()
	return mock.NewRows(entryCols).
		AddRow(id, userID, date, "09:00", "17:00", 0.0, total, status, "", now, now)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-1", Role: auth.RoleEmployee, Email: "u1@example.com"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitRespondsCreated(t *testing.T) {
	router, mock := newTestRouter(t)
	date := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM timesheet_entries").
		WithArgs("u-1", date).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO timesheet_entries").
		WithArgs("u-1", date, "09:00", "17:00", 0.0, 8.0, timesheet.StatusPending).
		WillReturnRows(entryRow(mock, "t-1", "u-1", timesheet.StatusPending, date, 8))

	rec := doRequest(t, router, http.MethodPost, "/timesheet",
		`{"date":"2024-06-11","startTime":"09:00","endTime":"17:00","breakDuration":0}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFinalizedEntryIsBadRequest(t *testing.T) {
	router, mock := newTestRouter(t)
	date := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE timesheet_entries").
		WithArgs("08:00", "16:00", 1.0, 7.0, "t-1", "u-1", timesheet.StatusPending).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT .+ FROM timesheet_entries").
		WithArgs("t-1").
		WillReturnRows(entryRow(mock, "t-1", "u-1", timesheet.StatusApproved, date, 8))

	rec := doRequest(t, router, http.MethodPut, "/timesheet/t-1",
		`{"startTime":"08:00","endTime":"16:00","breakDuration":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkDuplicateDateIsBadRequest(t *testing.T) {
	router, mock := newTestRouter(t)

	batch := mock.ExpectBatch()
	batch.ExpectExec("INSERT INTO timesheet_entries").
		WithArgs("u-1", pgxmock.AnyArg(), "09:00", "17:00", 0.0, 8.0, timesheet.StatusPending).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	rec := doRequest(t, router, http.MethodPut, "/timesheet/bulk",
		`{"entry":[{"date":"2024-06-11","startTime":"09:00","endTime":"17:00","breakDuration":0}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate")
	require.NoError(t, mock.ExpectationsWereMet())
}
