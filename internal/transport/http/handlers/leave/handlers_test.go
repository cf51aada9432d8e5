package leavehandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"

	"hrms/internal/auth"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

var requestCols = []string{"id", "user_id", "category", "start_date", "end_date", "reason", "status", "approved_by", "created_at", "updated_at"}

func newTestRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)

	service := leave.NewService(leave.NewStore(mock), leave.NewEngine(leave.DefaultPolicy()))
	notify := notifications.New(notifications.NewStore(mock), notifications.LogRelay{})

	router := chi.NewRouter()
	router.Use(middleware.Auth(testSecret))
	NewHandler(service, notify).RegisterRoutes(router)
	return router, mock
}

func TestExportWritesCSVHistory(t *testing.T) {
	router, mock := newTestRouter(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM leave_requests").
		WithArgs("u-1").
		WillReturnRows(mock.NewRows(requestCols).
			AddRow("r-1", "u-1", leave.CategoryVacation, start, end, "family trip", leave.StatusApproved, "", now, now))

	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-1", Role: auth.RoleEmployee, Email: "u1@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/leaves/my-leaves/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %s", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "type,startDate,endDate,days,reason,status" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "Vacation,2026-03-01,2026-03-03,3,family trip,approved" {
		t.Fatalf("unexpected row: %s", lines[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
