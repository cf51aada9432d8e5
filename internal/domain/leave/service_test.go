package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

var requestCols = []string{"id", "user_id", "category", "start_date", "end_date", "reason", "status", "approved_by", "created_at", "updated_at"}

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewService(NewStore(mock), NewEngine(DefaultPolicy())), mock
}

func requestRow(mock pgxmock.PgxPoolIface, id, userID, category, status string, start, end time.Time) *pgxmock.Rows {
	now := time.Now()
	return mock.NewRows(requestCols).
		AddRow(id, userID, category, start, end, "reason", status, "", now, now)
}

func TestServiceBalancesUsesApprovedRequests(t *testing.T) {
	svc, mock := newTestService(t)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .+ FROM leave_requests").
		WithArgs("u-1", StatusApproved, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(requestRow(mock, "r-1", "u-1", CategoryVacation, StatusApproved, start, end))

	balances, err := svc.Balances(context.Background(), "u-1", 2024)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if balances[CategoryVacation].Used != 3 {
		t.Fatalf("expected 3 used vacation days, got %d", balances[CategoryVacation].Used)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestServiceSetStatusRejectsFinalizedRequest(t *testing.T) {
	svc, mock := newTestService(t)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .+ FROM leave_requests").
		WithArgs("r-1").
		WillReturnRows(requestRow(mock, "r-1", "u-1", CategorySick, StatusApproved, start, start))

	_, err := svc.SetStatus(context.Background(), "r-1", StatusRejected, "admin-1")
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestServiceSetStatusApprovesPendingRequest(t *testing.T) {
	svc, mock := newTestService(t)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .+ FROM leave_requests").
		WithArgs("r-1").
		WillReturnRows(requestRow(mock, "r-1", "u-1", CategorySick, StatusPending, start, start))
	mock.ExpectQuery("UPDATE leave_requests").
		WithArgs(StatusApproved, "admin-1", "r-1").
		WillReturnRows(requestRow(mock, "r-1", "u-1", CategorySick, StatusApproved, start, start))

	updated, err := svc.SetStatus(context.Background(), "r-1", StatusApproved, "admin-1")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestServiceSetStatusInvalidStatus(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.SetStatus(context.Background(), "r-1", "pending", "admin-1"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestServiceDeleteNotDeletable(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec("DELETE FROM leave_requests").
		WithArgs("r-1", "u-1", StatusPending).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := svc.Delete(context.Background(), "r-1", "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	start := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Create(context.Background(), "u-1", "Sabbatical", start, start, "trip"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "u-1", CategoryVacation, start, end, "trip"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "u-1", CategoryVacation, start, start, "  "); !errors.Is(err, ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}
}
