package performance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

var evaluationCols = []string{
	"id", "employee_id", "evaluator_id", "period_start", "period_end", "categories",
	"overall_score", "comments", "status", "acknowledged_at", "acknowledgement_comment", "created_at",
}

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewService(NewStore(mock)), mock
}

func evaluationRow(mock pgxmock.PgxPoolIface, id, employeeID, status string) *pgxmock.Rows {
	now := time.Now()
	categories := []byte(`[{"name":"Quality","score":4}]`)
	return mock.NewRows(evaluationCols).
		AddRow(id, employeeID, "admin-1", now, now, categories, 4.0, "", status, nil, "", now)
}

func TestAcknowledgeRejectsForeignEvaluation(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT .+ FROM performance_evaluations").
		WithArgs("e-1").
		WillReturnRows(evaluationRow(mock, "e-1", "u-1", StatusSubmitted))

	_, err := svc.Acknowledge(context.Background(), "e-1", "u-2", "looks right")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAcknowledgeIsOneShot(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT .+ FROM performance_evaluations").
		WithArgs("e-1").
		WillReturnRows(evaluationRow(mock, "e-1", "u-1", StatusAcknowledged))

	_, err := svc.Acknowledge(context.Background(), "e-1", "u-1", "")
	if !errors.Is(err, ErrAlreadyAcknowledged) {
		t.Fatalf("expected ErrAlreadyAcknowledged, got %v", err)
	}
}

func TestUpdateRefusesAcknowledgedEvaluation(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT .+ FROM performance_evaluations").
		WithArgs("e-1").
		WillReturnRows(evaluationRow(mock, "e-1", "u-1", StatusAcknowledged))

	_, err := svc.Update(context.Background(), "e-1", Period{}, nil, "")
	if !errors.Is(err, ErrAcknowledged) {
		t.Fatalf("expected ErrAcknowledged, got %v", err)
	}
}

func TestCreateRequiresExistingEmployee(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("ghost").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))

	period := Period{StartDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour)}
	_, err := svc.Create(context.Background(), "ghost", "admin-1", period, []CategoryScore{{Name: "Quality", Score: 4}}, "")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	period := Period{StartDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour)}
	if _, err := svc.Create(context.Background(), "u-1", "admin-1", period, nil, ""); !errors.Is(err, ErrNoCategories) {
		t.Fatalf("expected ErrNoCategories, got %v", err)
	}

	bad := Period{StartDate: time.Now(), EndDate: time.Now().Add(-time.Hour)}
	if _, err := svc.Create(context.Background(), "u-1", "admin-1", bad, []CategoryScore{{Score: 3}}, ""); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}

	if _, err := svc.Create(context.Background(), "u-1", "admin-1", period, []CategoryScore{{Score: 9}}, ""); !errors.Is(err, ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange, got %v", err)
	}
}
