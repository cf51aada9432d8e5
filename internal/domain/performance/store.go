package performance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrms/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const evaluationColumns = "id, employee_id, evaluator_id, period_start, period_end, categories, overall_score, COALESCE(comments, ''), status, acknowledged_at, COALESCE(acknowledgement_comment, ''), created_at"

func scanEvaluation(row pgx.Row) (Evaluation, error) {
	var e Evaluation
	var categories []byte
	err := row.Scan(&e.ID, &e.EmployeeID, &e.EvaluatorID, &e.Period.StartDate, &e.Period.EndDate, &categories,
		&e.OverallScore, &e.Comments, &e.Status, &e.AcknowledgedAt, &e.AcknowledgementComment, &e.CreatedAt)
	if err != nil {
		return Evaluation{}, err
	}
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &e.Categories); err != nil {
			return Evaluation{}, err
		}
	}
	return e, nil
}

func (s *Store) Insert(ctx context.Context, employeeID, evaluatorID string, period Period, categories []CategoryScore, overall float64, comments string) (Evaluation, error) {
	payload, err := json.Marshal(categories)
	if err != nil {
		return Evaluation{}, err
	}
	return scanEvaluation(s.DB.QueryRow(ctx, `
    INSERT INTO performance_evaluations
      (employee_id, evaluator_id, period_start, period_end, categories, overall_score, comments, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING `+evaluationColumns+`
  `, employeeID, evaluatorID, period.StartDate, period.EndDate, payload, overall, comments, StatusDraft))
}

func (s *Store) Get(ctx context.Context, evaluationID string) (Evaluation, error) {
	return scanEvaluation(s.DB.QueryRow(ctx, `
    SELECT `+evaluationColumns+`
    FROM performance_evaluations
    WHERE id = $1
  `, evaluationID))
}

func (s *Store) listDetails(ctx context.Context, where string, args ...any) ([]EvaluationDetail, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.employee_id, p.evaluator_id, p.period_start, p.period_end, p.categories,
           p.overall_score, COALESCE(p.comments, ''), p.status, p.acknowledged_at,
           COALESCE(p.acknowledgement_comment, ''), p.created_at,
           e.name, v.name
    FROM performance_evaluations p
    JOIN users e ON e.id = p.employee_id
    JOIN users v ON v.id = p.evaluator_id`+where+`
    ORDER BY p.created_at DESC
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []EvaluationDetail
	for rows.Next() {
		var d EvaluationDetail
		var categories []byte
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.EvaluatorID, &d.Period.StartDate, &d.Period.EndDate, &categories,
			&d.OverallScore, &d.Comments, &d.Status, &d.AcknowledgedAt, &d.AcknowledgementComment, &d.CreatedAt,
			&d.EmployeeName, &d.EvaluatorName); err != nil {
			return nil, err
		}
		if len(categories) > 0 {
			if err := json.Unmarshal(categories, &d.Categories); err != nil {
				return nil, err
			}
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (s *Store) ListAll(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]EvaluationDetail, error) {
	where := " WHERE 1=1"
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		where += " AND p.employee_id = $1"
	}
	if !periodStart.IsZero() && !periodEnd.IsZero() {
		args = append(args, periodStart, periodEnd)
		where += fmt.Sprintf(" AND p.period_start >= $%d AND p.period_end <= $%d", len(args)-1, len(args))
	}
	return s.listDetails(ctx, where, args...)
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]EvaluationDetail, error) {
	return s.listDetails(ctx, " WHERE p.employee_id = $1", employeeID)
}

func (s *Store) Update(ctx context.Context, evaluationID string, period Period, categories []CategoryScore, overall float64, comments string) (Evaluation, error) {
	payload, err := json.Marshal(categories)
	if err != nil {
		return Evaluation{}, err
	}
	return scanEvaluation(s.DB.QueryRow(ctx, `
    UPDATE performance_evaluations
    SET period_start = $1, period_end = $2, categories = $3, overall_score = $4, comments = $5, status = $6
    WHERE id = $7
    RETURNING `+evaluationColumns+`
  `, period.StartDate, period.EndDate, payload, overall, comments, StatusSubmitted, evaluationID))
}

func (s *Store) Acknowledge(ctx context.Context, evaluationID, comment string, when time.Time) (Evaluation, error) {
	return scanEvaluation(s.DB.QueryRow(ctx, `
    UPDATE performance_evaluations
    SET status = $1, acknowledged_at = $2, acknowledgement_comment = $3
    WHERE id = $4
    RETURNING `+evaluationColumns+`
  `, StatusAcknowledged, when, comment, evaluationID))
}

func (s *Store) Delete(ctx context.Context, evaluationID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_evaluations WHERE id = $1", evaluationID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// EmployeeExists guards evaluation creation against dangling references.
func (s *Store) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE id = $1", employeeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
