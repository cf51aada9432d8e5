package leave

import (
	"context"
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

const requestColumns = "id, user_id, category, start_date, end_date, reason, status, COALESCE(approved_by::text, ''), created_at, updated_at"

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.UserID, &req.Category, &req.StartDate, &req.EndDate, &req.Reason, &req.Status, &req.ApprovedBy, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func (s *Store) Create(ctx context.Context, userID, category string, start, end time.Time, reason string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, category, start_date, end_date, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+requestColumns+`
  `, userID, category, start, end, reason, StatusPending))
}

func (s *Store) Get(ctx context.Context, requestID string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, requestID))
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE user_id = $1
    ORDER BY created_at DESC
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// ListApprovedForYear returns approved requests whose start date falls within
// the calendar year. End dates spilling into the next year still count in
// full against this year, matching the balance aggregation rule.
func (s *Store) ListApprovedForYear(ctx context.Context, userID string, year int) ([]Request, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE user_id = $1 AND status = $2 AND start_date BETWEEN $3 AND $4
  `, userID, StatusApproved, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

type ListResult struct {
	Requests []RequestDetail
	Total    int
}

func (s *Store) ListAll(ctx context.Context, status, category string, limit, offset int) (ListResult, error) {
	where := " WHERE 1=1"
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += " AND r.status = $1"
	}
	if category != "" {
		args = append(args, category)
		if status != "" {
			where += " AND r.category = $2"
		} else {
			where += " AND r.category = $1"
		}
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests r"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := `
    SELECT r.id, r.user_id, r.category, r.start_date, r.end_date, r.reason, r.status,
           COALESCE(r.approved_by::text, ''), r.created_at, r.updated_at,
           u.name, u.email, u.department, COALESCE(a.name, '')
    FROM leave_requests r
    JOIN users u ON u.id = r.user_id
    LEFT JOIN users a ON a.id = r.approved_by` + where + `
    ORDER BY r.created_at DESC`
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	limitArgs := append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, limitArgs...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	var details []RequestDetail
	for rows.Next() {
		var d RequestDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.Category, &d.StartDate, &d.EndDate, &d.Reason, &d.Status,
			&d.ApprovedBy, &d.CreatedAt, &d.UpdatedAt, &d.UserName, &d.UserEmail, &d.UserDepartment, &d.ApproverName); err != nil {
			return ListResult{}, err
		}
		details = append(details, d)
	}
	return ListResult{Requests: details, Total: total}, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, requestID, status, approverID string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $1, approved_by = $2, updated_at = now()
    WHERE id = $3
    RETURNING `+requestColumns+`
  `, status, approverID, requestID))
}

// DeletePending removes the request only when it belongs to userID and is
// still pending. The caller cannot tell a foreign request from a finalized
// one; both read as not found.
func (s *Store) DeletePending(ctx context.Context, requestID, userID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM leave_requests
    WHERE id = $1 AND user_id = $2 AND status = $3
  `, requestID, userID, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
