package timesheet

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

const entryColumns = "id, user_id, entry_date, start_time, end_time, break_hours, total_hours, status, COALESCE(status_comment, ''), created_at, updated_at"

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.StartTime, &e.EndTime, &e.BreakHours, &e.TotalHours, &e.Status, &e.StatusComment, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *Store) Get(ctx context.Context, entryID string) (Entry, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM timesheet_entries
    WHERE id = $1
  `, entryID))
}

func (s *Store) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Entry, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM timesheet_entries
    WHERE user_id = $1 AND entry_date = $2
  `, userID, date))
}

func (s *Store) Insert(ctx context.Context, userID string, date time.Time, startTime, endTime string, breakHours, totalHours float64) (Entry, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    INSERT INTO timesheet_entries (user_id, entry_date, start_time, end_time, break_hours, total_hours, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING `+entryColumns+`
  `, userID, date, startTime, endTime, breakHours, totalHours, StatusPending))
}

// UpdateHoursPending rewrites the time fields of the owner's entry, but only
// while it is still pending. pgx.ErrNoRows signals the row was missing,
// foreign or finalized.
func (s *Store) UpdateHoursPending(ctx context.Context, entryID, userID, startTime, endTime string, breakHours, totalHours float64) (Entry, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    UPDATE timesheet_entries
    SET start_time = $1, end_time = $2, break_hours = $3, total_hours = $4, updated_at = now()
    WHERE id = $5 AND user_id = $6 AND status = $7
    RETURNING `+entryColumns+`
  `, startTime, endTime, breakHours, totalHours, entryID, userID, StatusPending))
}

func (s *Store) UpdateStatus(ctx context.Context, entryID, status, comment string) (Entry, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    UPDATE timesheet_entries
    SET status = $1, status_comment = COALESCE(NULLIF($2, ''), status_comment), updated_at = now()
    WHERE id = $3
    RETURNING `+entryColumns+`
  `, status, comment, entryID))
}

func (s *Store) ListRange(ctx context.Context, userID string, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM timesheet_entries
    WHERE user_id = $1 AND entry_date BETWEEN $2 AND $3
    ORDER BY entry_date
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) DeletePending(ctx context.Context, entryID, userID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM timesheet_entries
    WHERE id = $1 AND user_id = $2 AND status = $3
  `, entryID, userID, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type ListFilter struct {
	UserID string
	Status string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type ListResult struct {
	Entries []EntryDetail
	Total   int
}

func (s *Store) ListAll(ctx context.Context, filter ListFilter) (ListResult, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where += fmt.Sprintf(" AND t.user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if !filter.From.IsZero() && !filter.To.IsZero() {
		args = append(args, filter.From, filter.To)
		where += fmt.Sprintf(" AND t.entry_date BETWEEN $%d AND $%d", len(args)-1, len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM timesheet_entries t"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := `
    SELECT t.id, t.user_id, t.entry_date, t.start_time, t.end_time, t.break_hours, t.total_hours,
           t.status, COALESCE(t.status_comment, ''), t.created_at, t.updated_at,
           u.name, u.email, u.department
    FROM timesheet_entries t
    JOIN users u ON u.id = t.user_id` + where + `
    ORDER BY t.entry_date DESC`
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	var details []EntryDetail
	for rows.Next() {
		var d EntryDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.StartTime, &d.EndTime, &d.BreakHours, &d.TotalHours,
			&d.Status, &d.StatusComment, &d.CreatedAt, &d.UpdatedAt, &d.UserName, &d.UserEmail, &d.UserDepartment); err != nil {
			return ListResult{}, err
		}
		details = append(details, d)
	}
	return ListResult{Entries: details, Total: total}, rows.Err()
}

type bulkOp struct {
	insert     bool
	entryID    string
	date       time.Time
	startTime  string
	endTime    string
	breakHours float64
	totalHours float64
}

// ApplyBulk sends the whole batch to the store in one round trip. Updates
// filtered down to pending rows; an update hitting a finalized row affects
// zero rows and is counted as skipped, not failed. The batch is not
// transactional across items.
func (s *Store) ApplyBulk(ctx context.Context, userID string, ops []bulkOp) (BulkResult, error) {
	batch := &pgx.Batch{}
	for _, op := range ops {
		if op.insert {
			batch.Queue(`
        INSERT INTO timesheet_entries (user_id, entry_date, start_time, end_time, break_hours, total_hours, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
      `, userID, op.date, op.startTime, op.endTime, op.breakHours, op.totalHours, StatusPending)
		} else {
			batch.Queue(`
        UPDATE timesheet_entries
        SET entry_date = $1, start_time = $2, end_time = $3, break_hours = $4, total_hours = $5, updated_at = now()
        WHERE id = $6 AND user_id = $7 AND status = $8
      `, op.date, op.startTime, op.endTime, op.breakHours, op.totalHours, op.entryID, userID, StatusPending)
		}
	}

	results := s.DB.SendBatch(ctx, batch)
	defer results.Close()

	var out BulkResult
	for _, op := range ops {
		tag, err := results.Exec()
		if err != nil {
			return out, err
		}
		if op.insert {
			out.Inserted += int(tag.RowsAffected())
		} else {
			out.Modified += int(tag.RowsAffected())
		}
	}
	out.Total = out.Inserted + out.Modified
	return out, nil
}
