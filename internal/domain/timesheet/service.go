package timesheet

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("timesheet entry not found")
	ErrImmutableEntry = errors.New("cannot update approved or rejected timesheet entries")
	ErrDuplicateDate  = errors.New("duplicate entries found for the same date")
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidStatus  = errors.New("invalid status")
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Week returns the seven-slot view for the week containing anchor, caller
// scoped.
func (s *Service) Week(ctx context.Context, userID string, anchor time.Time) (WeekView, error) {
	start, end := WeekBounds(anchor)
	entries, err := s.Store.ListRange(ctx, userID, start, end)
	if err != nil {
		return WeekView{}, err
	}
	return BuildWeekView(anchor, entries), nil
}

func (s *Service) Summary(ctx context.Context, userID string, from, to time.Time) (Summary, error) {
	entries, err := s.Store.ListRange(ctx, userID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(entries), nil
}

func (s *Service) RangeEntries(ctx context.Context, userID string, from, to time.Time) ([]Entry, error) {
	return s.Store.ListRange(ctx, userID, from, to)
}

// Submit creates or updates the single entry for (userID, date). An existing
// pending entry is rewritten; a finalized one refuses the update.
func (s *Service) Submit(ctx context.Context, userID string, date time.Time, startTime, endTime string, breakHours float64) (Entry, error) {
	hours, err := ComputeEntryHours(startTime, endTime, breakHours)
	if err != nil {
		return Entry{}, err
	}
	total := hours.InexactFloat64()

	existing, err := s.Store.GetByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		if existing.Status != StatusPending {
			return Entry{}, ErrImmutableEntry
		}
		return s.Store.UpdateHoursPending(ctx, existing.ID, userID, startTime, endTime, breakHours, total)
	case errors.Is(err, pgx.ErrNoRows):
		return s.Store.Insert(ctx, userID, date, startTime, endTime, breakHours, total)
	default:
		return Entry{}, err
	}
}

// Update recomputes and rewrites an entry by id. Only the owner's pending
// entries are mutable.
func (s *Service) Update(ctx context.Context, entryID, userID, startTime, endTime string, breakHours float64) (Entry, error) {
	hours, err := ComputeEntryHours(startTime, endTime, breakHours)
	if err != nil {
		return Entry{}, err
	}

	entry, err := s.Store.UpdateHoursPending(ctx, entryID, userID, startTime, endTime, breakHours, hours.InexactFloat64())
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, err
	}

	// Distinguish a missing entry from a finalized one for the owner.
	existing, getErr := s.Store.Get(ctx, entryID)
	if getErr != nil || existing.UserID != userID {
		return Entry{}, ErrNotFound
	}
	return Entry{}, ErrImmutableEntry
}

// BulkUpsert validates every candidate before touching the store: one bad
// candidate rejects the whole batch. Valid batches are applied in one
// round trip; updates aimed at finalized rows are skipped silently and only
// aggregate counts are reported.
func (s *Service) BulkUpsert(ctx context.Context, userID string, candidates []Candidate) (BulkResult, error) {
	ops := make([]bulkOp, 0, len(candidates))
	for _, candidate := range candidates {
		date, err := time.Parse("2006-01-02", candidate.Date)
		if err != nil {
			if date, err = time.Parse(time.RFC3339, candidate.Date); err != nil {
				return BulkResult{}, ErrInvalidDate
			}
		}

		hours, err := ComputeEntryHours(candidate.StartTime, candidate.EndTime, candidate.BreakHours)
		if err != nil {
			return BulkResult{}, err
		}

		ops = append(ops, bulkOp{
			insert:     candidate.ID == "",
			entryID:    candidate.ID,
			date:       time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			startTime:  candidate.StartTime,
			endTime:    candidate.EndTime,
			breakHours: candidate.BreakHours,
			totalHours: hours.InexactFloat64(),
		})
	}

	result, err := s.Store.ApplyBulk(ctx, userID, ops)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return result, ErrDuplicateDate
		}
		return result, err
	}
	return result, nil
}

// SetStatus is the approver-side transition: unconditional overwrite plus an
// optional comment.
func (s *Service) SetStatus(ctx context.Context, entryID, status, comment string) (Entry, error) {
	if !ValidStatus(status) {
		return Entry{}, ErrInvalidStatus
	}
	entry, err := s.Store.UpdateStatus(ctx, entryID, status, comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, entryID, userID string) error {
	deleted, err := s.Store.DeletePending(ctx, entryID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListAll(ctx context.Context, filter ListFilter) (ListResult, error) {
	return s.Store.ListAll(ctx, filter)
}
