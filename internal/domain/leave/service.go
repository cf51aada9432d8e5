package leave

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound         = errors.New("leave request not found")
	ErrAlreadyFinalized = errors.New("leave request already finalized")
	ErrInvalidCategory  = errors.New("invalid leave category")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrMissingReason    = errors.New("reason is required")
)

type Service struct {
	Store  *Store
	Engine *Engine
}

func NewService(store *Store, engine *Engine) *Service {
	return &Service{Store: store, Engine: engine}
}

// Balances computes the caller's per-category balance for the year from their
// approved requests.
func (s *Service) Balances(ctx context.Context, userID string, year int) (map[string]Balance, error) {
	approved, err := s.Store.ListApprovedForYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	return s.Engine.Balances(approved), nil
}

func (s *Service) MyRequests(ctx context.Context, userID string) ([]Request, error) {
	return s.Store.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context, status, category string, limit, offset int) (ListResult, error) {
	return s.Store.ListAll(ctx, status, category, limit, offset)
}

// Create validates and persists a new pending request owned by userID.
func (s *Service) Create(ctx context.Context, userID, category string, start, end time.Time, reason string) (Request, error) {
	if !ValidCategory(category) {
		return Request{}, ErrInvalidCategory
	}
	if strings.TrimSpace(reason) == "" {
		return Request{}, ErrMissingReason
	}
	if _, err := RequestDays(start, end); err != nil {
		return Request{}, err
	}
	return s.Store.Create(ctx, userID, category, start, end, reason)
}

// SetStatus transitions a pending request to approved or rejected. Finalized
// requests are terminal; re-transitioning one fails with ErrAlreadyFinalized.
func (s *Service) SetStatus(ctx context.Context, requestID, status, approverID string) (Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return Request{}, ErrInvalidStatus
	}

	current, err := s.Store.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	if current.Status != StatusPending {
		return Request{}, ErrAlreadyFinalized
	}

	return s.Store.UpdateStatus(ctx, requestID, status, approverID)
}

// Delete removes the caller's own pending request. Absent, foreign and
// finalized requests are indistinguishable to the caller.
func (s *Service) Delete(ctx context.Context, requestID, userID string) error {
	deleted, err := s.Store.DeletePending(ctx, requestID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
