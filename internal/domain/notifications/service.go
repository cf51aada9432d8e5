package notifications

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	Store *Store
	Relay Relay
}

func New(store *Store, relay Relay) *Service {
	if relay == nil {
		relay = LogRelay{}
	}
	return &Service{Store: store, Relay: relay}
}

// Notify persists a notification for the user and pushes it through the
// relay. Relay failures never surface to the caller; a lost push only costs
// real-time delivery, the row is already stored.
func (s *Service) Notify(ctx context.Context, userID, ntype, title, message, importance string) {
	if importance == "" {
		importance = ImportanceMedium
	}
	notification, err := s.Store.Insert(ctx, userID, ntype, title, message, importance)
	if err != nil {
		slog.Warn("notification insert failed", "user", userID, "type", ntype, "err", err)
		return
	}
	s.Relay.Publish(ctx, userID, Event{Type: ntype, Payload: map[string]any{
		"notificationId": notification.ID,
		"title":          title,
		"message":        message,
	}})
}

func (s *Service) ListPage(ctx context.Context, userID string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.Store.Count(ctx, userID)
	if err != nil {
		return Page{}, err
	}

	items, err := s.Store.List(ctx, userID, PageSize, PageSize*(page-1))
	if err != nil {
		return Page{}, err
	}

	return Page{
		Notifications: items,
		Page:          page,
		Pages:         int(math.Ceil(float64(total) / float64(PageSize))),
		Total:         total,
	}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) (Notification, error) {
	notification, err := s.Store.MarkRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	return notification, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.Store.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, notificationID, userID string) error {
	deleted, err := s.Store.Delete(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
