package notifications

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrms/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const notificationColumns = "id, user_id, type, title, message, importance, read, created_at"

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Importance, &n.Read, &n.CreatedAt)
	return n, err
}

func (s *Store) Insert(ctx context.Context, userID, ntype, title, message, importance string) (Notification, error) {
	return scanNotification(s.DB.QueryRow(ctx, `
    INSERT INTO notifications (user_id, type, title, message, importance)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING `+notificationColumns+`
  `, userID, ntype, title, message, importance))
}

func (s *Store) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+notificationColumns+`
    FROM notifications
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE user_id = $1", userID).Scan(&total)
	return total, err
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND read = false", userID).Scan(&total)
	return total, err
}

func (s *Store) MarkRead(ctx context.Context, notificationID, userID string) (Notification, error) {
	return scanNotification(s.DB.QueryRow(ctx, `
    UPDATE notifications SET read = true
    WHERE id = $1 AND user_id = $2
    RETURNING `+notificationColumns+`
  `, notificationID, userID))
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE notifications SET read = true WHERE user_id = $1 AND read = false", userID)
	return err
}

func (s *Store) Delete(ctx context.Context, notificationID, userID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM notifications WHERE id = $1 AND user_id = $2", notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
