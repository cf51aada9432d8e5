package employee

import (
	"context"
	"strings"
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

const userColumns = "id, name, email, role, COALESCE(department, ''), COALESCE(position, ''), is_active, created_at"

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &u.Position, &u.IsActive, &u.CreatedAt)
	return u, err
}

// FindByEmail matches case-insensitively; emails are stored lowercased but
// legacy rows may not be.
func (s *Store) FindByEmail(ctx context.Context, email string) (Credentials, error) {
	var c Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, COALESCE(department, ''), COALESCE(position, ''), is_active, created_at, password_hash
    FROM users
    WHERE lower(email) = $1
  `, strings.ToLower(strings.TrimSpace(email))).Scan(
		&c.ID, &c.Name, &c.Email, &c.Role, &c.Department, &c.Position, &c.IsActive, &c.CreatedAt, &c.PasswordHash)
	return c, err
}

func (s *Store) Get(ctx context.Context, userID string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1
  `, userID))
}

func (s *Store) PasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := s.DB.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", userID).Scan(&hash)
	return hash, err
}

func (s *Store) Create(ctx context.Context, name, email, passwordHash, role, department, position string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, department, position, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,true)
    RETURNING `+userColumns+`
  `, name, strings.ToLower(strings.TrimSpace(email)), passwordHash, role, department, position))
}

func (s *Store) ListByRole(ctx context.Context, role string) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE role = $1
    ORDER BY name
  `, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) StatsByRole(ctx context.Context, role string) (Stats, error) {
	var stats Stats
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE is_active),
           COALESCE(array_agg(DISTINCT department) FILTER (WHERE department IS NOT NULL AND department <> ''), '{}')
    FROM users
    WHERE role = $1
  `, role).Scan(&stats.Total, &stats.Active, &stats.Departments)
	return stats, err
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    UPDATE users
    SET name = COALESCE(NULLIF($1, ''), name),
        department = COALESCE(NULLIF($2, ''), department),
        position = COALESCE(NULLIF($3, ''), position),
        updated_at = now()
    WHERE id = $4
    RETURNING `+userColumns+`
  `, update.Name, update.Department, update.Position, userID))
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2", passwordHash, userID)
	return err
}

func (s *Store) SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users SET reset_token_hash = $1, reset_token_expires = $2, updated_at = now()
    WHERE id = $3
  `, tokenHash, expires, userID)
	return err
}

// ConsumeResetToken resolves a reset token to its user and clears it in one
// step so a token cannot be replayed.
func (s *Store) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, `
    UPDATE users SET reset_token_hash = NULL, reset_token_expires = NULL, updated_at = now()
    WHERE reset_token_hash = $1 AND reset_token_expires > $2
    RETURNING id
  `, tokenHash, now).Scan(&userID)
	return userID, err
}
