package employee

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/auth"
)

var (
	ErrNotFound      = errors.New("employee not found")
	ErrEmailTaken    = errors.New("user already exists")
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrInvalidRole   = errors.New("invalid role")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
	ErrMissingField  = errors.New("name, email and password are required")
	ErrBadLogin      = errors.New("invalid email or password")
	ErrInactive      = errors.New("account is deactivated")
	ErrBadResetToken = errors.New("invalid or expired reset token")
)

const minPasswordLength = 8

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Register(ctx context.Context, name, email, password, role, department, position string) (User, error) {
	if name == "" || email == "" || password == "" {
		return User{}, ErrMissingField
	}
	if len(password) < minPasswordLength {
		return User{}, ErrWeakPassword
	}
	if role == "" {
		role = auth.RoleEmployee
	}
	if role != auth.RoleAdmin && role != auth.RoleEmployee {
		return User{}, ErrInvalidRole
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user, err := s.Store.Create(ctx, name, email, hash, role, department, position)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

// Authenticate checks credentials and account status. Login is the only
// place deactivation is enforced; issued tokens stay valid until expiry.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	creds, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrBadLogin
		}
		return User{}, err
	}
	if err := auth.CheckPassword(creds.PasswordHash, password); err != nil {
		return User{}, ErrBadLogin
	}
	if !creds.IsActive {
		return User{}, ErrInactive
	}
	return creds.User, nil
}

// StartPasswordReset issues a reset token for the account, returning the
// plaintext token. Only its hash is stored. Unknown emails succeed with an
// empty token so the endpoint does not leak which addresses exist.
func (s *Service) StartPasswordReset(ctx context.Context, email string, ttl time.Duration) (string, error) {
	creds, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	if err := s.Store.SetResetToken(ctx, creds.ID, hashResetToken(token), time.Now().UTC().Add(ttl)); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	userID, err := s.Store.ConsumeResetToken(ctx, hashResetToken(token), time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBadResetToken
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.UpdatePassword(ctx, userID, hash)
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	user, err := s.Store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// GetEmployee resolves an id only within the employee role, so admin
// accounts stay invisible to the employee directory.
func (s *Service) GetEmployee(ctx context.Context, userID string) (User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if user.Role != auth.RoleEmployee {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]User, error) {
	return s.Store.ListByRole(ctx, auth.RoleEmployee)
}

func (s *Service) EmployeeStats(ctx context.Context) (Stats, error) {
	return s.Store.StatsByRole(ctx, auth.RoleEmployee)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	user, err := s.Store.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// ChangePassword verifies the current password before accepting the new one.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := s.Store.PasswordHash(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := auth.CheckPassword(hash, currentPassword); err != nil {
		return ErrWrongPassword
	}

	newHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.UpdatePassword(ctx, userID, newHash)
}
