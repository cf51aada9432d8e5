package employee

import "time"

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Credentials is the login-time view of a user; the hash never leaves the
// auth handler.
type Credentials struct {
	User
	PasswordHash string `json:"-"`
}

type Stats struct {
	Total       int      `json:"total"`
	Active      int      `json:"active"`
	Departments []string `json:"departments"`
}

type ProfileUpdate struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}
