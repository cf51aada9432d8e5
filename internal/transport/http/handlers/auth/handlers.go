package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

const resetTokenTTL = time.Hour

type Handler struct {
	Employees     *employee.Service
	JWTSecret     string
	TokenTTL      time.Duration
	Secure        bool
	RatePerMinute int
}

func NewHandler(employees *employee.Service, jwtSecret string, tokenTTL time.Duration, secure bool, ratePerMinute int) *Handler {
	return &Handler{Employees: employees, JWTSecret: jwtSecret, TokenTTL: tokenTTL, Secure: secure, RatePerMinute: ratePerMinute}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	// Credential endpoints share a per-IP throttle against brute forcing.
	throttle := middleware.RateLimit(h.RatePerMinute, time.Minute)

	r.Route("/auth", func(r chi.Router) {
		r.With(throttle).Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.With(middleware.RequireAdmin).Post("/register", h.handleRegister)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.With(throttle).Post("/forgot-password", h.handleForgotPassword)
		r.With(throttle).Put("/reset-password/{token}", h.handleResetPassword)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  employee.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		api.FailValidation(w, []api.ValidationIssue{
			{Field: "email", Message: "email is required"},
			{Field: "password", Message: "password is required"},
		})
		return
	}

	user, err := h.Employees.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrBadLogin):
			api.Fail(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, employee.ErrInactive):
			api.Fail(w, http.StatusForbidden, "account is deactivated")
		default:
			api.Fail(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	api.JSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	api.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.Employees.Register(r.Context(), payload.Name, payload.Email, payload.Password, payload.Role, payload.Department, payload.Position)
	if err != nil {
		switch {
		case errors.Is(err, employee.ErrMissingField), errors.Is(err, employee.ErrWeakPassword), errors.Is(err, employee.ErrInvalidRole):
			api.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, employee.ErrEmailTaken):
			api.Fail(w, http.StatusConflict, "user already exists")
		default:
			api.Fail(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}
	api.JSON(w, http.StatusCreated, user)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	current, err := h.Employees.Get(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "user not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	api.JSON(w, http.StatusOK, current)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.Employees.StartPasswordReset(r.Context(), payload.Email, resetTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to start password reset")
		return
	}

	// The response never varies, so the endpoint cannot be used to discover
	// which emails exist. Without a mail relay the token goes to the server
	// log; an operator hands it to the user out of band.
	if token != "" {
		slog.Info("password reset token issued", "email", payload.Email, "token", token)
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "if the account exists, a reset link has been issued"})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.Employees.ResetPassword(r.Context(), token, payload.Password); err != nil {
		switch {
		case errors.Is(err, employee.ErrWeakPassword):
			api.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, employee.ErrBadResetToken):
			api.Fail(w, http.StatusBadRequest, "invalid or expired reset token")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to reset password")
		}
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})
}
