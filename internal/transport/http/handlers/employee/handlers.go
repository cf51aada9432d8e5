package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *employee.Service
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleList)
		r.Get("/stats", h.handleStats)
		r.Get("/{employeeID}", h.handleGet)
	})
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/profile", h.handleProfile)
		r.Put("/profile", h.handleUpdateProfile)
		r.Put("/password", h.handleChangePassword)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	api.JSON(w, http.StatusOK, employees)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.EmployeeStats(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to compute employee stats")
		return
	}
	api.JSON(w, http.StatusOK, stats)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	user, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	api.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	profile, err := h.Service.Get(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "user not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	api.JSON(w, http.StatusOK, profile)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload employee.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), user.ID, payload)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "user not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	api.JSON(w, http.StatusOK, profile)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.Service.ChangePassword(r.Context(), user.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		switch {
		case errors.Is(err, employee.ErrWeakPassword):
			api.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, employee.ErrWrongPassword):
			api.Fail(w, http.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, employee.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "user not found")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
