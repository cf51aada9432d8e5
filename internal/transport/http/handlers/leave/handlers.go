package leavehandler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Notify  *notifications.Service
}

func NewHandler(service *leave.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/balance", h.handleBalance)
		r.Get("/my-leaves", h.handleMyLeaves)
		r.Get("/my-leaves/export", h.handleExport)
		r.Post("/", h.handleCreate)
		r.With(middleware.RequireAdmin).Get("/", h.handleListAll)
		r.With(middleware.RequireAdmin).Put("/{leaveID}/status", h.handleSetStatus)
		r.Delete("/{leaveID}", h.handleDelete)
	})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}

	balances, err := h.Service.Balances(r.Context(), user.ID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to compute leave balance")
		return
	}
	api.JSON(w, http.StatusOK, balances)
}

func (h *Handler) handleMyLeaves(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	requests, err := h.Service.MyRequests(r.Context(), user.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list leave requests")
		return
	}
	api.JSON(w, http.StatusOK, requests)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	requests, err := h.Service.MyRequests(r.Context(), user.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to export leave requests")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=leave-history.csv")

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"type", "startDate", "endDate", "days", "reason", "status"})
	for _, request := range requests {
		days, err := leave.RequestDays(request.StartDate, request.EndDate)
		if err != nil {
			days = 0
		}
		_ = writer.Write([]string{
			request.Category,
			request.StartDate.Format("2006-01-02"),
			request.EndDate.Format("2006-01-02"),
			strconv.Itoa(days),
			request.Reason,
			request.Status,
		})
	}
	writer.Flush()
}

type createRequest struct {
	Category  string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	var issues []api.ValidationIssue
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil {
		issues = append(issues, api.ValidationIssue{Field: "startDate", Message: "invalid date"})
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		issues = append(issues, api.ValidationIssue{Field: "endDate", Message: "invalid date"})
	}
	if len(issues) > 0 {
		api.FailValidation(w, issues)
		return
	}

	request, err := h.Service.Create(r.Context(), user.ID, payload.Category, start, end, payload.Reason)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInvalidCategory):
			api.FailValidation(w, []api.ValidationIssue{{Field: "type", Message: "invalid leave type"}})
		case errors.Is(err, leave.ErrMissingReason):
			api.FailValidation(w, []api.ValidationIssue{{Field: "reason", Message: "reason is required"}})
		case errors.Is(err, leave.ErrInvalidRange):
			api.FailValidation(w, []api.ValidationIssue{{Field: "endDate", Message: "end date must not be before start date"}})
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to create leave request")
		}
		return
	}
	api.JSON(w, http.StatusCreated, request)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 50
	if raw := query.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := (shared.PageParam(r) - 1) * limit

	result, err := h.Service.ListAll(r.Context(), query.Get("status"), query.Get("type"), limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list leave requests")
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"leaves": result.Requests,
		"total":  result.Total,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	request, err := h.Service.SetStatus(r.Context(), leaveID, payload.Status, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "leave request not found")
		case errors.Is(err, leave.ErrInvalidStatus):
			api.Fail(w, http.StatusBadRequest, "status must be approved or rejected")
		case errors.Is(err, leave.ErrAlreadyFinalized):
			api.Fail(w, http.StatusConflict, "leave request has already been finalized")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to update leave request")
		}
		return
	}

	h.Notify.Notify(r.Context(), request.UserID, notifications.TypeLeaveStatus,
		fmt.Sprintf("Leave request %s", request.Status),
		fmt.Sprintf("Your %s leave from %s to %s has been %s.",
			request.Category,
			request.StartDate.Format("2006-01-02"),
			request.EndDate.Format("2006-01-02"),
			request.Status),
		notifications.ImportanceHigh)

	api.JSON(w, http.StatusOK, request)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	if err := h.Service.Delete(r.Context(), leaveID, user.ID); err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "leave request not found or not deletable")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to delete leave request")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "leave request deleted"})
}
