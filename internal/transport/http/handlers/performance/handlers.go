package performancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/notifications"
	"hrms/internal/domain/performance"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *performance.Service
	Notify  *notifications.Service
}

func NewHandler(service *performance.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreate)
		r.With(middleware.RequireAdmin).Get("/", h.handleListAll)
		r.Get("/my-evaluations", h.handleMyEvaluations)
		r.Get("/evaluation/{evaluationID}", h.handleGet)
		r.With(middleware.RequireAdmin).Put("/{evaluationID}", h.handleUpdate)
		r.Post("/{evaluationID}/acknowledge", h.handleAcknowledge)
		r.With(middleware.RequireAdmin).Delete("/{evaluationID}", h.handleDelete)
	})
}

type evaluationPayload struct {
	EmployeeID string                      `json:"employeeId"`
	Period     performance.Period          `json:"period"`
	Categories []performance.CategoryScore `json:"categories"`
	Comments   string                      `json:"comments"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload evaluationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	evaluation, err := h.Service.Create(r.Context(), payload.EmployeeID, user.ID, payload.Period, payload.Categories, payload.Comments)
	if err != nil {
		switch {
		case errors.Is(err, performance.ErrNoCategories), errors.Is(err, performance.ErrInvalidPeriod), errors.Is(err, performance.ErrScoreOutOfRange):
			api.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, performance.ErrEmployeeNotFound):
			api.Fail(w, http.StatusNotFound, "employee not found")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to create evaluation")
		}
		return
	}

	h.Notify.Notify(r.Context(), evaluation.EmployeeID, notifications.TypeNewEvaluation,
		"New performance evaluation",
		"A new performance evaluation has been created for you.",
		notifications.ImportanceHigh)

	api.JSON(w, http.StatusCreated, evaluation)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var periodStart, periodEnd time.Time
	if raw := query.Get("startDate"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		periodStart = parsed
	}
	if raw := query.Get("endDate"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		periodEnd = parsed
	}

	evaluations, err := h.Service.ListAll(r.Context(), query.Get("employeeId"), periodStart, periodEnd)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list evaluations")
		return
	}
	api.JSON(w, http.StatusOK, evaluations)
}

func (h *Handler) handleMyEvaluations(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	evaluations, summary, err := h.Service.MyEvaluations(r.Context(), user.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list evaluations")
		return
	}

	// The newest two double as the dashboard's recent-activity card.
	recent := evaluations
	if len(recent) > 2 {
		recent = recent[:2]
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"evaluations": evaluations,
		"summary":     summary,
		"recent":      recent,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	evaluationID := chi.URLParam(r, "evaluationID")

	evaluation, err := h.Service.Get(r.Context(), evaluationID, user.ID, user.IsAdmin())
	if err != nil {
		switch {
		case errors.Is(err, performance.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "evaluation not found")
		case errors.Is(err, performance.ErrNotOwner):
			api.Fail(w, http.StatusForbidden, "not authorized for this evaluation")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to load evaluation")
		}
		return
	}
	api.JSON(w, http.StatusOK, evaluation)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	evaluationID := chi.URLParam(r, "evaluationID")

	var payload evaluationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	evaluation, err := h.Service.Update(r.Context(), evaluationID, payload.Period, payload.Categories, payload.Comments)
	if err != nil {
		switch {
		case errors.Is(err, performance.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "evaluation not found")
		case errors.Is(err, performance.ErrAcknowledged):
			api.Fail(w, http.StatusConflict, "cannot update acknowledged evaluation")
		case errors.Is(err, performance.ErrInvalidPeriod), errors.Is(err, performance.ErrScoreOutOfRange):
			api.Fail(w, http.StatusBadRequest, err.Error())
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to update evaluation")
		}
		return
	}

	h.Notify.Notify(r.Context(), evaluation.EmployeeID, notifications.TypeEvaluationUpdated,
		"Performance evaluation updated",
		"One of your performance evaluations has been updated.",
		notifications.ImportanceMedium)

	api.JSON(w, http.StatusOK, evaluation)
}

type acknowledgeRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	evaluationID := chi.URLParam(r, "evaluationID")

	var payload acknowledgeRequest
	if r.Body != nil {
		// The comment is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	evaluation, err := h.Service.Acknowledge(r.Context(), evaluationID, user.ID, payload.Comment)
	if err != nil {
		switch {
		case errors.Is(err, performance.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "evaluation not found")
		case errors.Is(err, performance.ErrNotOwner):
			api.Fail(w, http.StatusForbidden, "not authorized for this evaluation")
		case errors.Is(err, performance.ErrAlreadyAcknowledged):
			api.Fail(w, http.StatusConflict, "evaluation already acknowledged")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to acknowledge evaluation")
		}
		return
	}

	h.Notify.Notify(r.Context(), evaluation.EvaluatorID, notifications.TypeEvaluationAcked,
		"Evaluation acknowledged",
		"An evaluation you created has been acknowledged by the employee.",
		notifications.ImportanceLow)

	api.JSON(w, http.StatusOK, evaluation)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	evaluationID := chi.URLParam(r, "evaluationID")

	if err := h.Service.Delete(r.Context(), evaluationID); err != nil {
		if errors.Is(err, performance.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "evaluation not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to delete evaluation")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "evaluation deleted"})
}
