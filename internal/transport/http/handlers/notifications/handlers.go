package notificationshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/unread", h.handleUnread)
		r.Put("/mark-all-read", h.handleMarkAllRead)
		r.Put("/{notificationID}/read", h.handleMarkRead)
		r.Delete("/{notificationID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	page, err := h.Service.ListPage(r.Context(), user.ID, shared.PageParam(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	api.JSON(w, http.StatusOK, page)
}

func (h *Handler) handleUnread(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	count, err := h.Service.UnreadCount(r.Context(), user.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}
	api.JSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	notificationID := chi.URLParam(r, "notificationID")

	notification, err := h.Service.MarkRead(r.Context(), notificationID, user.ID)
	if err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "notification not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to update notification")
		return
	}
	api.JSON(w, http.StatusOK, notification)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	if err := h.Service.MarkAllRead(r.Context(), user.ID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to update notifications")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	notificationID := chi.URLParam(r, "notificationID")

	if err := h.Service.Delete(r.Context(), notificationID, user.ID); err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "notification not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
