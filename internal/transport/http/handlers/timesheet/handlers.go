package timesheethandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"hrms/internal/domain/notifications"
	"hrms/internal/domain/timesheet"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *timesheet.Service
	Notify  *notifications.Service
}

func NewHandler(service *timesheet.Service, notify *notifications.Service) *Handler {
	return &Handler{Service: service, Notify: notify}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheet", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleWeek)
		r.Put("/bulk", h.handleBulk)
		r.Post("/", h.handleSubmit)
		r.Get("/summary", h.handleSummary)
		r.Get("/summary/export", h.handleSummaryExport)
		r.With(middleware.RequireAdmin).Get("/all", h.handleListAll)
		r.Put("/{entryID}", h.handleUpdate)
		r.With(middleware.RequireAdmin).Put("/{entryID}/status", h.handleSetStatus)
		r.Delete("/{entryID}", h.handleDelete)
	})
}

func (h *Handler) handleWeek(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	anchor := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid date")
			return
		}
		anchor = parsed
	}

	week, err := h.Service.Week(r.Context(), user.ID, anchor)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load timesheet week")
		return
	}
	api.JSON(w, http.StatusOK, week)
}

type bulkRequest struct {
	Entries []timesheet.Candidate `json:"entry"`
}

type bulkResponse struct {
	Message string               `json:"message"`
	Result  timesheet.BulkResult `json:"result"`
}

func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(payload.Entries) == 0 {
		api.Fail(w, http.StatusBadRequest, "entry list is required")
		return
	}

	result, err := h.Service.BulkUpsert(r.Context(), user.ID, payload.Entries)
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrInvalidDate),
			errors.Is(err, timesheet.ErrInvalidTimeFormat),
			errors.Is(err, timesheet.ErrEndBeforeStart),
			errors.Is(err, timesheet.ErrNegativeBreak),
			errors.Is(err, timesheet.ErrNonPositiveTotal):
			api.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, timesheet.ErrDuplicateDate):
			api.Fail(w, http.StatusBadRequest, "duplicate entries found for the same date")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to save timesheet entries")
		}
		return
	}
	api.JSON(w, http.StatusOK, bulkResponse{Message: "timesheet saved", Result: result})
}

type submitRequest struct {
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakHours float64 `json:"breakDuration"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	date, err := shared.ParseDate(payload.Date)
	if err != nil {
		api.FailValidation(w, []api.ValidationIssue{{Field: "date", Message: "invalid date"}})
		return
	}

	entry, err := h.Service.Submit(r.Context(), user.ID, date, payload.StartTime, payload.EndTime, payload.BreakHours)
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrInvalidTimeFormat),
			errors.Is(err, timesheet.ErrEndBeforeStart),
			errors.Is(err, timesheet.ErrNegativeBreak),
			errors.Is(err, timesheet.ErrNonPositiveTotal):
			api.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, timesheet.ErrImmutableEntry):
			api.Fail(w, http.StatusBadRequest, "cannot update approved or rejected timesheet entries")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to save timesheet entry")
		}
		return
	}
	api.JSON(w, http.StatusCreated, entry)
}

type updateRequest struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakHours float64 `json:"breakDuration"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	entryID := chi.URLParam(r, "entryID")

	var payload updateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	entry, err := h.Service.Update(r.Context(), entryID, user.ID, payload.StartTime, payload.EndTime, payload.BreakHours)
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrInvalidTimeFormat),
			errors.Is(err, timesheet.ErrEndBeforeStart),
			errors.Is(err, timesheet.ErrNegativeBreak),
			errors.Is(err, timesheet.ErrNonPositiveTotal):
			api.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, timesheet.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "timesheet entry not found")
		case errors.Is(err, timesheet.ErrImmutableEntry):
			api.Fail(w, http.StatusBadRequest, "cannot update approved or rejected timesheet entries")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to update timesheet entry")
		}
		return
	}
	api.JSON(w, http.StatusOK, entry)
}

type statusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"statusComment"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	entry, err := h.Service.SetStatus(r.Context(), entryID, payload.Status, payload.Comment)
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrInvalidStatus):
			api.Fail(w, http.StatusBadRequest, "invalid status")
		case errors.Is(err, timesheet.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "timesheet entry not found")
		default:
			api.Fail(w, http.StatusInternalServerError, "failed to update timesheet status")
		}
		return
	}

	h.Notify.Notify(r.Context(), entry.UserID, notifications.TypeTimesheetStatus,
		fmt.Sprintf("Timesheet %s", entry.Status),
		fmt.Sprintf("Your timesheet entry for %s has been %s.", entry.Date.Format("2006-01-02"), entry.Status),
		notifications.ImportanceMedium)

	api.JSON(w, http.StatusOK, entry)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	entryID := chi.URLParam(r, "entryID")

	if err := h.Service.Delete(r.Context(), entryID, user.ID); err != nil {
		if errors.Is(err, timesheet.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "timesheet entry not found or not deletable")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to delete timesheet entry")
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "timesheet entry deleted"})
}

func (h *Handler) summaryRange(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()
	rawFrom := query.Get("startDate")
	rawTo := query.Get("endDate")
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, errors.New("startDate and endDate are required")
	}
	from, err := shared.ParseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := shared.ParseDate(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	from, to, err := h.summaryRange(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	summary, err := h.Service.Summary(r.Context(), user.ID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to compute timesheet summary")
		return
	}
	api.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleSummaryExport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	from, to, err := h.summaryRange(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	entries, err := h.Service.RangeEntries(r.Context(), user.ID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to load timesheet entries")
		return
	}
	summary := timesheet.Summarize(entries)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Timesheet Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Total hours: %.2f", summary.TotalHours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Regular hours: %.2f", summary.RegularHours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overtime hours: %.2f", summary.OvertimeHours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Days worked: %d", summary.DaysWorked))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(30, 8, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Start", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "End", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Break", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Hours", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, entry := range entries {
		pdf.CellFormat(30, 8, entry.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, entry.StartTime, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, entry.EndTime, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", entry.BreakHours), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", entry.TotalHours), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, entry.Status, "1", 1, "", false, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=timesheet-%s-%s.pdf",
		from.Format("2006-01-02"), to.Format("2006-01-02")))
	if err := pdf.Output(w); err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to render pdf")
	}
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := timesheet.ListFilter{
		UserID: query.Get("userId"),
		Status: query.Get("status"),
		Limit:  50,
	}
	if raw := query.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			filter.Limit = n
		}
	}
	filter.Offset = (shared.PageParam(r) - 1) * filter.Limit
	if raw := query.Get("startDate"); raw != "" {
		if from, err := shared.ParseDate(raw); err == nil {
			filter.From = from
		}
	}
	if raw := query.Get("endDate"); raw != "" {
		if to, err := shared.ParseDate(raw); err == nil {
			filter.To = to
		}
	}

	result, err := h.Service.ListAll(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to list timesheet entries")
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"entries": result.Entries,
		"total":   result.Total,
	})
}
