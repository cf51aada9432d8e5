package notifications

import "time"

const (
	ImportanceLow    = "low"
	ImportanceMedium = "medium"
	ImportanceHigh   = "high"
)

const (
	TypeLeaveStatus       = "leave_status"
	TypeTimesheetStatus   = "timesheet_status"
	TypeNewEvaluation     = "performance_review"
	TypeEvaluationUpdated = "performance_updated"
	TypeEvaluationAcked   = "performance_acknowledged"
)

// PageSize is fixed: the client paginates notifications ten at a time.
const PageSize = 10

type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Importance string    `json:"importance"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Page struct {
	Notifications []Notification `json:"notifications"`
	Page          int            `json:"page"`
	Pages         int            `json:"pages"`
	Total         int            `json:"total"`
}
