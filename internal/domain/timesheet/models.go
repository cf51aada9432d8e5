package timesheet

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// RegularHoursPerDay is the overtime threshold: anything a single entry logs
// beyond it counts as overtime.
const RegularHoursPerDay = 8

type Entry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Date          time.Time `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	BreakHours    float64   `json:"breakDuration"`
	TotalHours    float64   `json:"totalHours"`
	Status        string    `json:"status"`
	StatusComment string    `json:"statusComment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EntryDetail carries owner metadata for the admin listing.
type EntryDetail struct {
	Entry
	UserName       string `json:"userName"`
	UserEmail      string `json:"userEmail"`
	UserDepartment string `json:"userDepartment"`
}

type Summary struct {
	TotalHours      float64 `json:"totalHours"`
	RegularHours    float64 `json:"regularHours"`
	OvertimeHours   float64 `json:"overtimeHours"`
	DaysWorked      int     `json:"daysWorked"`
	ApprovedEntries int     `json:"approvedEntries"`
	PendingEntries  int     `json:"pendingEntries"`
	RejectedEntries int     `json:"rejectedEntries"`
}

// DaySlot is one day of the week view: an empty default until an entry for
// that exact date overlays it.
type DaySlot struct {
	ID         string    `json:"id,omitempty"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	BreakHours float64   `json:"breakDuration"`
	TotalHours float64   `json:"totalHours"`
	Status     string    `json:"status"`
}

type WeekView struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Entries   []DaySlot `json:"entries"`
}

// Candidate is one element of a bulk upsert: an update when ID is set, an
// insert otherwise.
type Candidate struct {
	ID         string  `json:"_id"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakHours float64 `json:"breakDuration"`
}

type BulkResult struct {
	Modified int `json:"modified"`
	Inserted int `json:"inserted"`
	Total    int `json:"total"`
}

func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusApproved || status == StatusRejected
}
