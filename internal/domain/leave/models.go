package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	CategoryVacation  = "Vacation"
	CategorySick      = "Sick"
	CategoryPersonal  = "Personal"
	CategoryUnpaid    = "Unpaid"
	CategoryMaternity = "Maternity"
	CategoryPaternity = "Paternity"
)

// Categories lists every accepted leave category. The set is fixed; there is
// no pluggable accrual policy.
var Categories = []string{
	CategoryVacation,
	CategorySick,
	CategoryPersonal,
	CategoryUnpaid,
	CategoryMaternity,
	CategoryPaternity,
}

type Request struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Category   string    `json:"type"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	ApprovedBy string    `json:"approvedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RequestDetail carries requester metadata for the admin listing.
type RequestDetail struct {
	Request
	UserName       string `json:"userName"`
	UserEmail      string `json:"userEmail"`
	UserDepartment string `json:"userDepartment"`
	ApproverName   string `json:"approverName,omitempty"`
}

type Balance struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusApproved || status == StatusRejected
}
