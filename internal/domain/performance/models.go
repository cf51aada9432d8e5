package performance

import "time"

const (
	StatusDraft        = "draft"
	StatusSubmitted    = "submitted"
	StatusAcknowledged = "acknowledged"
)

type CategoryScore struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Comments string  `json:"comments,omitempty"`
}

type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Evaluation struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employeeId"`
	EvaluatorID            string          `json:"evaluatorId"`
	Period                 Period          `json:"period"`
	Categories             []CategoryScore `json:"categories"`
	OverallScore           float64         `json:"overallScore"`
	Comments               string          `json:"comments,omitempty"`
	Status                 string          `json:"status"`
	AcknowledgedAt         *time.Time      `json:"acknowledgedAt,omitempty"`
	AcknowledgementComment string          `json:"acknowledgementComment,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
}

// EvaluationDetail adds the names the listings show alongside each record.
type EvaluationDetail struct {
	Evaluation
	EmployeeName  string `json:"employeeName,omitempty"`
	EvaluatorName string `json:"evaluatorName,omitempty"`
}

// MySummary is the employee-facing rollup returned with their evaluations.
type MySummary struct {
	Total        int     `json:"total"`
	AverageScore float64 `json:"averageScore"`
	LatestScore  float64 `json:"latestScore"`
}
