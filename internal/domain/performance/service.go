package performance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound            = errors.New("evaluation not found")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrAcknowledged        = errors.New("cannot update acknowledged evaluation")
	ErrAlreadyAcknowledged = errors.New("evaluation already acknowledged")
	ErrNotOwner            = errors.New("not authorized for this evaluation")
	ErrNoCategories        = errors.New("at least one category score is required")
	ErrInvalidPeriod       = errors.New("period end before period start")
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func validatePeriod(period Period) error {
	if period.EndDate.Before(period.StartDate) {
		return ErrInvalidPeriod
	}
	return nil
}

func (s *Service) Create(ctx context.Context, employeeID, evaluatorID string, period Period, categories []CategoryScore, comments string) (Evaluation, error) {
	if len(categories) == 0 {
		return Evaluation{}, ErrNoCategories
	}
	if err := validatePeriod(period); err != nil {
		return Evaluation{}, err
	}
	overall, err := OverallScore(categories)
	if err != nil {
		return Evaluation{}, err
	}

	exists, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return Evaluation{}, err
	}
	if !exists {
		return Evaluation{}, ErrEmployeeNotFound
	}

	return s.Store.Insert(ctx, employeeID, evaluatorID, period, categories, overall, comments)
}

func (s *Service) ListAll(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]EvaluationDetail, error) {
	return s.Store.ListAll(ctx, employeeID, periodStart, periodEnd)
}

// MyEvaluations returns the employee's evaluations newest first along with
// an aggregate summary.
func (s *Service) MyEvaluations(ctx context.Context, employeeID string) ([]EvaluationDetail, MySummary, error) {
	evaluations, err := s.Store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, MySummary{}, err
	}

	summary := MySummary{Total: len(evaluations)}
	if len(evaluations) > 0 {
		var sum float64
		for _, evaluation := range evaluations {
			sum += evaluation.OverallScore
		}
		summary.AverageScore = sum / float64(len(evaluations))
		summary.LatestScore = evaluations[0].OverallScore
	}
	return evaluations, summary, nil
}

// Get enforces visibility: employees see their own evaluations, admins see
// all. The caller passes whether the actor is an admin.
func (s *Service) Get(ctx context.Context, evaluationID, actorID string, actorIsAdmin bool) (Evaluation, error) {
	evaluation, err := s.Store.Get(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}
	if evaluation.EmployeeID != actorID && !actorIsAdmin {
		return Evaluation{}, ErrNotOwner
	}
	return evaluation, nil
}

// Update rewrites an evaluation and recomputes its overall score. An
// acknowledged evaluation is immutable.
func (s *Service) Update(ctx context.Context, evaluationID string, period Period, categories []CategoryScore, comments string) (Evaluation, error) {
	current, err := s.Store.Get(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}
	if current.Status == StatusAcknowledged {
		return Evaluation{}, ErrAcknowledged
	}

	if len(categories) == 0 {
		categories = current.Categories
	}
	if comments == "" {
		comments = current.Comments
	}
	if period.StartDate.IsZero() || period.EndDate.IsZero() {
		period = current.Period
	}
	if err := validatePeriod(period); err != nil {
		return Evaluation{}, err
	}

	overall, err := OverallScore(categories)
	if err != nil {
		return Evaluation{}, err
	}
	return s.Store.Update(ctx, evaluationID, period, categories, overall, comments)
}

// Acknowledge records the employee's sign-off, once.
func (s *Service) Acknowledge(ctx context.Context, evaluationID, employeeID, comment string) (Evaluation, error) {
	current, err := s.Store.Get(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}
	if current.EmployeeID != employeeID {
		return Evaluation{}, ErrNotOwner
	}
	if current.Status == StatusAcknowledged {
		return Evaluation{}, ErrAlreadyAcknowledged
	}
	return s.Store.Acknowledge(ctx, evaluationID, comment, time.Now().UTC())
}

func (s *Service) Delete(ctx context.Context, evaluationID string) error {
	deleted, err := s.Store.Delete(ctx, evaluationID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
