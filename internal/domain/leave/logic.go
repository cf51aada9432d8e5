package leave

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidRange = errors.New("end date before start date")

// RequestDays returns the inclusive day count for a leave request. A request
// spanning a single calendar day counts as one day; partial-day remainders
// round up.
func RequestDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1, nil
}

// Engine computes per-category leave balances from approved requests. The
// policy is copied at construction so a shared map cannot change entitlements
// underneath it.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy.clone()}
}

// Balances aggregates used days per category over the given approved
// requests. Remaining is not clamped at zero: over-allocation is surfaced,
// not hidden. Requests in categories without an entitlement are skipped.
func (e *Engine) Balances(approved []Request) map[string]Balance {
	balances := make(map[string]Balance, len(e.policy))
	for category, entitlement := range e.policy {
		balances[category] = Balance{Total: entitlement, Remaining: entitlement}
	}

	for _, req := range approved {
		balance, ok := balances[req.Category]
		if !ok {
			continue
		}
		days, err := RequestDays(req.StartDate, req.EndDate)
		if err != nil {
			continue
		}
		balance.Used += days
		balance.Remaining = balance.Total - balance.Used
		balances[req.Category] = balance
	}
	return balances
}

// Entitlement reports the annual allowance for a category, false when the
// category carries none.
func (e *Engine) Entitlement(category string) (int, bool) {
	entitlement, ok := e.policy[category]
	return entitlement, ok
}
