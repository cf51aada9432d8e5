package leave

// Policy maps a leave category to its annual day entitlement. Categories
// missing from the map carry no entitlement and are left out of balance
// aggregation.
type Policy map[string]int

// DefaultPolicy matches the entitlements the product ships with.
func DefaultPolicy() Policy {
	return Policy{
		CategoryVacation: 21,
		CategorySick:     10,
		CategoryPersonal: 5,
	}
}

// clone guards the engine against callers mutating the map after injection.
func (p Policy) clone() Policy {
	out := make(Policy, len(p))
	for category, entitlement := range p {
		out[category] = entitlement
	}
	return out
}
