package domain

import (
	"bytes"
	"strings"
)

// PolicyStatus distinguishes active policies from everything else the
// core API may report (expired, cancelled, pending renewal, ...).
type PolicyStatus string

const (
	PolicyActive PolicyStatus = "active"
	PolicyOther  PolicyStatus = "other"
)

// UnmarshalJSON folds the core's status vocabulary (Spanish and
// English variants, mixed case) down to active/other.
func (s *PolicyStatus) UnmarshalJSON(data []byte) error {
	raw := strings.ToLower(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	switch raw {
	case "active", "activa", "activo", "vigente":
		*s = PolicyActive
	default:
		*s = PolicyOther
	}
	return nil
}

// Policy is an insurance policy snapshot as supplied by the core API.
// Entities are immutable: the portal aggregates and filters them but
// never mutates them.
type Policy struct {
	PolicyNumber   string       `json:"policy_number"`
	Company        string       `json:"company"`
	CoverageType   string       `json:"coverage_type"`
	Branch         string       `json:"branch"`
	TotalPremium   Premium      `json:"total_premium"`
	ExpirationDate string       `json:"expiration_date"`
	Status         PolicyStatus `json:"status"`
}

// TotalPremium sums the premiums of a policy list. It is derived, not
// fetched, and recomputed whenever the policy list changes.
func TotalPremium(policies []Policy) float64 {
	var total float64
	for _, p := range policies {
		total += float64(p.TotalPremium)
	}
	return total
}
