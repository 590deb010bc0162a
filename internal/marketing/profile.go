// Package marketing defines the business context collected from the user:
// the profile, per-stage form inputs, voice settings, and workflow stages.
package marketing

import (
	"fmt"
	"slices"
	"strings"
)

// BusinessProfile is the accumulated description of the user's business.
// It starts empty and is overwritten field by field as the user edits it.
type BusinessProfile struct {
	BusinessName      string      `json:"business_name"`
	Industry          Industry    `json:"industry"`
	TargetAudience    string      `json:"target_audience"`
	MarketingGoals    string      `json:"marketing_goals"`
	BudgetRange       BudgetRange `json:"budget_range"`
	CurrentChallenges string      `json:"current_challenges"`
}

// NewProfile returns an empty profile with the default budget preselected.
func NewProfile() BusinessProfile {
	return BusinessProfile{BudgetRange: DefaultBudgetRange}
}

// Identified reports whether the profile names the business and its industry,
// the minimum context any generation needs.
func (p BusinessProfile) Identified() bool {
	return strings.TrimSpace(p.BusinessName) != "" && p.Industry != ""
}

// Validate checks enumerated fields. Free-text fields accept anything,
// including empty values.
func (p BusinessProfile) Validate() error {
	if !slices.Contains(Industries, p.Industry) {
		return invalid(fmt.Sprintf("unknown industry %q", p.Industry))
	}
	if p.BudgetRange != "" && !slices.Contains(BudgetRanges, p.BudgetRange) {
		return invalid(fmt.Sprintf("unknown budget range %q", p.BudgetRange))
	}
	return nil
}

// RequireIdentified returns a validation error unless the profile is Identified.
func (p BusinessProfile) RequireIdentified() error {
	if !p.Identified() {
		return invalid("Please fill in at least the Business Name and Industry fields.")
	}
	return nil
}
