package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Plan identifies a subscription plan accepted by the update endpoint
type Plan string

const (
	PlanMonthlySpiritual Plan = "monthly_spiritual"
	PlanAnnualSpiritual  Plan = "annual_spiritual"
	PlanFree             Plan = "free"
)

// Plans lists the selectable plans in display order
var Plans = []Plan{PlanMonthlySpiritual, PlanAnnualSpiritual, PlanFree}

// Label returns the human-readable plan name
func (p Plan) Label() string {
	switch p {
	case PlanMonthlySpiritual:
		return "Monthly Spiritual"
	case PlanAnnualSpiritual:
		return "Annual Spiritual"
	case PlanFree:
		return "Free"
	}
	return string(p)
}

// Valid reports whether p is one of the known plans
func (p Plan) Valid() bool {
	for _, known := range Plans {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlan converts a plan identifier into a Plan
func ParsePlan(s string) (Plan, error) {
	p := Plan(strings.TrimSpace(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
	return p, nil
}

// Subscription is the server's subscription record. The client never looks
// inside it; it is only re-serialized for display.
type Subscription = json.RawMessage

// LookupRequest identifies the user whose subscription is fetched
type LookupRequest struct {
	UserID string `json:"userId"`
}

// UpdateRequest is the body of a plan-change request
type UpdateRequest struct {
	UserID        string `json:"userId"`
	NewPlan       Plan   `json:"newPlan"`
	EffectiveDate string `json:"effectiveDate"`
}

// Validate checks that every field is present
func (r UpdateRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" || strings.TrimSpace(string(r.NewPlan)) == "" || strings.TrimSpace(r.EffectiveDate) == "" {
		return ErrMissingFields
	}
	return nil
}
