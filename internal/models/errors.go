package models

import (
	"errors"
)

// Validation errors, detected before any request is sent
var (
	// ErrMissingFields is returned when an update request has an empty field
	ErrMissingFields = errors.New("please fill all fields for update")

	// ErrInvalidPlan is returned for a plan identifier outside the known set
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrInvalidEffectiveDate is returned when the effective date cannot be parsed
	ErrInvalidEffectiveDate = errors.New("invalid effective date")
)
