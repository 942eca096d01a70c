package handler

import (
	"strconv"

	dErrors "engage/pkg/domain-errors"
)

// CustomerTypeRequest is the HTTP request body for POST /onboarding/customer-type.
type CustomerTypeRequest struct {
	CustomerType string `json:"customer_type"`
}

func (r *CustomerTypeRequest) Validate() error {
	if r.CustomerType == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "customer_type is required")
	}
	return nil
}

// JumpRequest is the HTTP request body for POST /onboarding/jump.
type JumpRequest struct {
	Step int `json:"step"`
}

func (r *JumpRequest) Validate() error {
	if r.Step < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "step must be at least 1, got "+strconv.Itoa(r.Step))
	}
	return nil
}
