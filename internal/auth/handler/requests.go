package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "engage/pkg/domain-errors"
)

// SignupRequest is the HTTP request body for POST /auth/signup.
type SignupRequest struct {
	Email string `json:"email"`
}

func (r *SignupRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if !govalidator.StringLength(r.Email, "3", "255") || !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "email must be a valid email address")
	}
	return nil
}

// VerifyRequest is the HTTP request body for POST /auth/verify.
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r *VerifyRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Code = strings.TrimSpace(r.Code)
	if r.Email == "" || !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "email must be a valid email address")
	}
	if !govalidator.StringLength(r.Code, "6", "6") || !govalidator.IsNumeric(r.Code) {
		return dErrors.New(dErrors.CodeInvalidInput, "code must be a 6-digit number")
	}
	return nil
}
