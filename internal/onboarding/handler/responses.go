package handler

import (
	"encoding/json"

	"engage/internal/onboarding/models"
)

// ApplicationResponse is the wire shape of the wizard state.
type ApplicationResponse struct {
	FlowVariant string                     `json:"flow_variant"`
	CurrentStep int                        `json:"current_step"`
	FormData    map[string]json.RawMessage `json:"form_data"`
}

func toApplicationResponse(app models.Application) ApplicationResponse {
	formData := app.FormData
	if formData == nil {
		formData = models.FormData{}
	}
	return ApplicationResponse{
		FlowVariant: string(app.FlowVariant),
		CurrentStep: app.CurrentStep,
		FormData:    formData,
	}
}

func toApplicationResponsePtr(app models.Application) *ApplicationResponse {
	resp := toApplicationResponse(app)
	return &resp
}

// CheckSessionResponse is the HTTP response body for POST /onboarding/session/check.
type CheckSessionResponse struct {
	State       string              `json:"state"`
	Application ApplicationResponse `json:"application"`
}

// CustomerTypeResponse is the HTTP response body for POST /onboarding/customer-type.
type CustomerTypeResponse struct {
	Application *ApplicationResponse `json:"application,omitempty"`
	Redirect    string               `json:"redirect,omitempty"`
}

// VisibilityResponse is the HTTP response body for GET /onboarding/steps/{key}/visibility.
type VisibilityResponse struct {
	Sections map[string]bool `json:"sections"`
}
