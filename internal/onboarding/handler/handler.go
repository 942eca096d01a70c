// Package handler exposes the wizard's HTTP surface. Every route is scoped
// to the caller's client key; the router mounts the group behind
// middleware.RequireClientKey.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"engage/internal/onboarding/flows"
	"engage/internal/onboarding/models"
	"engage/internal/onboarding/service"
	"engage/internal/platform/middleware"
	dErrors "engage/pkg/domain-errors"
	"engage/pkg/platform/httputil"
)

// Service defines the wizard operations the handler needs.
type Service interface {
	CheckSession(ctx context.Context, clientKey, token string) service.CheckResult
	Resume(ctx context.Context, clientKey, token string) (models.Application, error)
	Discard(ctx context.Context, clientKey string) models.Application
	SelectCustomerType(ctx context.Context, clientKey string, customerType models.CustomerType) (service.SelectResult, error)
	Application(ctx context.Context, clientKey string) models.Application
	SubmitStep(ctx context.Context, clientKey string, stepKey flows.StepKey, payload json.RawMessage, authenticatedUserID string) (models.Application, error)
	Retreat(ctx context.Context, clientKey string) (models.Application, error)
	JumpTo(ctx context.Context, clientKey string, position int) (models.Application, error)
	Visibility(ctx context.Context, clientKey string, stepKey flows.StepKey) map[string]bool
	Submit(ctx context.Context, clientKey, authenticatedUserID string) (models.Application, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts wizard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/onboarding", func(r chi.Router) {
		r.Post("/session/check", h.HandleCheckSession)
		r.Post("/session/resume", h.HandleResume)
		r.Post("/session/discard", h.HandleDiscard)
		r.Post("/customer-type", h.HandleCustomerType)
		r.Get("/application", h.HandleApplication)
		r.Post("/steps/{key}", h.HandleSubmitStep)
		r.Get("/steps/{key}/visibility", h.HandleVisibility)
		r.Post("/retreat", h.HandleRetreat)
		r.Post("/jump", h.HandleJump)
		r.Post("/submit", h.HandleSubmit)
	})
}

// HandleCheckSession handles POST /onboarding/session/check requests.
func (h *Handler) HandleCheckSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientKey := middleware.GetClientKey(ctx)

	result := h.service.CheckSession(ctx, clientKey, middleware.BearerToken(r))
	httputil.WriteJSON(w, http.StatusOK, CheckSessionResponse{
		State:       string(result.State),
		Application: toApplicationResponse(result.Application),
	})
}

// HandleResume handles POST /onboarding/session/resume requests.
func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientKey := middleware.GetClientKey(ctx)

	app, err := h.service.Resume(ctx, clientKey, middleware.BearerToken(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "application resumed",
		"request_id", middleware.GetRequestID(ctx),
		"step", app.CurrentStep,
	)
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandleDiscard handles POST /onboarding/session/discard requests.
func (h *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app := h.service.Discard(ctx, middleware.GetClientKey(ctx))
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandleCustomerType handles POST /onboarding/customer-type requests.
func (h *Handler) HandleCustomerType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CustomerTypeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SelectCustomerType(ctx, middleware.GetClientKey(ctx),
		models.CustomerType(req.CustomerType))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if result.Redirect != "" {
		httputil.WriteJSON(w, http.StatusOK, CustomerTypeResponse{Redirect: result.Redirect})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CustomerTypeResponse{
		Application: toApplicationResponsePtr(result.Application),
	})
}

// HandleApplication handles GET /onboarding/application requests.
func (h *Handler) HandleApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app := h.service.Application(ctx, middleware.GetClientKey(ctx))
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandleSubmitStep handles POST /onboarding/steps/{key} requests. The body is
// the step's complete sub-record; the core stores it opaquely.
func (h *Handler) HandleSubmitStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	stepKey := flows.StepKey(chi.URLParam(r, "key"))

	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be valid JSON"))
		return
	}

	app, err := h.service.SubmitStep(ctx, middleware.GetClientKey(ctx), stepKey,
		payload, middleware.GetUserID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "step submission rejected",
			"request_id", requestID,
			"step", string(stepKey),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandleVisibility handles GET /onboarding/steps/{key}/visibility requests.
func (h *Handler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stepKey := flows.StepKey(chi.URLParam(r, "key"))
	sections := h.service.Visibility(ctx, middleware.GetClientKey(ctx), stepKey)
	httputil.WriteJSON(w, http.StatusOK, VisibilityResponse{Sections: sections})
}

// HandleRetreat handles POST /onboarding/retreat requests.
func (h *Handler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, err := h.service.Retreat(ctx, middleware.GetClientKey(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandleJump handles POST /onboarding/jump requests.
func (h *Handler) HandleJump(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[JumpRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.JumpTo(ctx, middleware.GetClientKey(ctx), req.Step)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandleSubmit handles POST /onboarding/submit requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	app, err := h.service.Submit(ctx, middleware.GetClientKey(ctx), middleware.GetUserID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "final submission rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "application submitted",
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusCreated, toApplicationResponse(app))
}

