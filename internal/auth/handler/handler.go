// Package handler exposes the signup and verification endpoints consumed by
// the email step of the wizard.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"engage/internal/auth/service"
	"engage/internal/platform/middleware"
	"engage/pkg/platform/httputil"
)

// Service defines the auth operations the handler needs.
type Service interface {
	Signup(ctx context.Context, email string) (service.SignupResult, error)
	Verify(ctx context.Context, email, code string) (service.VerifyResult, error)
	Logout(ctx context.Context, token string)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.HandleSignup)
	r.Post("/auth/verify", h.HandleVerify)
	r.Post("/auth/logout", h.HandleLogout)
}

// HandleSignup handles POST /auth/signup requests.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Signup(ctx, req.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "signup failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "signup accepted",
		"request_id", requestID,
		"user_id", result.UserID.String(),
	)
	httputil.WriteJSON(w, http.StatusAccepted, SignupResponse{
		UserID: result.UserID.String(),
		Status: "verification_pending",
	})
}

// HandleVerify handles POST /auth/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Verify(ctx, req.Email, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "verification failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user verified",
		"request_id", requestID,
		"user_id", result.UserID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{
		UserID:      result.UserID.String(),
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   result.ExpiresIn,
	})
}

// HandleLogout handles POST /auth/logout requests. Always 204: logging out
// an already-dead session is not an error.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		h.service.Logout(r.Context(), token)
	}
	w.WriteHeader(http.StatusNoContent)
}
