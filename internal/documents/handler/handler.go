// Package handler exposes the identity document intake endpoint.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"engage/internal/documents/service"
	"engage/internal/platform/middleware"
	id "engage/pkg/domain"
	dErrors "engage/pkg/domain-errors"
	"engage/pkg/platform/httputil"
)

// Service defines the document operations the handler needs.
type Service interface {
	Process(ctx context.Context, intake service.Intake) ([]service.FileRef, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts document endpoints on the router. Callers wrap the route
// group with the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/documents", h.HandleIntake)
}

// HandleIntake handles POST /documents requests.
func (h *Handler) HandleIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID, err := id.ParseUserID(middleware.GetUserID(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[IntakeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	docs := make([]service.Document, 0, len(req.Files))
	for _, f := range req.Files {
		docs = append(docs, service.Document{
			Name:        f.Name,
			ContentType: f.ContentType,
			Side:        f.Side,
			Data:        f.Data,
		})
	}

	refs, err := h.service.Process(ctx, service.Intake{
		UserID:         userID,
		SignupID:       id.SignupID(req.SignupID),
		Identification: req.Identification,
		Documents:      docs,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "document intake failed",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "documents recorded",
		"request_id", requestID,
		"user_id", userID.String(),
		"files", len(refs),
	)
	httputil.WriteJSON(w, http.StatusCreated, IntakeResponse{Files: refs})
}

// IntakeRequest is the HTTP request body for POST /documents. File data is
// base64 in transit, decoded by encoding/json into raw bytes.
type IntakeRequest struct {
	SignupID       string          `json:"signup_id"`
	Identification json.RawMessage `json:"identification"`
	Files          []FilePart      `json:"files"`
}

type FilePart struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Side        string `json:"side,omitempty"`
	Data        []byte `json:"data"`
}

const maxFileBytes = 10 << 20

func (r *IntakeRequest) Validate() error {
	if r.SignupID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "signup_id is required")
	}
	if len(r.Files) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one file is required")
	}
	for _, f := range r.Files {
		if f.Name == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "file name is required")
		}
		if len(f.Data) == 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "file data is required")
		}
		if len(f.Data) > maxFileBytes {
			return dErrors.New(dErrors.CodeInvalidInput, "file exceeds the 10MiB limit")
		}
	}
	return nil
}

// IntakeResponse is the HTTP response body for POST /documents.
type IntakeResponse struct {
	Files []service.FileRef `json:"files"`
}
