package testutil

import (
	"context"
	"net/http"

	"engage/internal/platform/middleware"
)

// WithUserID adds an authenticated user ID to the request context, simulating
// what the auth middleware does for a valid bearer token.
func WithUserID(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, userID)
	return req.WithContext(ctx)
}

// WithSessionID adds a session ID to the request context.
func WithSessionID(req *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeySessionID, sessionID)
	return req.WithContext(ctx)
}

// WithClientKey sets the wizard client key header.
func WithClientKey(req *http.Request, clientKey string) *http.Request {
	req.Header.Set(middleware.ClientKeyHeader, clientKey)
	return req
}

// WithBearer sets a bearer token on the request.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
