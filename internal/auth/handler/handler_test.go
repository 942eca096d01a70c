package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage/internal/auth/service"
	id "engage/pkg/domain"
	dErrors "engage/pkg/domain-errors"
)

type fakeAuthService struct {
	signupResult service.SignupResult
	signupErr    error
	verifyResult service.VerifyResult
	verifyErr    error
	loggedOut    []string
}

func (f *fakeAuthService) Signup(ctx context.Context, email string) (service.SignupResult, error) {
	return f.signupResult, f.signupErr
}

func (f *fakeAuthService) Verify(ctx context.Context, email, code string) (service.VerifyResult, error) {
	return f.verifyResult, f.verifyErr
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) {
	f.loggedOut = append(f.loggedOut, token)
}

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.Default()).Register(r)
	return r
}

func TestHandleSignup(t *testing.T) {
	userID := id.UserID(uuid.New())
	router := newTestRouter(&fakeAuthService{
		signupResult: service.SignupResult{UserID: userID, Code: "123456"},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"jane.doe@example.com"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
	assert.Contains(t, rec.Body.String(), "verification_pending")
	// The one-time code is delivered out of band, never over this response.
	assert.NotContains(t, rec.Body.String(), "123456")
}

func TestHandleSignupRejectsBadEmail(t *testing.T) {
	router := newTestRouter(&fakeAuthService{})

	for _, body := range []string{
		`{"email":""}`,
		`{"email":"not-an-email"}`,
		`{}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestHandleSignupConflict(t *testing.T) {
	router := newTestRouter(&fakeAuthService{
		signupErr: dErrors.New(dErrors.CodeConflict, "email is already registered"),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"jane.doe@example.com"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleVerify(t *testing.T) {
	userID := id.UserID(uuid.New())
	router := newTestRouter(&fakeAuthService{
		verifyResult: service.VerifyResult{
			UserID:      userID,
			AccessToken: "signed.jwt.token",
			ExpiresIn:   3600,
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/verify",
		strings.NewReader(`{"email":"jane.doe@example.com","code":"123456"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signed.jwt.token")
	assert.Contains(t, rec.Body.String(), "Bearer")
}

func TestHandleVerifyRejectsBadCode(t *testing.T) {
	router := newTestRouter(&fakeAuthService{})

	for _, body := range []string{
		`{"email":"jane.doe@example.com","code":"12345"}`,
		`{"email":"jane.doe@example.com","code":"abcdef"}`,
		`{"email":"jane.doe@example.com"}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/verify", strings.NewReader(body))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestHandleVerifyUnauthorized(t *testing.T) {
	router := newTestRouter(&fakeAuthService{
		verifyErr: dErrors.New(dErrors.CodeUnauthorized, "verification code is invalid"),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/verify",
		strings.NewReader(`{"email":"jane.doe@example.com","code":"000000"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleLogout(t *testing.T) {
	svc := &fakeAuthService{}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"some-token"}, svc.loggedOut)
}
