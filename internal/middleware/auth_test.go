package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/httputil"
)

type stubVerifier struct {
	claims *models.TokenClaims
	err    error
}

func (v *stubVerifier) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	return v.claims, v.err
}

type stubUserRepo struct {
	upserted *models.User
	err      error
}

func (r *stubUserRepo) Upsert(ctx context.Context, user *models.User) error {
	r.upserted = user
	return r.err
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, domain.ErrUserNotFound
}

func newAuthedHandler(v *stubVerifier, users *stubUserRepo) (http.Handler, *string) {
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = httputil.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Auth(v, users, logger)(next), &seenUserID
}

func TestAuthMissingHeader(t *testing.T) {
	h, _ := newAuthedHandler(&stubVerifier{}, &stubUserRepo{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthWrongScheme(t *testing.T) {
	h, _ := newAuthedHandler(&stubVerifier{}, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	h, _ := newAuthedHandler(&stubVerifier{err: domain.ErrUnauthorized}, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidToken(t *testing.T) {
	claims := &models.TokenClaims{Email: "u@example.com", Name: "User FortyTwo"}
	claims.Subject = "user-42"
	users := &stubUserRepo{}
	h, seenUserID := newAuthedHandler(&stubVerifier{claims: claims}, users)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", *seenUserID)

	// The verified identity lands in the users table before any handler
	// runs, so rows referencing the user always have a target.
	require.NotNil(t, users.upserted)
	assert.Equal(t, "user-42", users.upserted.ID)
	assert.Equal(t, "u@example.com", users.upserted.Email)
	assert.Equal(t, "User FortyTwo", users.upserted.Name)
}

func TestAuthUpsertNameFallback(t *testing.T) {
	claims := &models.TokenClaims{Email: "u@example.com"}
	claims.Subject = "user-42"
	users := &stubUserRepo{}
	h, _ := newAuthedHandler(&stubVerifier{claims: claims}, users)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, users.upserted)
	assert.Equal(t, "u@example.com", users.upserted.Name, "tokens without a name claim fall back to email")
}

func TestAuthUpsertFailure(t *testing.T) {
	claims := &models.TokenClaims{Email: "u@example.com", Name: "User"}
	claims.Subject = "user-42"
	h, seenUserID := newAuthedHandler(&stubVerifier{claims: claims}, &stubUserRepo{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, *seenUserID, "handler must not run when provisioning fails")
}

func TestAuthHealthBypass(t *testing.T) {
	h, _ := newAuthedHandler(&stubVerifier{err: domain.ErrUnauthorized}, &stubUserRepo{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
