package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"folio/internal/auth"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/httputil"
)

// Auth validates the Bearer token on API routes and stores the user ID in
// the request context. Identity is external, so the verified claims are
// upserted into the users table here; every row referencing a user exists
// from the first authenticated request on. The health endpoint stays open
// so load balancers can probe without credentials.
func Auth(verifier auth.TokenVerifier, users repositories.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				logger.Debug("token verification failed", "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user := &models.User{
				ID:    claims.Subject,
				Email: claims.Email,
				Name:  claims.Name,
			}
			if user.Name == "" {
				user.Name = claims.Email
			}
			if err := users.Upsert(r.Context(), user); err != nil {
				logger.Error("user upsert failed", "user_id", claims.Subject, "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.Subject))
		})
	}
}
