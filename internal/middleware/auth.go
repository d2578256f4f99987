package middleware

import (
	"context"
	"errors"
	"net/http"

	"go-checklist-api/internal/metrics"
	"go-checklist-api/internal/model"
	"go-checklist-api/pkg/apierror"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Session, error)
}

type tokenExtractor interface {
	Extract(r *http.Request) (string, bool)
}

type contextKey string

const sessionContextKey contextKey = "auth_session"

// AuthMiddleware gates routes on a verified session. Anonymous routes simply
// do not use it.
type AuthMiddleware struct {
	authenticator authenticator
	extractor     tokenExtractor
}

func NewAuthMiddleware(authenticator authenticator, extractor tokenExtractor) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator, extractor: extractor}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.extractor.Extract(r)
		if !ok {
			metrics.RecordDenied("missing_token")
			writeGateError(w, apierror.Unauthorized("Authentication required"))
			return
		}

		session, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			metrics.RecordDenied("invalid_session")
			writeGateError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			metrics.RecordDenied("missing_token")
			writeGateError(w, apierror.Unauthorized("Authentication required"))
			return
		}

		if !claims.IsAdmin() {
			metrics.RecordDenied("insufficient_role")
			writeGateError(w, apierror.Forbidden("Insufficient permissions"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) (model.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(model.Session)
	return session, ok
}

func ClaimsFromContext(ctx context.Context) (model.Claims, bool) {
	session, ok := SessionFromContext(ctx)
	return session.Claims, ok
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	session, ok := SessionFromContext(ctx)
	return session.User, ok
}

func writeGateError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.Internal()
	}
	writeAPIError(w, apiErr)
}
