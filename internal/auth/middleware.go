package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/log"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const claimsContextKey contextKey = "auth_claims"

// Middleware provides HTTP middleware for authentication.
type Middleware struct {
	tokens *TokenService
	logger *log.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(tokens *TokenService, logger *log.Logger) *Middleware {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Middleware{tokens: tokens, logger: logger}
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// attaches the token's claims to the request context otherwise.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r)
		if token == "" {
			m.writeAuthError(w, r, NewError(ErrTokenMissing, "no authentication token provided", nil))
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			m.writeAuthError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func (m *Middleware) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.WithContext(r.Context()).DebugContext(r.Context(), "authentication failed", "path", r.URL.Path, "error", err.Error())

	tfErr := ToTaskflowError(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="taskflow"`)
	w.WriteHeader(errors.HTTPStatus(tfErr))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  string(tfErr.Code),
		"error": tfErr.Message,
	})
}

// ExtractBearerToken returns the token of an "Authorization: Bearer" header,
// or "" when there is none.
func ExtractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ContextWithClaims returns a copy of ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims RequireAuth attached, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}
