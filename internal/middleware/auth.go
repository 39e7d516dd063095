package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"techradar-api/internal/model"
	"techradar-api/pkg/apierror"
)

type tokenVerifier interface {
	Verify(token string) (*model.AuthClaims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	verifier tokenVerifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthMiddleware(verifier tokenVerifier, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RequireAuth verifies the bearer credential and stores the decoded claims
// in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, apierror.CodeMissingToken, "Authentication token is required")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrMissingToken):
				writeError(w, http.StatusUnauthorized, apierror.CodeMissingToken, "Authentication token is required")
			case errors.Is(err, model.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, apierror.CodeTokenExpired, "Token has expired")
			default:
				writeError(w, http.StatusUnauthorized, apierror.CodeInvalidToken, "Invalid token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

// Authorize decides whether claims satisfy required. Roles compare exactly;
// there is no hierarchy. On success it returns a copy stamped with the
// verification time and leaves claims untouched.
func Authorize(claims *model.AuthClaims, required model.Role, now time.Time) (*model.AuthClaims, error) {
	if claims == nil {
		return nil, model.ErrUnauthenticated
	}
	if claims.Role != required {
		return nil, model.ErrForbidden
	}

	verified := *claims
	verified.RoleVerifiedAt = &now
	return &verified, nil
}

func (m *AuthMiddleware) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFromContext(r.Context())

			verified, err := Authorize(claims, role, m.now())
			if errors.Is(err, model.ErrUnauthenticated) {
				writeError(w, http.StatusUnauthorized, apierror.CodeUnauthenticated, "Authentication required")
				return
			}
			if err != nil {
				m.logger.Warn("role denied",
					"user_id", claims.UserID, "role", claims.Role, "required", role,
					"method", r.Method, "path", r.URL.Path)
				writeError(w, http.StatusForbidden, apierror.CodeForbidden, "Insufficient permissions")
				return
			}

			m.logger.Info("role verified",
				"user_id", verified.UserID, "role", verified.Role,
				"method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), verified)))
		})
	}
}

func WithClaims(ctx context.Context, claims *model.AuthClaims) context.Context {
	return context.WithValue(ctx, authClaimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok && claims != nil
}

// writeError renders the API error envelope for failures raised before a
// handler runs.
func writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
