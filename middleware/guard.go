// Package middleware provides the request guards applied in front of
// privileged handlers: bearer token extraction, verification, a fresh
// account reload, active/lock checks, and permission enforcement.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clayworks/adminauth"
	"github.com/clayworks/adminauth/permission"
)

type accountContextKey struct{}

// AccountFromContext returns the authenticated account a guard attached to
// the request context.
func AccountFromContext(ctx context.Context) (*adminauth.Account, bool) {
	account, ok := ctx.Value(accountContextKey{}).(*adminauth.Account)
	return account, ok
}

// Guard rejects requests without a valid token whose subject is still an
// active, unlocked account. When required permissions are given, the
// caller must hold at least one of them (or be a primary administrator);
// failures come back as 403 listing the full required set, distinct from
// the 401 of a failed authentication.
//
// The expired-vs-invalid token distinction is logged but never sent to the
// client; both are a bare 401.
func Guard(gw *adminauth.Gateway, logger *slog.Logger, required ...permission.Ref) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, err := authenticate(gw, r)
			if err != nil {
				logger.WarnContext(r.Context(), "request rejected",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
				writeError(w, http.StatusUnauthorized, adminauth.ErrUnauthenticated.Error(), nil)
				return
			}

			if len(required) > 0 && !holdsAny(account, required) {
				permErr := &adminauth.PermissionError{Required: required}
				logger.WarnContext(r.Context(), "request forbidden",
					slog.String("path", r.URL.Path),
					slog.String("account_id", account.ID),
					slog.String("reason", permErr.Error()),
				)
				writeError(w, http.StatusForbidden, adminauth.ErrForbidden.Error(), required)
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey{}, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional performs the same steps as [Guard] but never rejects: on any
// failure the request proceeds without an authenticated identity. Handlers
// that behave differently for authenticated callers check
// [AccountFromContext].
func Optional(gw *adminauth.Gateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if account, err := authenticate(gw, r); err == nil {
				ctx := context.WithValue(r.Context(), accountContextKey{}, account)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(gw *adminauth.Gateway, r *http.Request) (*adminauth.Account, error) {
	bearer, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, adminauth.ErrUnauthenticated
	}
	return gw.Authenticate(r.Context(), bearer)
}

// holdsAny implements the any-of semantics: one matching grant satisfies
// the guard. Primary administrators satisfy everything via Account.Can.
func holdsAny(account *adminauth.Account, required []permission.Ref) bool {
	for _, ref := range required {
		if account.Can(ref.Resource, ref.Action) {
			return true
		}
	}
	return false
}

func bearerToken(value string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(value, prefix) {
		return "", false
	}
	token := value[len(prefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// writeError mirrors the httpapi envelope so guard rejections look the
// same as handler rejections on the wire.
func writeError(w http.ResponseWriter, status int, message string, required []permission.Ref) {
	body := map[string]any{
		"success": false,
		"message": message,
	}
	if len(required) > 0 {
		names := make([]string, len(required))
		for i, ref := range required {
			names[i] = ref.String()
		}
		body["required"] = names
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
