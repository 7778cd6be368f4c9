package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clayworks/adminauth"
)

// fail translates gateway errors into the wire envelope. Every known error
// kind gets a stable status and a client-safe message; anything else is
// logged and collapsed into a generic 500 so internals stay out of
// responses.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	var rateErr *adminauth.RateLimitError
	if errors.As(err, &rateErr) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"success":    false,
			"message":    "Too many login attempts, please try again later",
			"retryAfter": int(rateErr.RetryAfter.Seconds()),
		})
		return
	}

	var permErr *adminauth.PermissionError
	if errors.As(err, &permErr) {
		body := map[string]any{
			"success": false,
			"message": adminauth.ErrForbidden.Error(),
		}
		if len(permErr.Required) > 0 {
			names := make([]string, len(permErr.Required))
			for i, ref := range permErr.Required {
				names[i] = ref.String()
			}
			body["required"] = names
		}
		writeJSON(w, http.StatusForbidden, body)
		return
	}

	var validationErr *adminauth.ValidationError
	if errors.As(err, &validationErr) {
		a.error(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, adminauth.ErrSetupRequired):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success":    false,
			"message":    "System setup is not complete",
			"needsSetup": true,
		})
	case errors.Is(err, adminauth.ErrSetupAlreadyComplete):
		a.error(w, http.StatusBadRequest, "Setup has already been completed")
	case errors.Is(err, adminauth.ErrAccountLocked):
		a.error(w, http.StatusUnauthorized, "Account is temporarily locked due to too many failed login attempts")
	case errors.Is(err, adminauth.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, adminauth.ErrUnauthenticated):
		a.error(w, http.StatusUnauthorized, adminauth.ErrUnauthenticated.Error())
	case errors.Is(err, adminauth.ErrForbidden):
		a.error(w, http.StatusForbidden, adminauth.ErrForbidden.Error())
	case errors.Is(err, adminauth.ErrWeakSecret):
		a.error(w, http.StatusBadRequest, "Password does not meet the minimum length")
	case errors.Is(err, adminauth.ErrDuplicateHandle):
		a.error(w, http.StatusBadRequest, "Username is already taken")
	case errors.Is(err, adminauth.ErrDuplicateEmail):
		a.error(w, http.StatusBadRequest, "Email is already registered")
	case errors.Is(err, adminauth.ErrAccountNotFound):
		a.error(w, http.StatusNotFound, "Account not found")
	default:
		a.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		a.error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
