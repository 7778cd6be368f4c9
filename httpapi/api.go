// Package httpapi exposes the authentication gateway over REST. Responses
// use the storefront's JSON envelope ({success, message, data}); error
// kinds map to stable status codes and unknown failures are downgraded to
// a generic 500 so internals never reach clients.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/clayworks/adminauth"
	"github.com/clayworks/adminauth/middleware"
	"github.com/clayworks/adminauth/permission"
)

// API wires gateway operations to routes.
type API struct {
	gateway *adminauth.Gateway
	logger  *slog.Logger
}

// New returns an API over gw. A nil logger falls back to slog.Default.
func New(gw *adminauth.Gateway, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{gateway: gw, logger: logger}
}

// Routes returns the mux with every auth endpoint mounted under /api/auth.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	guard := middleware.Guard(a.gateway, a.logger)
	adminOnly := middleware.Guard(a.gateway, a.logger, permission.MustRef("users:read"))
	createAccounts := middleware.Guard(a.gateway, a.logger, permission.MustRef("users:create"))

	mux.HandleFunc("GET /api/auth/check-setup", a.handleCheckSetup)
	mux.HandleFunc("POST /api/auth/setup", a.handleSetup)
	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.Handle("POST /api/auth/logout", guard(http.HandlerFunc(a.handleLogout)))
	mux.Handle("GET /api/auth/me", guard(http.HandlerFunc(a.handleMe)))
	mux.Handle("PUT /api/auth/profile", guard(http.HandlerFunc(a.handleUpdateProfile)))
	mux.Handle("PUT /api/auth/password", guard(http.HandlerFunc(a.handleChangePassword)))
	mux.Handle("POST /api/auth/refresh", guard(http.HandlerFunc(a.handleRefresh)))
	mux.Handle("GET /api/auth/stats", adminOnly(http.HandlerFunc(a.handleStats)))
	mux.Handle("POST /api/auth/accounts", createAccounts(http.HandlerFunc(a.handleCreateAccount)))

	return mux
}

func (a *API) handleCheckSetup(w http.ResponseWriter, r *http.Request) {
	setupRequired, err := a.gateway.CheckSetup(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, "", map[string]any{
		"setupRequired": setupRequired,
		"hasAdmin":      !setupRequired,
	})
}

func (a *API) handleSetup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if !a.decode(w, r, &body) {
		return
	}

	creds, err := a.gateway.Setup(requestContext(r), adminauth.SetupInput{
		Handle:      body.Username,
		Email:       body.Email,
		Secret:      body.Password,
		DisplayName: body.FullName,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.ok(w, http.StatusCreated, "Admin setup completed successfully", map[string]any{
		"user":  creds.Account,
		"token": creds.Token,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !a.decode(w, r, &body) {
		return
	}

	creds, err := a.gateway.Login(requestContext(r), body.Username, body.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.ok(w, http.StatusOK, "Login successful", map[string]any{
		"user":  creds.Account,
		"token": creds.Token,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	account, _ := middleware.AccountFromContext(r.Context())
	if err := a.gateway.Logout(requestContext(r), account); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, "Logged out successfully", nil)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	account, _ := middleware.AccountFromContext(r.Context())
	a.ok(w, http.StatusOK, "", map[string]any{"user": account})
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	account, _ := middleware.AccountFromContext(r.Context())

	var body struct {
		FullName    *string `json:"fullName"`
		Email       *string `json:"email"`
		Preferences *struct {
			Language      *string `json:"language"`
			Theme         *string `json:"theme"`
			Notifications *struct {
				Email   *bool `json:"email"`
				Browser *bool `json:"browser"`
			} `json:"notifications"`
		} `json:"preferences"`
	}
	if !a.decode(w, r, &body) {
		return
	}

	update := adminauth.ProfileUpdate{
		DisplayName: body.FullName,
		Email:       body.Email,
	}
	if body.Preferences != nil {
		prefs := &adminauth.PreferencesUpdate{
			Locale: body.Preferences.Language,
			Theme:  body.Preferences.Theme,
		}
		if body.Preferences.Notifications != nil {
			prefs.NotifyEmail = body.Preferences.Notifications.Email
			prefs.NotifyBrowser = body.Preferences.Notifications.Browser
		}
		update.Preferences = prefs
	}

	updated, err := a.gateway.UpdateProfile(requestContext(r), account.ID, update)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.ok(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": updated})
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	account, _ := middleware.AccountFromContext(r.Context())

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !a.decode(w, r, &body) {
		return
	}

	err := a.gateway.ChangePassword(requestContext(r), account.ID, body.CurrentPassword, body.NewPassword)
	if err != nil {
		// A wrong current password on this authenticated route is a request
		// error, not an authentication challenge.
		if errors.Is(err, adminauth.ErrInvalidCredentials) {
			a.error(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		a.fail(w, r, err)
		return
	}

	a.ok(w, http.StatusOK, "Password changed successfully", nil)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	account, _ := middleware.AccountFromContext(r.Context())

	bearer, err := a.gateway.Refresh(requestContext(r), account)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.ok(w, http.StatusOK, "Token refreshed successfully", map[string]any{"token": bearer})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.gateway.Stats(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, "", stats)
}

func (a *API) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
		Role     string `json:"role"`
	}
	if !a.decode(w, r, &body) {
		return
	}

	account, err := a.gateway.CreateAccount(requestContext(r), adminauth.CreateAccountInput{
		Handle:      body.Username,
		Email:       body.Email,
		Secret:      body.Password,
		DisplayName: body.FullName,
		Role:        adminauth.Role(body.Role),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.ok(w, http.StatusCreated, "Account created successfully", map[string]any{"user": account})
}

// requestContext attaches the caller's address for rate limiting and audit.
func requestContext(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return adminauth.WithClientIP(r.Context(), host)
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (a *API) ok(w http.ResponseWriter, status int, message string, data any) {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, status, body)
}

func (a *API) error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
