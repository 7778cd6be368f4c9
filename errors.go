package adminauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clayworks/adminauth/permission"
)

// Sentinel errors returned by Gateway and AccountStore operations. Transport
// layers map these to wire responses; callers branch with errors.Is.
var (
	// ErrSetupRequired is returned by Login while no primary administrator
	// exists yet.
	ErrSetupRequired = errors.New("admin setup required")
	// ErrSetupAlreadyComplete is returned by Setup once a primary
	// administrator exists.
	ErrSetupAlreadyComplete = errors.New("admin setup already completed")
	// ErrInvalidCredentials covers both unknown identifiers and wrong
	// secrets so responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned while a temporary lockout is in effect.
	ErrAccountLocked = errors.New("account is temporarily locked due to too many failed login attempts")
	// ErrAccountInactive marks a deactivated account.
	ErrAccountInactive = errors.New("account is deactivated")
	// ErrUnauthenticated is the generic guard rejection for missing,
	// invalid, or expired tokens and for subjects that no longer qualify.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is the authenticated-but-not-allowed rejection.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrWeakSecret rejects secrets below the configured minimum length.
	ErrWeakSecret = errors.New("password too short")
	// ErrValidation rejects requests with missing or malformed fields.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimited rejects login attempts over the per-client budget.
	ErrRateLimited = errors.New("too many login attempts")
	// ErrAccountNotFound is returned by store lookups that match nothing.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateHandle is the store's handle uniqueness conflict.
	ErrDuplicateHandle = errors.New("username already exists")
	// ErrDuplicateEmail is the store's email uniqueness conflict.
	ErrDuplicateEmail = errors.New("email already exists")
)

// PermissionError is returned when a guard requirement is not met. It wraps
// [ErrForbidden] and enumerates the permissions that would have satisfied
// the guard; the caller is already authenticated, so naming them aids
// debugging without aiding enumeration.
type PermissionError struct {
	Required []permission.Ref
}

func (e *PermissionError) Error() string {
	if len(e.Required) == 0 {
		return ErrForbidden.Error()
	}
	names := make([]string, len(e.Required))
	for i, ref := range e.Required {
		names[i] = ref.String()
	}
	return fmt.Sprintf("%s: requires %s", ErrForbidden, strings.Join(names, " or "))
}

func (e *PermissionError) Unwrap() error { return ErrForbidden }

// RateLimitError wraps [ErrRateLimited] with the time remaining in the
// current window, surfaced to clients as a retry hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// ValidationError wraps [ErrValidation] naming the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
