package adminauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/clayworks/adminauth/audit"
)

// PreferencesUpdate carries partial preference changes; nil fields keep
// their current value (merge, not replace).
type PreferencesUpdate struct {
	Locale        *string
	Theme         *string
	NotifyEmail   *bool
	NotifyBrowser *bool
}

// ProfileUpdate carries partial profile changes. The handle is immutable.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	Preferences *PreferencesUpdate
}

// UpdateProfile applies a partial update to the caller's own account and
// returns the updated, sanitized record. Email uniqueness is re-checked by
// the store and surfaces as [ErrDuplicateEmail].
func (g *Gateway) UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*Account, error) {
	account, err := g.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			return nil, &ValidationError{Field: "fullName", Reason: "must not be empty"}
		}
		account.DisplayName = name
	}

	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, &ValidationError{Field: "email", Reason: "is not a valid address"}
		}
		account.Email = email
	}

	if update.Preferences != nil {
		if err := mergePreferences(&account.Preferences, update.Preferences); err != nil {
			return nil, err
		}
	}

	account.UpdatedAt = g.now()
	if err := g.store.Update(ctx, account); err != nil {
		return nil, err
	}

	g.metrics.Inc(MetricProfileUpdated)
	g.emit(ctx, audit.EventProfileUpdated, account.ID, true, nil)

	return account.Sanitized(), nil
}

func mergePreferences(prefs *Preferences, update *PreferencesUpdate) error {
	if update.Locale != nil {
		switch *update.Locale {
		case "ar", "en":
			prefs.Locale = *update.Locale
		default:
			return &ValidationError{Field: "language", Reason: "must be ar or en"}
		}
	}
	if update.Theme != nil {
		switch *update.Theme {
		case "light", "dark":
			prefs.Theme = *update.Theme
		default:
			return &ValidationError{Field: "theme", Reason: "must be light or dark"}
		}
	}
	if update.NotifyEmail != nil {
		prefs.Notifications.Email = *update.NotifyEmail
	}
	if update.NotifyBrowser != nil {
		prefs.Notifications.Browser = *update.NotifyBrowser
	}
	return nil
}

// ChangePassword re-verifies the current secret, enforces the minimum
// length on the new one, and persists a fresh hash. The failed-verification
// path is [ErrInvalidCredentials]; it does not count toward lockout, since
// the caller already holds a valid token.
func (g *Gateway) ChangePassword(ctx context.Context, accountID, currentSecret, newSecret string) error {
	if currentSecret == "" || newSecret == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	if len(newSecret) < g.minSecret {
		return ErrWeakSecret
	}

	account, err := g.store.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !g.hasher.Verify(currentSecret, account.SecretHash) {
		return ErrInvalidCredentials
	}

	hash, err := g.hasher.Hash(newSecret)
	if err != nil {
		return fmt.Errorf("hashing secret: %w", err)
	}

	account.SecretHash = hash
	account.UpdatedAt = g.now()
	if err := g.store.Update(ctx, account); err != nil {
		return err
	}

	g.metrics.Inc(MetricPasswordChanged)
	g.emit(ctx, audit.EventPasswordChanged, account.ID, true, nil)

	return nil
}
