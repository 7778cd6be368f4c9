package adminauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clayworks/adminauth/audit"
)

// Login authenticates an identifier (handle or email) and secret.
//
// The checks run in a fixed order that must not be rearranged: setup gate,
// rate limit, lookup, lock check, secret verification, lockout mutation,
// token issuance. The lock check precedes verification so an attempt
// against a locked account reveals nothing about hashing timing, and a
// failed verification records its attempt before any success path could
// run. Unknown identifiers and wrong secrets both come back as
// [ErrInvalidCredentials].
func (g *Gateway) Login(ctx context.Context, identifier, secret string) (*Credentials, error) {
	count, err := g.store.CountPrimaryAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting primary administrators: %w", err)
	}
	if count == 0 {
		return nil, ErrSetupRequired
	}

	if err := g.checkRateLimit(ctx, identifier); err != nil {
		return nil, err
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, &ValidationError{Field: "credentials", Reason: "are required"}
	}

	account, err := g.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			g.metrics.Inc(MetricLoginFailure)
			g.emit(ctx, audit.EventLoginFailure, "", false, ErrInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	now := g.now()
	if account.Locked(now) {
		g.metrics.Inc(MetricLoginLocked)
		g.emit(ctx, audit.EventLoginFailure, account.ID, false, ErrAccountLocked)
		return nil, ErrAccountLocked
	}

	if !g.hasher.Verify(secret, account.SecretHash) {
		recordFailedAttempt(account, now)
		// Persisting the counter is best-effort: the attempt is rejected
		// either way, and a dropped increment only delays lockout.
		_ = g.store.Update(ctx, account)

		g.metrics.Inc(MetricLoginFailure)
		g.emit(ctx, audit.EventLoginFailure, account.ID, false, ErrInvalidCredentials)
		if account.Locked(now) {
			g.emit(ctx, audit.EventAccountLocked, account.ID, false, ErrAccountLocked)
		}
		return nil, ErrInvalidCredentials
	}

	resetLockout(account, now)
	account.UpdatedAt = now
	if err := g.store.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("resetting lockout state: %w", err)
	}

	bearer, err := g.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	g.metrics.Inc(MetricLoginSuccess)
	g.emit(ctx, audit.EventLoginSuccess, account.ID, true, nil)

	return &Credentials{Account: account.Sanitized(), Token: bearer}, nil
}

// checkRateLimit counts this attempt against the caller's window. The key
// is the client address when the transport provided one, otherwise the
// identifier, so a headless caller still gets throttled.
func (g *Gateway) checkRateLimit(ctx context.Context, identifier string) error {
	key := clientIPFromContext(ctx)
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(identifier))
	}
	if key == "" {
		return nil
	}

	decision, err := g.limiter.Allow(ctx, key)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	if !decision.Allowed {
		g.metrics.Inc(MetricLoginRateLimited)
		g.emit(ctx, audit.EventLoginRateLimited, "", false, ErrRateLimited)
		return &RateLimitError{RetryAfter: decision.RetryAfter}
	}
	return nil
}

// Logout is advisory: tokens are stateless and remain valid until expiry,
// so the only server-side effect is the audit record.
func (g *Gateway) Logout(ctx context.Context, account *Account) error {
	g.emit(ctx, audit.EventLogout, account.ID, true, nil)
	return nil
}

// Refresh issues a new token for an already-authenticated account without
// re-verifying the secret.
func (g *Gateway) Refresh(ctx context.Context, account *Account) (string, error) {
	bearer, err := g.tokens.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	g.metrics.Inc(MetricTokenRefreshed)
	g.emit(ctx, audit.EventTokenRefreshed, account.ID, true, nil)

	return bearer, nil
}
