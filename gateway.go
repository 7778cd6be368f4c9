package adminauth

import (
	"context"
	"strings"
	"time"

	"github.com/clayworks/adminauth/audit"
	"github.com/clayworks/adminauth/rate"
	"github.com/clayworks/adminauth/token"
)

// Gateway orchestrates the authentication flows: setup, login, logout,
// refresh, profile and password mutation, plus the token check used by the
// request guard. It is the single entry point around the credential store,
// hasher, token manager, lockout state machine, and rate limiter.
//
// All methods are safe for concurrent use after [Builder.Build].
type Gateway struct {
	store     AccountStore
	hasher    PasswordHasher
	tokens    *token.Manager
	limiter   rate.Limiter
	sink      audit.Sink
	metrics   *Metrics
	minSecret int
	now       func() time.Time
}

// Credentials bundles a sanitized account with its freshly issued token.
type Credentials struct {
	Account *Account
	Token   string
}

// Metrics exposes the gateway's in-process counters.
func (g *Gateway) Metrics() *Metrics {
	return g.metrics
}

// Stats reports account collection counters, with recent logins counted
// over the trailing seven days.
func (g *Gateway) Stats(ctx context.Context) (AccountStats, error) {
	return g.store.Stats(ctx, g.now().Add(-7*24*time.Hour))
}

// Authenticate resolves a bearer token to a live account: the signature
// and tags must verify, the token must be unexpired, and the subject must
// still exist, be active, and not be locked. The account is always reloaded
// from the store; token claims are never trusted for role or permission
// data. Failures wrap [ErrUnauthenticated] with the underlying cause so the
// transport can log the distinction without revealing it to clients.
func (g *Gateway) Authenticate(ctx context.Context, bearer string) (*Account, error) {
	accountID, err := g.tokens.Verify(bearer)
	if err != nil {
		g.metrics.Inc(MetricGuardRejected)
		return nil, wrapUnauthenticated(err)
	}

	account, err := g.store.FindByID(ctx, accountID)
	if err != nil {
		g.metrics.Inc(MetricGuardRejected)
		return nil, wrapUnauthenticated(ErrAccountNotFound)
	}
	if !account.Active {
		g.metrics.Inc(MetricGuardRejected)
		return nil, wrapUnauthenticated(ErrAccountInactive)
	}
	if account.Locked(g.now()) {
		g.metrics.Inc(MetricGuardRejected)
		return nil, wrapUnauthenticated(ErrAccountLocked)
	}

	return account.Sanitized(), nil
}

func wrapUnauthenticated(cause error) error {
	return &unauthenticatedError{cause: cause}
}

// unauthenticatedError keeps the rejection cause (expired vs invalid token,
// missing vs inactive vs locked account) attached for logging while
// errors.Is(err, ErrUnauthenticated) stays true for transport mapping.
type unauthenticatedError struct {
	cause error
}

func (e *unauthenticatedError) Error() string {
	return ErrUnauthenticated.Error() + ": " + e.cause.Error()
}

func (e *unauthenticatedError) Unwrap() []error {
	return []error{ErrUnauthenticated, e.cause}
}

func (g *Gateway) emit(ctx context.Context, eventType, accountID string, success bool, cause error) {
	event := audit.Event{
		Timestamp: g.now(),
		EventType: eventType,
		AccountID: accountID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	g.sink.Emit(ctx, event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
