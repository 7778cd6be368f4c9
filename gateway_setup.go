package adminauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/clayworks/adminauth/audit"
	"github.com/clayworks/adminauth/permission"
	"github.com/google/uuid"
)

// SetupInput is the one-time bootstrap request.
type SetupInput struct {
	Handle      string
	Email       string
	Secret      string
	DisplayName string
}

// CreateAccountInput is the request an existing primary administrator uses
// to add staff accounts. An empty role defaults to editor.
type CreateAccountInput struct {
	Handle      string
	Email       string
	Secret      string
	DisplayName string
	Role        Role
}

// CheckSetup reports whether the one-time setup flow is still available,
// i.e. no active primary administrator exists yet.
func (g *Gateway) CheckSetup(ctx context.Context) (bool, error) {
	count, err := g.store.CountPrimaryAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("counting primary administrators: %w", err)
	}
	return count == 0, nil
}

// Setup creates the first primary administrator and logs it in. It fails
// with [ErrSetupAlreadyComplete] once any active primary administrator
// exists; afterwards accounts are only created by [Gateway.CreateAccount].
func (g *Gateway) Setup(ctx context.Context, in SetupInput) (*Credentials, error) {
	count, err := g.store.CountPrimaryAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting primary administrators: %w", err)
	}
	if count > 0 {
		return nil, ErrSetupAlreadyComplete
	}

	account, err := g.newAccount(ctx, in.Handle, in.Email, in.Secret, in.DisplayName, RolePrimaryAdmin)
	if err != nil {
		return nil, err
	}

	bearer, err := g.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	g.metrics.Inc(MetricSetupCompleted)
	g.emit(ctx, audit.EventSetupCompleted, account.ID, true, nil)

	return &Credentials{Account: account.Sanitized(), Token: bearer}, nil
}

// CreateAccount adds a staff account with the default permission matrix for
// its role. Authorization (primary administrator or users:create) is the
// guard's job; the gateway only validates and persists.
func (g *Gateway) CreateAccount(ctx context.Context, in CreateAccountInput) (*Account, error) {
	role := in.Role
	if role == "" {
		role = RoleEditor
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Reason: "is not a valid role"}
	}

	account, err := g.newAccount(ctx, in.Handle, in.Email, in.Secret, in.DisplayName, role)
	if err != nil {
		return nil, err
	}

	g.metrics.Inc(MetricAccountCreated)
	g.emit(ctx, audit.EventAccountCreated, account.ID, true, nil)

	return account.Sanitized(), nil
}

// newAccount validates the shared creation fields, hashes the secret, and
// persists the record. The secret is hashed before it goes anywhere near
// the store.
func (g *Gateway) newAccount(ctx context.Context, handle, email, secret, displayName string, role Role) (*Account, error) {
	handle = strings.TrimSpace(handle)
	email = normalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	switch {
	case handle == "":
		return nil, &ValidationError{Field: "username", Reason: "is required"}
	case email == "":
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	case !strings.Contains(email, "@"):
		return nil, &ValidationError{Field: "email", Reason: "is not a valid address"}
	case displayName == "":
		return nil, &ValidationError{Field: "fullName", Reason: "is required"}
	case secret == "":
		return nil, &ValidationError{Field: "password", Reason: "is required"}
	}
	if len(secret) < g.minSecret {
		return nil, ErrWeakSecret
	}

	hash, err := g.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hashing secret: %w", err)
	}

	now := g.now()
	account := &Account{
		ID:          uuid.NewString(),
		Handle:      handle,
		Email:       email,
		SecretHash:  hash,
		DisplayName: displayName,
		Role:        role,
		Permissions: permission.Defaults(),
		Active:      true,
		Preferences: DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := g.store.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}
