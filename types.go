package adminauth

import (
	"context"
	"time"

	"github.com/clayworks/adminauth/permission"
)

// Role is the closed set of administrative roles.
type Role string

const (
	// RolePrimaryAdmin bypasses every permission check and is the role the
	// one-time setup flow creates. Exactly one is expected to exist.
	RolePrimaryAdmin Role = "admin"
	RoleModerator    Role = "moderator"
	RoleEditor       Role = "editor"
)

// Valid reports whether r is one of the closed roles.
func (r Role) Valid() bool {
	switch r {
	case RolePrimaryAdmin, RoleModerator, RoleEditor:
		return true
	}
	return false
}

// NotificationPrefs toggles the channels an administrator is notified on.
type NotificationPrefs struct {
	Email   bool `json:"email" bson:"email"`
	Browser bool `json:"browser" bson:"browser"`
}

// Preferences is the free-form preference bag carried on every account.
type Preferences struct {
	Locale        string            `json:"language" bson:"language"`
	Theme         string            `json:"theme" bson:"theme"`
	Notifications NotificationPrefs `json:"notifications" bson:"notifications"`
}

// DefaultPreferences returns the preferences assigned at account creation.
func DefaultPreferences() Preferences {
	return Preferences{
		Locale: "ar",
		Theme:  "light",
		Notifications: NotificationPrefs{
			Email:   true,
			Browser: true,
		},
	}
}

// TwoFactor is persisted on the account but inert: two-factor login is not
// part of this system. The struct exists so stored documents round-trip and
// so the never-serialized invariant can be asserted.
type TwoFactor struct {
	Enabled     bool     `bson:"enabled"`
	Secret      string   `bson:"secret,omitempty"`
	BackupCodes []string `bson:"backupCodes,omitempty"`
}

// Account is an administrative identity. SecretHash and TwoFactor never
// marshal to JSON; every representation returned to a client goes through
// [Account.Sanitized] as well, which zeroes them outright.
type Account struct {
	ID             string            `json:"id" bson:"_id"`
	Handle         string            `json:"username" bson:"username"`
	Email          string            `json:"email" bson:"email"`
	SecretHash     string            `json:"-" bson:"password"`
	DisplayName    string            `json:"fullName" bson:"fullName"`
	Role           Role              `json:"role" bson:"role"`
	Permissions    permission.Matrix `json:"permissions" bson:"permissions"`
	Active         bool              `json:"active" bson:"active"`
	FailedAttempts int               `json:"-" bson:"loginAttempts"`
	LockExpiry     time.Time         `json:"-" bson:"lockUntil,omitempty"`
	LastLogin      time.Time         `json:"lastLogin,omitzero" bson:"lastLogin,omitempty"`
	Preferences    Preferences       `json:"preferences" bson:"preferences"`
	TwoFactor      TwoFactor         `json:"-" bson:"twoFactorAuth"`
	CreatedAt      time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a deep copy, so store implementations can hand out records
// without aliasing their internal state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Permissions = a.Permissions.Clone()
	if a.TwoFactor.BackupCodes != nil {
		dup.TwoFactor.BackupCodes = append([]string(nil), a.TwoFactor.BackupCodes...)
	}
	return &dup
}

// Sanitized returns a copy with the secret hash and two-factor material
// stripped. Gateway methods only ever return sanitized accounts.
func (a *Account) Sanitized() *Account {
	dup := a.Clone()
	dup.SecretHash = ""
	dup.TwoFactor = TwoFactor{}
	return dup
}

// Can resolves whether the account may perform action on resource: inactive
// accounts may do nothing, a primary administrator may do everything, and
// everyone else gets the literal matrix entry (absent means denied).
func (a *Account) Can(resource permission.Resource, action permission.Action) bool {
	if !a.Active {
		return false
	}
	if a.Role == RolePrimaryAdmin {
		return true
	}
	return a.Permissions.Allows(resource, action)
}

// AccountStats summarizes the account collection for the dashboard.
type AccountStats struct {
	Total         int64 `json:"totalUsers"`
	Active        int64 `json:"activeUsers"`
	PrimaryAdmins int64 `json:"adminUsers"`
	RecentLogins  int64 `json:"recentLogins"`
}

// AccountStore is the persistence boundary for accounts. Implementations
// enforce uniqueness (handle exact, email case-insensitive) and return the
// package sentinels ErrAccountNotFound, ErrDuplicateHandle and
// ErrDuplicateEmail. Secrets arrive already hashed; stores never see
// plaintext.
type AccountStore interface {
	// Create persists a new account. The caller assigns the ID.
	Create(ctx context.Context, account *Account) error
	// FindByID returns any account by ID, active or not.
	FindByID(ctx context.Context, id string) (*Account, error)
	// FindByIdentifier matches active accounts only, by exact handle or
	// case-insensitive email.
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)
	// Update replaces the stored record. Uniqueness is re-checked for the
	// email, which profile updates may change.
	Update(ctx context.Context, account *Account) error
	// CountPrimaryAdmins counts active primary administrators; the setup
	// flow stays open while this is zero.
	CountPrimaryAdmins(ctx context.Context) (int64, error)
	// Stats aggregates collection counters. RecentLogins counts successful
	// logins within the window given by since.
	Stats(ctx context.Context, since time.Time) (AccountStats, error)
}
