// Package memory provides a mutex-guarded in-process AccountStore. It backs
// tests and single-node development setups; production deployments use
// store/mongo.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clayworks/adminauth"
)

// Store implements [adminauth.AccountStore] over two maps. Records are
// deep-copied on the way in and out so callers never alias internal state.
type Store struct {
	mu       sync.RWMutex
	byID     map[string]*adminauth.Account
	byHandle map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:     make(map[string]*adminauth.Account),
		byHandle: make(map[string]string),
	}
}

func (s *Store) Create(_ context.Context, account *adminauth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byHandle[account.Handle]; exists {
		return adminauth.ErrDuplicateHandle
	}
	email := strings.ToLower(account.Email)
	for _, existing := range s.byID {
		if strings.ToLower(existing.Email) == email {
			return adminauth.ErrDuplicateEmail
		}
	}

	s.byID[account.ID] = account.Clone()
	s.byHandle[account.Handle] = account.ID
	return nil
}

func (s *Store) FindByID(_ context.Context, id string) (*adminauth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, adminauth.ErrAccountNotFound
	}
	return account.Clone(), nil
}

func (s *Store) FindByIdentifier(_ context.Context, identifier string) (*adminauth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Handle matches are case-sensitive; email matches are not. Inactive
	// accounts are invisible to identifier lookups.
	if id, ok := s.byHandle[identifier]; ok {
		if account := s.byID[id]; account.Active {
			return account.Clone(), nil
		}
		return nil, adminauth.ErrAccountNotFound
	}

	email := strings.ToLower(identifier)
	for _, account := range s.byID {
		if account.Active && strings.ToLower(account.Email) == email {
			return account.Clone(), nil
		}
	}
	return nil, adminauth.ErrAccountNotFound
}

func (s *Store) Update(_ context.Context, account *adminauth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[account.ID]
	if !ok {
		return adminauth.ErrAccountNotFound
	}

	email := strings.ToLower(account.Email)
	for id, existing := range s.byID {
		if id != account.ID && strings.ToLower(existing.Email) == email {
			return adminauth.ErrDuplicateEmail
		}
	}

	// The handle is immutable at the gateway level; keep the index
	// consistent anyway in case a caller bypasses it.
	if current.Handle != account.Handle {
		if _, exists := s.byHandle[account.Handle]; exists {
			return adminauth.ErrDuplicateHandle
		}
		delete(s.byHandle, current.Handle)
		s.byHandle[account.Handle] = account.ID
	}

	s.byID[account.ID] = account.Clone()
	return nil
}

func (s *Store) CountPrimaryAdmins(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, account := range s.byID {
		if account.Role == adminauth.RolePrimaryAdmin && account.Active {
			count++
		}
	}
	return count, nil
}

func (s *Store) Stats(_ context.Context, since time.Time) (adminauth.AccountStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats adminauth.AccountStats
	for _, account := range s.byID {
		stats.Total++
		if account.Active {
			stats.Active++
		}
		if account.Role == adminauth.RolePrimaryAdmin {
			stats.PrimaryAdmins++
		}
		if !account.LastLogin.IsZero() && !account.LastLogin.Before(since) {
			stats.RecentLogins++
		}
	}
	return stats, nil
}

var _ adminauth.AccountStore = (*Store)(nil)
