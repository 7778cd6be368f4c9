package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clayworks/adminauth"
)

func testAccount(id, handle, email string) *adminauth.Account {
	return &adminauth.Account{
		ID:     id,
		Handle: handle,
		Email:  email,
		Role:   adminauth.RoleEditor,
		Active: true,
	}
}

func TestCreateAndFind(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, testAccount("id-1", "sara", "sara@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := s.FindByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Handle != "sara" {
		t.Errorf("Handle = %q", byID.Handle)
	}

	if _, err := s.FindByID(ctx, "missing"); !errors.Is(err, adminauth.ErrAccountNotFound) {
		t.Errorf("missing ID = %v, want ErrAccountNotFound", err)
	}
}

func TestCreateUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, testAccount("id-1", "sara", "sara@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := s.Create(ctx, testAccount("id-2", "sara", "other@example.com"))
	if !errors.Is(err, adminauth.ErrDuplicateHandle) {
		t.Errorf("duplicate handle = %v, want ErrDuplicateHandle", err)
	}

	err = s.Create(ctx, testAccount("id-3", "other", "SARA@EXAMPLE.COM"))
	if !errors.Is(err, adminauth.ErrDuplicateEmail) {
		t.Errorf("case-variant duplicate email = %v, want ErrDuplicateEmail", err)
	}
}

func TestFindByIdentifier(t *testing.T) {
	s := New()
	ctx := context.Background()

	active := testAccount("id-1", "sara", "sara@example.com")
	inactive := testAccount("id-2", "omar", "omar@example.com")
	inactive.Active = false

	if err := s.Create(ctx, active); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, inactive); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.FindByIdentifier(ctx, "sara"); err != nil {
		t.Errorf("by handle: %v", err)
	}
	if _, err := s.FindByIdentifier(ctx, "SARA@Example.com"); err != nil {
		t.Errorf("by case-variant email: %v", err)
	}
	if _, err := s.FindByIdentifier(ctx, "SARA"); !errors.Is(err, adminauth.ErrAccountNotFound) {
		t.Errorf("handle lookup should be case-sensitive, got %v", err)
	}
	if _, err := s.FindByIdentifier(ctx, "omar"); !errors.Is(err, adminauth.ErrAccountNotFound) {
		t.Errorf("inactive account visible to identifier lookup: %v", err)
	}

	// FindByID ignores the active flag.
	if _, err := s.FindByID(ctx, "id-2"); err != nil {
		t.Errorf("FindByID for inactive account: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, testAccount("id-1", "sara", "sara@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, testAccount("id-2", "omar", "omar@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated := testAccount("id-1", "sara", "new@example.com")
	updated.FailedAttempts = 3
	if err := s.Update(ctx, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stored, err := s.FindByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Email != "new@example.com" || stored.FailedAttempts != 3 {
		t.Errorf("update not persisted: %+v", stored)
	}

	conflict := testAccount("id-1", "sara", "OMAR@example.com")
	if err := s.Update(ctx, conflict); !errors.Is(err, adminauth.ErrDuplicateEmail) {
		t.Errorf("email conflict on update = %v, want ErrDuplicateEmail", err)
	}

	if err := s.Update(ctx, testAccount("ghost", "ghost", "g@h.i")); !errors.Is(err, adminauth.ErrAccountNotFound) {
		t.Errorf("update of missing account = %v, want ErrAccountNotFound", err)
	}
}

func TestRecordsDoNotAlias(t *testing.T) {
	s := New()
	ctx := context.Background()

	original := testAccount("id-1", "sara", "sara@example.com")
	if err := s.Create(ctx, original); err != nil {
		t.Fatalf("Create: %v", err)
	}

	original.Email = "mutated@example.com"

	stored, err := s.FindByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Email != "sara@example.com" {
		t.Error("mutating the caller's record changed stored state")
	}

	stored.Handle = "mutated"
	again, _ := s.FindByID(ctx, "id-1")
	if again.Handle != "sara" {
		t.Error("mutating a returned record changed stored state")
	}
}

func TestCountPrimaryAdminsAndStats(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	admin := testAccount("id-1", "sara", "sara@example.com")
	admin.Role = adminauth.RolePrimaryAdmin
	admin.LastLogin = now.Add(-time.Hour)

	staleAdmin := testAccount("id-2", "old", "old@example.com")
	staleAdmin.Role = adminauth.RolePrimaryAdmin
	staleAdmin.Active = false

	editor := testAccount("id-3", "omar", "omar@example.com")
	editor.LastLogin = now.Add(-30 * 24 * time.Hour)

	for _, account := range []*adminauth.Account{admin, staleAdmin, editor} {
		if err := s.Create(ctx, account); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	count, err := s.CountPrimaryAdmins(ctx)
	if err != nil {
		t.Fatalf("CountPrimaryAdmins: %v", err)
	}
	if count != 1 {
		t.Errorf("active primary admins = %d, want 1 (inactive must not count)", count)
	}

	stats, err := s.Stats(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := adminauth.AccountStats{Total: 3, Active: 2, PrimaryAdmins: 2, RecentLogins: 1}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
}
