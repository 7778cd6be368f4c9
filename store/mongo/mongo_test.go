package mongo

import (
	"errors"
	"testing"

	"github.com/clayworks/adminauth"
)

// Collection behavior is covered by integration environments with a live
// server; these tests pin the pure error translation.

func TestMapDuplicatePassesThroughOtherErrors(t *testing.T) {
	if err := mapDuplicate(nil); err != nil {
		t.Errorf("mapDuplicate(nil) = %v", err)
	}

	plain := errors.New("network timeout")
	if err := mapDuplicate(plain); !errors.Is(err, plain) {
		t.Errorf("mapDuplicate rewrote an unrelated error: %v", err)
	}
	if errors.Is(mapDuplicate(plain), adminauth.ErrDuplicateHandle) {
		t.Error("unrelated error mapped to a duplicate sentinel")
	}
}
