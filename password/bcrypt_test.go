package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Tests hash at MinCost; DefaultCost is deliberately slow.
func newTestHasher(t *testing.T) *Bcrypt {
	t.Helper()
	h, err := NewBcrypt(Config{Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals the plaintext")
	}

	if !h.Verify("correct horse battery staple", hash) {
		t.Error("correct secret did not verify")
	}
	if h.Verify("wrong secret", hash) {
		t.Error("wrong secret verified")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("same secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash("same secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same secret are identical")
	}
	if !h.Verify("same secret", first) || !h.Verify("same secret", second) {
		t.Error("salted hashes did not both verify")
	}
}

func TestVerifyNeverErrors(t *testing.T) {
	h := newTestHasher(t)

	if h.Verify("secret", "not-a-bcrypt-hash") {
		t.Error("malformed hash verified")
	}
	if h.Verify("", "whatever") {
		t.Error("empty secret verified")
	}
	if h.Verify("secret", "") {
		t.Error("empty hash verified")
	}
}

func TestNewBcryptCostBounds(t *testing.T) {
	if _, err := NewBcrypt(Config{Cost: bcrypt.MaxCost + 1}); err == nil {
		t.Error("over-range cost accepted")
	}
	if _, err := NewBcrypt(Config{Cost: 2}); err == nil {
		t.Error("under-range cost accepted")
	}

	h, err := NewBcrypt(Config{})
	if err != nil {
		t.Fatalf("NewBcrypt with zero cost: %v", err)
	}
	if h.cost != DefaultCost {
		t.Errorf("zero cost resolved to %d, want %d", h.cost, DefaultCost)
	}
}
