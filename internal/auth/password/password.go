// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "postboard/pkg/domain-errors"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

// maxPasswordBytes is the longest input bcrypt reads; longer passwords are
// truncated to it so they hash and verify like their first 72 bytes.
const maxPasswordBytes = 72

// ErrMismatch is returned by Verify when the password does not match the hash.
var ErrMismatch = errors.New("password mismatch")

// Hasher hashes passwords at a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher for cost, falling back to DefaultCost when cost is
// outside bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash creates a salted bcrypt hash of the plaintext password.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. A hash that is not a
// bcrypt hash at all is reported as a mismatch, not a failure.
func (h *Hasher) Verify(plaintext, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
		errors.Is(err, bcrypt.ErrHashTooShort):
		return ErrMismatch
	default:
		var invalidPrefix bcrypt.InvalidHashPrefixError
		if errors.As(err, &invalidPrefix) {
			return ErrMismatch
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
