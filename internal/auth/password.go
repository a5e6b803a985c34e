package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the work factor used when none is configured.
	DefaultBcryptCost = 8
	// MaxPasswordBytes is the longest input bcrypt hashes.
	MaxPasswordBytes = 72
)

// ErrPasswordTooLong is returned by Hash for inputs over MaxPasswordBytes. It
// matches ErrInvalidInput.
var ErrPasswordTooLong = fmt.Errorf("%w: password exceeds %d bytes", ErrInvalidInput, MaxPasswordBytes)

// Hasher turns plaintext passwords into self-describing salted digests and
// checks candidates against them.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Verify(plaintext string, digest []byte) bool
}

// BcryptHasher implements Hasher with bcrypt. The salt and cost are encoded
// in the digest itself.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor. Costs outside
// bcrypt's accepted range fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost reports the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Hash salts and hashes plaintext.
func (h *BcryptHasher) Hash(plaintext string) ([]byte, error) {
	if len(plaintext) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Verify reports whether plaintext matches digest. The comparison is
// constant time with respect to where a mismatch occurs.
func (h *BcryptHasher) Verify(plaintext string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}
