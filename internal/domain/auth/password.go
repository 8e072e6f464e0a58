package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way salted password hashing.
type Hasher struct {
	cost int
}

// NewHasher builds a bcrypt hasher with the given work factor.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a digest from the plaintext. The plaintext is never
// retained or logged.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the digest. A wrong
// password and a malformed digest both yield false, never an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
