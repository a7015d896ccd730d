package service

//go:generate mockgen -destination=../../mocks/mock_hasher.go -package=mocks github.com/xuanphong03/nest-auth/internal/auth/service Hasher

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher provides one-way, salted hashing for passwords and refresh tokens.
// Both credentials get the same treatment: only the hash is ever stored.
type Hasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. Comparison cost does not
	// depend on how close plain is to the hashed input.
	Verify(plain, hash string) bool
	// DummyHash returns a well-formed hash that matches no credential,
	// used to equalize verification work for unknown accounts.
	DummyHash() string
}

// dummyHash is a bcrypt hash of random bytes discarded after hashing. It will
// never verify against any input.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// digest pre-hashes the input because bcrypt rejects inputs longer than 72
// bytes and signed refresh tokens exceed that.
func digest(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(digest(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}

	return string(hashed), nil
}

func (h *BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(plain)) == nil
}

func (h *BcryptHasher) DummyHash() string {
	return dummyHash
}
