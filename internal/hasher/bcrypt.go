package hasher

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. A cost outside bcrypt's range falls back
// to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// bcryptMaxPasswordBytes is the longest input bcrypt.GenerateFromPassword accepts.
const bcryptMaxPasswordBytes = 72

// Hash hashes password. Passwords longer than bcrypt's input limit are first
// reduced to the base64 SHA-256 digest so every byte still counts.
func (b *Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}
	return string(hashed), nil
}

// Verify compares in constant time; any parse failure is a mismatch. A long
// password also matches a hash of its truncated form, which is how records
// written by other bcrypt implementations store it.
func (b *Bcrypt) Verify(password, hash string) bool {
	if bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil {
		return true
	}
	if len(password) <= bcryptMaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password[:bcryptMaxPasswordBytes])) == nil
}

func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxPasswordBytes {
		return []byte(password)
	}
	digest := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(digest[:]))
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
