// Package hasher computes and verifies salted password hashes.
package hasher

import (
	"fmt"
	"strings"

	"github.com/haguru/gatekeeper/config"
)

// Hasher hashes new passwords with the configured algorithm and verifies
// stored hashes of either supported algorithm, detected from the hash prefix.
type Hasher struct {
	algorithm string
	bcrypt    *Bcrypt
	argon2    *Argon2id
}

// New creates a Hasher from the hasher section of the service config.
func New(cfg config.Hasher) (*Hasher, error) {
	algorithm := cfg.Algorithm
	if algorithm == "" {
		algorithm = config.HasherBcrypt
	}
	if algorithm != config.HasherBcrypt && algorithm != config.HasherArgon2id {
		return nil, fmt.Errorf("%s: %s", ErrUnsupportedAlgorithm, algorithm)
	}

	argon, err := NewArgon2id(cfg.Argon2)
	if err != nil {
		return nil, err
	}

	return &Hasher{
		algorithm: algorithm,
		bcrypt:    NewBcrypt(cfg.BcryptCost),
		argon2:    argon,
	}, nil
}

// Algorithm returns the algorithm used for new hashes.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

func (h *Hasher) Hash(password string) (string, error) {
	if h.algorithm == config.HasherArgon2id {
		return h.argon2.Hash(password)
	}
	return h.bcrypt.Hash(password)
}

// Verify never fails on malformed input; unknown formats simply do not match.
func (h *Hasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return h.argon2.Verify(password, hash)
	case isBcryptHash(hash):
		return h.bcrypt.Verify(password, hash)
	default:
		return false
	}
}
