package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/haguru/gatekeeper/config"
	"golang.org/x/crypto/argon2"
)

// Argon2id hashes passwords with argon2id and encodes them in PHC string format:
// $argon2id$v=19$m=<KiB>,t=<iterations>,p=<lanes>$<salt>$<key>
type Argon2id struct {
	memory      uint32
	time        uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

type argon2Params struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// NewArgon2id builds an argon2id hasher; zero fields take the package defaults.
func NewArgon2id(cfg config.Argon2Config) (*Argon2id, error) {
	a := &Argon2id{
		memory:      cfg.MemoryKB,
		time:        cfg.Time,
		parallelism: cfg.Parallelism,
		saltLength:  cfg.SaltLength,
		keyLength:   cfg.KeyLength,
	}
	if a.memory == 0 {
		a.memory = DefaultArgon2MemoryKB
	}
	if a.time == 0 {
		a.time = DefaultArgon2Time
	}
	if a.parallelism == 0 {
		a.parallelism = DefaultArgon2Parallelism
	}
	if a.saltLength == 0 {
		a.saltLength = DefaultArgon2SaltLength
	}
	if a.keyLength == 0 {
		a.keyLength = DefaultArgon2KeyLength
	}

	if a.saltLength < 8 || a.keyLength < 16 || a.memory > maxArgon2MemoryKB || a.time > maxArgon2Time {
		return nil, fmt.Errorf("%s: salt_length >= 8, key_length >= 16, memory_kb <= %d, time <= %d",
			ErrInvalidArgon2Config, maxArgon2MemoryKB, maxArgon2Time)
	}
	return a, nil
}

func (a *Argon2id) Hash(password string) (string, error) {
	salt := make([]byte, a.saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%s: %w", ErrFailedToReadSalt, err)
	}

	key := argon2.IDKey([]byte(password), salt, a.time, a.memory, a.parallelism, a.keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Algorithm,
		argon2.Version,
		a.memory,
		a.time,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the parameters embedded in hash.
func (a *Argon2id) Verify(password, hash string) bool {
	params, err := parseArgon2Hash(hash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), params.salt, params.time, params.memory,
		params.parallelism, uint32(len(params.key)))

	return subtle.ConstantTimeCompare(computed, params.key) == 1
}

func parseArgon2Hash(hash string) (*argon2Params, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2Algorithm {
		return nil, errors.New("invalid argon2id hash format")
	}

	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, errors.New("unsupported argon2 version")
	}

	params := &argon2Params{}
	for _, pair := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.New("invalid argon2 parameter")
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid argon2 parameter %q", key)
		}
		switch key {
		case "m":
			params.memory = uint32(n)
		case "t":
			params.time = uint32(n)
		case "p":
			if n > 255 {
				return nil, errors.New("invalid argon2 parallelism")
			}
			params.parallelism = uint8(n)
		default:
			return nil, fmt.Errorf("unknown argon2 parameter %q", key)
		}
	}
	if params.memory == 0 || params.time == 0 || params.parallelism == 0 {
		return nil, errors.New("missing argon2 parameters")
	}
	if params.memory > maxArgon2MemoryKB {
		return nil, errors.New("argon2 memory parameter too large")
	}
	if params.time > maxArgon2Time {
		return nil, errors.New("argon2 time parameter too large")
	}

	var err error
	if params.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(params.salt) == 0 {
		return nil, errors.New("invalid argon2 salt")
	}
	if params.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(params.key) == 0 {
		return nil, errors.New("invalid argon2 key")
	}

	return params, nil
}
