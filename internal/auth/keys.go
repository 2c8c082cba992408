package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadECDSAPrivateKey loads a PEM encoded ECDSA private key in SEC 1 or PKCS #8 form.
func LoadECDSAPrivateKey(keyPath string) (*ecdsa.PrivateKey, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrReadKey, err)
	}

	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, errors.New(ErrDecodePEM)
	}

	switch block.Type {
	case pemTypeEC:
		privateKey, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrParseKey, err)
		}
		return privateKey, nil
	case pemTypePKCS8:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrParseKey, err)
		}
		privateKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%s: key is %T", ErrParseKey, key)
		}
		return privateKey, nil
	default:
		return nil, fmt.Errorf("%s: unexpected PEM type %q", ErrDecodePEM, block.Type)
	}
}

// LoadOrGenerateKey loads the key at keyPath. When keyPath is empty or the file
// does not exist a new P-256 key is generated and generated is true; such a key
// lives only as long as the process, so issued cookies do not survive a restart.
func LoadOrGenerateKey(keyPath string) (key *ecdsa.PrivateKey, generated bool, err error) {
	if keyPath != "" {
		key, err = LoadECDSAPrivateKey(keyPath)
		if err == nil {
			return key, false, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
	}

	key, err = GenerateKey()
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// GenerateKey creates a P-256 key for ES256 signing.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrGenerateKey, err)
	}
	return key, nil
}

// EncodePrivateKeyPEM writes key as an "EC PRIVATE KEY" PEM block.
func EncodePrivateKeyPEM(w io.Writer, key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrParseKey, err)
	}
	return pem.Encode(w, &pem.Block{Type: pemTypeEC, Bytes: der})
}

// WritePrivateKeyFile writes key to keyPath with owner-only permissions,
// refusing to overwrite an existing file.
func WritePrivateKeyFile(keyPath string, key *ecdsa.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(keyPath), keyDirPerm); err != nil {
		return fmt.Errorf("%s: %w", ErrWriteKey, err)
	}
	f, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, keyFilePerm)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrWriteKey, err)
	}
	if err := EncodePrivateKeyPEM(f, key); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", ErrWriteKey, err)
	}
	return f.Close()
}
