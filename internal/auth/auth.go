// Package auth signs and verifies the session cookie value. The cookie holds
// an ES256 JWT whose jti is the server-side session token.
package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ISSUER  = "github.com/haguru/gatekeeper"
	SUBJECT = "SESSION"

	audience = "session" + ISSUER
)

// TokenCodec wraps a session token in a signed, expiring JWT.
type TokenCodec struct {
	privateKey *ecdsa.PrivateKey
	lifetime   time.Duration
	now        func() time.Time
}

// NewTokenCodec signs with privateKey. Issued tokens expire after lifetime.
func NewTokenCodec(privateKey *ecdsa.PrivateKey, lifetime time.Duration) (*TokenCodec, error) {
	if privateKey == nil {
		return nil, errors.New(ErrNilPrivateKey)
	}
	return &TokenCodec{privateKey: privateKey, lifetime: lifetime, now: time.Now}, nil
}

// Encode returns the signed cookie value for sessionToken.
func (c *TokenCodec) Encode(sessionToken string) (string, error) {
	if sessionToken == "" {
		return "", errors.New(ErrEmptySessionToken)
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    ISSUER,
		Subject:   SUBJECT,
		Audience:  []string{audience},
		ID:        sessionToken,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signToken, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrSignToken, err)
	}

	return signToken, nil
}

// Decode verifies tokenString and returns the session token it carries.
func (c *TokenCodec) Decode(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &c.privateKey.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithIssuer(ISSUER),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrParseToken, err)
	}

	if !token.Valid || claims.ID == "" {
		return "", errors.New(ErrInvalidToken)
	}

	return claims.ID, nil
}
