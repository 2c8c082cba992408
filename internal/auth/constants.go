package auth

const (
	pemTypeEC    = "EC PRIVATE KEY"
	pemTypePKCS8 = "PRIVATE KEY"
	keyFilePerm  = 0o600
	keyDirPerm   = 0o700

	// Error messages for token and key operations
	ErrNilPrivateKey     = "private key is nil"
	ErrEmptySessionToken = "session token is empty"
	ErrSignToken         = "failed to sign token"
	ErrParseToken        = "token parsing error"
	ErrInvalidToken      = "invalid token or claims"
	ErrReadKey           = "failed to read key file"
	ErrDecodePEM         = "failed to decode PEM block"
	ErrParseKey          = "failed to parse ECDSA private key"
	ErrGenerateKey       = "failed to generate ECDSA private key"
	ErrWriteKey          = "failed to write key file"
)
