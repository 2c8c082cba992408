package hasher

const (
	// Error messages for hasher operations
	ErrFailedToHashPassword = "failed to hash password" // #nosec G101
	ErrFailedToReadSalt     = "failed to read salt"
	ErrUnsupportedAlgorithm = "unsupported hashing algorithm"
	ErrInvalidArgon2Config  = "invalid argon2 configuration"

	argon2Prefix    = "$argon2id$"
	argon2Algorithm = "argon2id"

	// Argon2id defaults, in line with the OWASP minimum recommendation.
	DefaultArgon2MemoryKB    uint32 = 19 * 1024
	DefaultArgon2Time        uint32 = 2
	DefaultArgon2Parallelism uint8  = 1
	DefaultArgon2SaltLength  uint32 = 16
	DefaultArgon2KeyLength   uint32 = 32

	// upper bound accepted when parsing a stored hash
	maxArgon2MemoryKB uint32 = 1024 * 1024
	maxArgon2Time     uint32 = 64
)
