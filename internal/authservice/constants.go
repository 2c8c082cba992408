package authservice

const (
	// dummyPassword is hashed once at start-up; logins for unknown users are
	// verified against it so they cost as much as a real check.
	dummyPassword = "gatekeeper-timing-equalizer" // #nosec G101

	// Error messages for auth service operations
	ErrFailedToHashPassword = "failed to hash password" // #nosec G101
	ErrFailedToRegisterUser = "failed to register user"
	ErrRetrievingUsers      = "error retrieving users"
	ErrCreatingSession      = "error creating session"
	ErrNilDependency        = "auth service dependency is nil"
)
