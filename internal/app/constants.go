package app

const (
	ErrReadConfig              = "failed to read configuration"
	ErrInitHasher              = "failed to initialize password hasher"
	ErrInitValidator           = "failed to initialize validator"
	ErrInitCredentialStore     = "failed to initialize credential store"
	ErrInitSessionStore        = "failed to initialize session store"
	ErrInitPrivateKey          = "failed to initialize private key"
	ErrInitAuthService         = "failed to initialize auth service"
	ErrAddRoute                = "failed to add route"
	ErrUnsupportedStoreType    = "unsupported credential store type"
	ErrUnsupportedSessionStore = "unsupported session store type"
)
