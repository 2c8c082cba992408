package session

import "time"

const (
	// DefaultCleanupInterval is how often the memory store sweeps expired sessions.
	DefaultCleanupInterval = time.Minute

	// Error messages for session operations
	ErrLoadSession   = "failed to load session"
	ErrSaveSession   = "failed to save session"
	ErrDeleteSession = "failed to delete session"
	ErrNilSession    = "session is nil"
	ErrEncodeSession = "failed to encode session"
	ErrDecodeSession = "failed to decode session"
)
