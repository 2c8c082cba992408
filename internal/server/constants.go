package server

const (
	ErrNilHandler          = "nil handler for route"
	ErrFailedToAddRoute    = "failed to add route"
	ErrFailedToStartServer = "failed to start server"
	ErrFailedToShutdown    = "failed to shut down server"
)
