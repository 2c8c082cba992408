package interfaces

import "context"

// DBClient is the connection lifecycle shared by the database-backed credential
// stores. Query methods live on the concrete clients.
type DBClient interface {
	// Connect establishes a connection to the database using a DSN (Data Source Name).
	Connect(ctx context.Context, dsn string) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Ping checks the health of the database connection.
	Ping(ctx context.Context) error
}
