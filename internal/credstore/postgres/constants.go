package postgres

const (
	// uniqueViolation is the SQLSTATE PostgreSQL reports for a duplicate primary key.
	uniqueViolation = "23505"

	usernameColumn     = "username"
	passwordHashColumn = "password_hash"

	createTableStmt = `CREATE TABLE IF NOT EXISTS %s (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL
)`

	// Error messages for postgres store operations
	ErrEnsureTable = "failed to ensure users table"
	ErrListUsers   = "failed to list users from PostgreSQL"
	ErrInsertUser  = "failed to add user to PostgreSQL"
	ErrScanUser    = "failed to scan user row"
)
