package file

const (
	// FieldDelimiter separates the username from the password hash on a line.
	FieldDelimiter = ":"

	filePerm = 0o600
	dirPerm  = 0o700

	maxLineBytes = 64 * 1024

	// Error messages for file store operations
	ErrOpenStore      = "failed to open credential file"
	ErrReadStore      = "failed to read credential file"
	ErrLockStore      = "failed to lock credential file"
	ErrWriteStore     = "failed to write credential file"
	ErrCreateStoreDir = "failed to create credential directory"
	ErrInvalidRecord  = "invalid credential record"
)
