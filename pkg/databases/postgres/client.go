package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql

	"github.com/haguru/gatekeeper/config"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second

	driverName = "postgres"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresDatabaseClient owns a database/sql pool for PostgreSQL.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int           // MaxOpenConns is the maximum number of open connections to the database
	MaxIdleConns    int           // MaxIdleConns is the maximum number of idle connections to the database
	ConnMaxLifetime time.Duration // ConnMaxLifetime is the maximum amount of time a connection may be reused
}

// NewPostgresDatabaseClient applies the pool options, falling back to the defaults for zero values.
func NewPostgresDatabaseClient(opts config.PostgresServerOptions) *PostgresDatabaseClient {
	client := &PostgresDatabaseClient{
		MaxOpenConns:    opts.MaxOpenConns,
		MaxIdleConns:    opts.MaxIdleConns,
		ConnMaxLifetime: opts.ConnMaxLifetime,
	}
	if client.MaxOpenConns <= 0 {
		client.MaxOpenConns = DefaultMaxOpenConns
	}
	if client.MaxIdleConns <= 0 {
		client.MaxIdleConns = DefaultMaxIdleConns
	}
	if client.ConnMaxLifetime <= 0 {
		client.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return client
}

// Connect establishes a connection to a PostgreSQL database.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	var err error
	p.db, err = sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	p.db.SetMaxOpenConns(p.MaxOpenConns)
	p.db.SetMaxIdleConns(p.MaxIdleConns)
	p.db.SetConnMaxLifetime(p.ConnMaxLifetime)

	return p.Ping(ctx)
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return p.db.PingContext(ctx)
}

// InsertOne inserts a single row built from the column/value map.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document map[string]interface{}) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	query, values, err := BuildInsertQuery(tableName, document)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, query, values...)
	return err
}

// FindAll selects the given columns of every row and hands each row to scan.
func (p *PostgresDatabaseClient) FindAll(ctx context.Context, tableName string, columns []string, scan func(*sql.Rows) error) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	query, err := BuildSelectQuery(tableName, columns)
	if err != nil {
		return err
	}

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// EnsureSchema runs a CREATE TABLE IF NOT EXISTS style statement.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, createStmt string) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	if strings.TrimSpace(createStmt) == "" {
		return fmt.Errorf("EnsureSchema expects a CREATE TABLE statement")
	}
	_, err := p.db.ExecContext(ctx, createStmt)
	return err
}

// BuildInsertQuery renders a parameterized INSERT. Columns are sorted so the
// statement is stable for a given document shape.
func BuildInsertQuery(tableName string, document map[string]interface{}) (string, []interface{}, error) {
	if err := ValidateIdentifier(tableName); err != nil {
		return "", nil, err
	}
	if len(document) == 0 {
		return "", nil, fmt.Errorf("PostgreSQL InsertOne requires a non-empty document")
	}

	columns := make([]string, 0, len(document))
	for col := range document {
		if err := ValidateIdentifier(col); err != nil {
			return "", nil, err
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	values := make([]interface{}, len(columns))
	for i, col := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		values[i] = document[col]
	}

	//This is a safe use of fmt.Sprintf for SQL query construction, as identifiers are validated.
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	) // #nosec G201
	return query, values, nil
}

// BuildSelectQuery renders a SELECT of the given columns over the whole table.
func BuildSelectQuery(tableName string, columns []string) (string, error) {
	if err := ValidateIdentifier(tableName); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("PostgreSQL FindAll requires at least one column")
	}
	for _, col := range columns {
		if err := ValidateIdentifier(col); err != nil {
			return "", err
		}
	}
	//This is a safe use of fmt.Sprintf for SQL query construction, as identifiers are validated.
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), tableName), nil // #nosec G201
}

// ValidateIdentifier rejects anything that is not a plain SQL identifier.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid SQL identifier %q", name)
	}
	return nil
}
