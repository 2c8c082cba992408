package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/haguru/gatekeeper/config"
	"github.com/haguru/gatekeeper/internal/interfaces"
)

const (
	MAXPOOLSIZE = 20
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB.
type MongoDBClient struct {
	ServerOpts   *options.ServerAPIOptions
	client       *mongo.Client
	db           *mongo.Database
	databaseName string
	timeout      time.Duration
	logger       interfaces.Logger
}

var _ interfaces.DBClient = (*MongoDBClient)(nil)

// NewMongoDB returns an unconnected client for the given settings.
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) *MongoDBClient {
	opts := dbConfig.Options
	if opts.APIVersion == "" {
		opts.APIVersion = string(options.ServerAPIVersion1)
	}
	return &MongoDBClient{
		timeout:      dbConfig.Timeout,
		databaseName: dbConfig.DatabaseName,
		ServerOpts:   config.BuildServerAPIOptions(opts),
		logger:       logger,
	}
}

// Connect establishes a connection to the MongoDB server using the provided DSN.
// The database is the configured database name, or the first path segment of
// the DSN when none is configured.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	databaseName := m.databaseName
	if databaseName == "" {
		var err error
		databaseName, err = getDBNameFromMongoDSN(dsn)
		if err != nil {
			return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %w", err)
		}
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	clientOptions := options.Client().ApplyURI(dsn)
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	m.logger.Info("connecting to MongoDB", "database", databaseName)

	var err error
	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %w", err)
	}
	m.logger.Info("connected to MongoDB", "database", databaseName)

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB server.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	if m.client != nil {
		m.logger.Info("disconnecting from MongoDB")
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	return m.client.Ping(ctx, nil)
}

// Collection returns a handle on the named collection of the connected database.
func (m *MongoDBClient) Collection(name string) (*mongo.Collection, error) {
	if m.db == nil {
		return nil, fmt.Errorf("MongoDBClient is not connected to a database")
	}
	if name == "" || strings.ContainsAny(name, "$\x00") {
		return nil, fmt.Errorf("MongoDBClient: Invalid collection name: %q", name)
	}
	return m.db.Collection(name), nil
}

// EnsureUniqueIndex creates an ascending unique index on field. The collection
// is created by the server if it does not exist.
func EnsureUniqueIndex(ctx context.Context, collection *mongo.Collection, field string) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(ctx, model)
	return err
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path")
	}

	// only the first segment names the database
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}
