package config

import (
	"fmt"
	"os"
	"time"

	structValidator "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	StoreTypeFile     = "file"
	StoreTypePostgres = "postgres"
	StoreTypeMongo    = "mongo"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"

	DefaultCookieName      = "session_token"
	DefaultSessionLifetime = 24 * time.Hour
	DefaultRedisKeyPrefix  = "gatekeeper:session:"
	DefaultUsersFile       = "./res/users.txt"
	DefaultUsersTable      = "users"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName     string          `yaml:"service_name" validate:"required"`
	LogLevel        string          `yaml:"loglevel" validate:"required"`
	Host            string          `yaml:"host" validate:"required"`
	Port            string          `yaml:"port" validate:"required"`
	PrivateKeyPath  string          `yaml:"private_key_path"`
	Hasher          Hasher          `yaml:"hasher"`
	CredentialStore CredentialStore `yaml:"credential_store" validate:"required"`
	Session         Session         `yaml:"session"`
}

// Hasher selects and tunes the password hashing algorithm.
type Hasher struct {
	Algorithm  string       `yaml:"algorithm" validate:"omitempty,oneof=bcrypt argon2id"`
	BcryptCost int          `yaml:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
	Argon2     Argon2Config `yaml:"argon2"`
}

type Argon2Config struct {
	MemoryKB    uint32 `yaml:"memory_kb"`
	Time        uint32 `yaml:"time"`
	Parallelism uint8  `yaml:"parallelism"`
	SaltLength  uint32 `yaml:"salt_length"`
	KeyLength   uint32 `yaml:"key_length"`
}

type CredentialStore struct {
	Type string `yaml:"type" validate:"required,oneof=file postgres mongo"`
	// For the flat file
	File FileConfig `yaml:"file_config"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

// MongoDBConfig holds the MongoDB connection settings.
type MongoDBConfig struct {
	DSN            string             `yaml:"dsn"`
	DatabaseName   string             `yaml:"database_name"`
	CollectionName string             `yaml:"collection_name"`
	Timeout        time.Duration      `yaml:"timeout"`
	Options        MongoServerOptions `yaml:"mongo_server_options"`
}

type PostgresConfig struct {
	DSN       string                `yaml:"dsn"`
	TableName string                `yaml:"table_name"`
	Options   PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Session configures the session cookie and where session state lives.
type Session struct {
	CookieName   string        `yaml:"cookie_name"`
	SecureCookie bool          `yaml:"secure_cookie"`
	Lifetime     time.Duration `yaml:"lifetime"`
	Store        SessionStore  `yaml:"store"`
}

type SessionStore struct {
	Type  string      `yaml:"type" validate:"omitempty,oneof=memory redis"`
	Redis RedisConfig `yaml:"redis_config"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct and returns it.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyDefaults fills every optional setting left empty in the file.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Hasher.Algorithm == "" {
		c.Hasher.Algorithm = HasherBcrypt
	}
	if c.CredentialStore.Type == StoreTypeFile && c.CredentialStore.File.Path == "" {
		c.CredentialStore.File.Path = DefaultUsersFile
	}
	if c.CredentialStore.Postgres.TableName == "" {
		c.CredentialStore.Postgres.TableName = DefaultUsersTable
	}
	if c.CredentialStore.MongoDB.CollectionName == "" {
		c.CredentialStore.MongoDB.CollectionName = DefaultUsersTable
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Session.Lifetime <= 0 {
		c.Session.Lifetime = DefaultSessionLifetime
	}
	if c.Session.Store.Type == "" {
		c.Session.Store.Type = SessionStoreMemory
	}
	if c.Session.Store.Redis.KeyPrefix == "" {
		c.Session.Store.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
}

// Validate checks the struct tags and the settings that depend on the selected backends.
func (c *ServiceConfig) Validate(validator *structValidator.Validate) error {
	if err := validator.Struct(c); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	switch c.CredentialStore.Type {
	case StoreTypePostgres:
		if c.CredentialStore.Postgres.DSN == "" {
			return fmt.Errorf("validation error: postgres_config.dsn is required")
		}
	case StoreTypeMongo:
		if c.CredentialStore.MongoDB.DSN == "" || c.CredentialStore.MongoDB.DatabaseName == "" {
			return fmt.Errorf("validation error: mongodb_config.dsn and database_name are required")
		}
	}

	if c.Session.Store.Type == SessionStoreRedis && c.Session.Store.Redis.Addr == "" {
		return fmt.Errorf("validation error: session.store.redis_config.addr is required")
	}

	return nil
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}
