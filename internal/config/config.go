package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Defaults applied before validation.
const (
	DefaultSQLitePath      = "fittrack.db"
	DefaultS3Key           = "fittrack/gym_app_data.json"
	DefaultMongoCollection = "app_state"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// WebDir is an optional directory holding the built frontend.
	WebDir string `yaml:"web_dir"`
}

type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres DatabaseConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
	Mongo    MongoConfig    `yaml:"mongo"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Key             string `yaml:"key"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix FITTRACK_ and underscore-separated paths:
//
//	FITTRACK_SERVER_HOST, FITTRACK_SERVER_PORT, FITTRACK_SERVER_WEB_DIR,
//	FITTRACK_STORAGE_DRIVER, FITTRACK_SQLITE_PATH,
//	FITTRACK_DB_HOST, FITTRACK_DB_PORT, FITTRACK_DB_NAME,
//	FITTRACK_DB_USER, FITTRACK_DB_PASSWORD, FITTRACK_DB_SSLMODE,
//	FITTRACK_S3_ENDPOINT, FITTRACK_S3_REGION, FITTRACK_S3_BUCKET, FITTRACK_S3_KEY,
//	FITTRACK_S3_ACCESS_KEY_ID, FITTRACK_S3_SECRET_ACCESS_KEY,
//	FITTRACK_MONGO_URI, FITTRACK_MONGO_DATABASE, FITTRACK_MONGO_COLLECTION,
//	FITTRACK_AUTH_API_KEY,
//	FITTRACK_TAILSCALE_ENABLED, FITTRACK_TAILSCALE_HOSTNAME, FITTRACK_TAILSCALE_STATE_DIR,
//	FITTRACK_MCP_ENABLED
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Host, "FITTRACK_SERVER_HOST")
	setInt(&cfg.Server.Port, "FITTRACK_SERVER_PORT")
	setString(&cfg.Server.WebDir, "FITTRACK_SERVER_WEB_DIR")

	setString(&cfg.Storage.Driver, "FITTRACK_STORAGE_DRIVER")
	setString(&cfg.Storage.SQLite.Path, "FITTRACK_SQLITE_PATH")

	db := &cfg.Storage.Postgres
	setString(&db.Host, "FITTRACK_DB_HOST")
	setInt(&db.Port, "FITTRACK_DB_PORT")
	setString(&db.Name, "FITTRACK_DB_NAME")
	setString(&db.User, "FITTRACK_DB_USER")
	setString(&db.Password, "FITTRACK_DB_PASSWORD")
	setString(&db.SSLMode, "FITTRACK_DB_SSLMODE")

	s3 := &cfg.Storage.S3
	setString(&s3.Endpoint, "FITTRACK_S3_ENDPOINT")
	setString(&s3.Region, "FITTRACK_S3_REGION")
	setString(&s3.Bucket, "FITTRACK_S3_BUCKET")
	setString(&s3.Key, "FITTRACK_S3_KEY")
	setString(&s3.AccessKeyID, "FITTRACK_S3_ACCESS_KEY_ID")
	setString(&s3.SecretAccessKey, "FITTRACK_S3_SECRET_ACCESS_KEY")

	mongo := &cfg.Storage.Mongo
	setString(&mongo.URI, "FITTRACK_MONGO_URI")
	setString(&mongo.Database, "FITTRACK_MONGO_DATABASE")
	setString(&mongo.Collection, "FITTRACK_MONGO_COLLECTION")

	setString(&cfg.Auth.APIKey, "FITTRACK_AUTH_API_KEY")

	setBool(&cfg.Tailscale.Enabled, "FITTRACK_TAILSCALE_ENABLED")
	setString(&cfg.Tailscale.Hostname, "FITTRACK_TAILSCALE_HOSTNAME")
	setString(&cfg.Tailscale.StateDir, "FITTRACK_TAILSCALE_STATE_DIR")

	setBool(&cfg.MCP.Enabled, "FITTRACK_MCP_ENABLED")
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.S3.Key == "" {
		cfg.Storage.S3.Key = DefaultS3Key
	}
	if cfg.Storage.Mongo.Collection == "" {
		cfg.Storage.Mongo.Collection = DefaultMongoCollection
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "fittrack"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return c.Storage.validate()
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case DriverSQLite, DriverMemory:
		return nil
	case DriverPostgres:
		db := s.Postgres
		if db.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if db.Port == 0 {
			return fmt.Errorf("storage.postgres.port is required")
		}
		if db.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if db.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
		return nil
	case DriverS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required")
		}
		if s.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required")
		}
		return nil
	case DriverMongo:
		if s.Mongo.URI == "" {
			return fmt.Errorf("storage.mongo.uri is required")
		}
		if s.Mongo.Database == "" {
			return fmt.Errorf("storage.mongo.database is required")
		}
		return nil
	default:
		return fmt.Errorf("storage.driver %q is not one of sqlite, postgres, s3, mongo, memory", s.Driver)
	}
}
