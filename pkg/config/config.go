// Package config loads the YAML configuration shared by the CLI and the
// HTTP service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultMaxUploadBytes caps uploads at 200 MiB.
const DefaultMaxUploadBytes int64 = 200 * 1024 * 1024

// Store backends.
const (
	BackendNone     = "none"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

var (
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidMaxUpload = errors.New("server.max_upload_bytes must be positive")
	ErrUnknownBackend   = errors.New("unknown store backend")
)

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MongoConfig holds the archive connection for the mongo backend.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// PostgresConfig holds the archive connection for the postgres backend.
type PostgresConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns,omitempty"`
	MaxIdleConns int    `yaml:"max_idle_conns,omitempty"`
}

// SupabaseConfig holds the archive connection for the supabase backend.
// Either ConnectionString or URL+Password must be set.
type SupabaseConfig struct {
	ConnectionString string `yaml:"connection_string,omitempty"`
	URL              string `yaml:"url,omitempty"`
	Key              string `yaml:"key,omitempty"`
	Password         string `yaml:"password,omitempty"`
}

// SQLiteConfig holds the archive file for the sqlite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig selects where extraction results are archived.
type StoreConfig struct {
	// Backend is one of none, mongo, postgres, supabase or sqlite.
	Backend  string         `yaml:"backend"`
	Mongo    MongoConfig    `yaml:"mongo,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	Supabase SupabaseConfig `yaml:"supabase,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	Store   StoreConfig  `yaml:"store"`
	Workers int          `yaml:"workers"`

	// ReplicateTo is the destination of the replicate command.
	ReplicateTo StoreConfig `yaml:"replicate_to,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:5000",
			MaxUploadBytes:  DefaultMaxUploadBytes,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend: BackendNone,
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "meettranscript",
				Collection: "transcripts",
			},
			SQLite: SQLiteConfig{
				Path: "transcripts.db",
			},
		},
		Workers: 4,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Server.MaxUploadBytes <= 0 {
		return ErrInvalidMaxUpload
	}

	for _, backend := range []string{c.Store.Backend, c.ReplicateTo.Backend} {
		if err := validateBackend(backend); err != nil {
			return err
		}
	}
	return nil
}

func validateBackend(backend string) error {
	switch strings.ToLower(backend) {
	case "", BackendNone, BackendMongo, BackendPostgres, BackendSupabase, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
