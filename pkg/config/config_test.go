package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, int64(200*1024*1024), cfg.Server.MaxUploadBytes)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
  shutdown_timeout: 3s
log:
  level: debug
  format: json
store:
  backend: postgres
  postgres:
    dsn: postgres://u:p@localhost:5432/meet?sslmode=disable
workers: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DefaultMaxUploadBytes, cfg.Server.MaxUploadBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "postgres://u:p@localhost:5432/meet?sslmode=disable", cfg.Store.Postgres.DSN)
	assert.Equal(t, "transcripts", cfg.Store.Mongo.Collection)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "server: [",
		"zero workers":    "workers: 0",
		"negative upload": "server:\n  max_upload_bytes: -1",
		"unknown backend": "store:\n  backend: redis",
		"unknown target":  "replicate_to:\n  backend: redis",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_UnknownBackendIsWrapped(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "redis"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownBackend)
}

func TestLoad_ReplicateTarget(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: sqlite
  sqlite:
    path: local.db
replicate_to:
  backend: mongo
  mongo:
    uri: mongodb://archive:27017
    database: meet
    collection: transcripts
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.Store.SQLite.Path)
	assert.Equal(t, BackendMongo, cfg.ReplicateTo.Backend)
	assert.Equal(t, "mongodb://archive:27017", cfg.ReplicateTo.Mongo.URI)
}
