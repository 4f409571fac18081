package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meet-transcript/pkg/config"
)

func TestOpen_None(t *testing.T) {
	for _, backend := range []string{"", config.BackendNone} {
		store, err := Open(context.Background(), config.StoreConfig{Backend: backend})
		require.NoError(t, err)
		assert.Nil(t, store)
	}
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Backend: "redis"})
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestOpen_SQLite(t *testing.T) {
	store, err := Open(context.Background(), config.StoreConfig{
		Backend: config.BackendSQLite,
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "a.db")},
	})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.IsType(t, &SQLStore{}, store)
	assert.NoError(t, store.Close(context.Background()))
}

func TestOpen_PostgresNeedsDSN(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Backend: config.BackendPostgres})
	assert.Error(t, err)
}
