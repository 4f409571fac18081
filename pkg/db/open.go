package db

import (
	"context"
	"fmt"
	"strings"

	"meet-transcript/pkg/config"
)

// Open connects the archive selected by cfg. It returns a nil Store when
// archiving is disabled.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", config.BackendNone:
		return nil, nil

	case config.BackendMongo:
		client := NewClient(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := client.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return client, nil

	case config.BackendPostgres:
		client := NewPostgresClient(PostgresConfig{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		})
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		return NewSQLStore(client, Dollar, client.Close), nil

	case config.BackendSupabase:
		client := NewSupabaseClient(SupabaseConfig{
			ConnectionString: cfg.Supabase.ConnectionString,
			SupabaseURL:      cfg.Supabase.URL,
			SupabaseKey:      cfg.Supabase.Key,
			Password:         cfg.Supabase.Password,
		})
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		return NewSQLStore(client, Dollar, client.Close), nil

	case config.BackendSQLite:
		client := NewSQLiteClient(cfg.SQLite.Path)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		return NewSQLStore(client, Question, client.Close), nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}
