package db

import (
	"context"
	"database/sql"
	"errors"

	"meet-transcript/pkg/domain"
)

// ErrNotFound is returned when a transcript ID is not in the archive.
var ErrNotFound = errors.New("transcript not found")

// DBProvider is an interface for database clients that provide access to a sql.DB handle.
// This allows PostgresClient, SupabaseClient and SQLiteClient to back the same SQLStore.
type DBProvider interface {
	DB() *sql.DB
}

// Store archives extraction results.
type Store interface {
	SaveTranscript(ctx context.Context, t *domain.Transcript) error
	GetTranscript(ctx context.Context, id string) (*domain.Transcript, error)
	// ListTranscripts returns every archived transcript, oldest first.
	ListTranscripts(ctx context.Context) ([]*domain.Transcript, error)
	Close(ctx context.Context) error
}
