package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"meet-transcript/pkg/domain"
	"meet-transcript/pkg/transcript"
)

const createTranscriptTable = `
CREATE TABLE IF NOT EXISTS transcript (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	lines      TEXT NOT NULL,
	body       TEXT NOT NULL,
	found      BOOLEAN NOT NULL,
	created_at TEXT NOT NULL
)`

const upsertTranscript = `
INSERT INTO transcript (id, source, title, lines, body, found, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	source = excluded.source,
	title = excluded.title,
	lines = excluded.lines,
	body = excluded.body,
	found = excluded.found,
	created_at = excluded.created_at`

const selectColumns = `SELECT id, source, title, lines, body, found, created_at FROM transcript`

const selectTranscript = selectColumns + ` WHERE id = ?`

const listTranscripts = selectColumns + ` ORDER BY created_at, id`

// createdAtLayout is fixed-width so created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

var _ Store = (*SQLStore)(nil)

// Placeholder styles.
const (
	// Question keeps "?" placeholders (SQLite).
	Question = iota
	// Dollar rewrites them to "$1", "$2", ... (Postgres, Supabase).
	Dollar
)

// SQLStore archives transcripts in a database/sql backend.
type SQLStore struct {
	provider    DBProvider
	closeFn     func() error
	placeholder int

	schemaMu    sync.Mutex
	schemaReady bool
}

// NewSQLStore wraps a connected provider. closeFn, when non-nil, is called
// by Close.
func NewSQLStore(provider DBProvider, placeholder int, closeFn func() error) *SQLStore {
	return &SQLStore{provider: provider, placeholder: placeholder, closeFn: closeFn}
}

// rebind rewrites "?" placeholders for the configured style.
func (s *SQLStore) rebind(query string) string {
	if s.placeholder != Dollar {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) db() (*sql.DB, error) {
	if s.provider == nil || s.provider.DB() == nil {
		return nil, fmt.Errorf("database not connected")
	}
	return s.provider.DB(), nil
}

// ensureSchema creates the transcript table on first use.
func (s *SQLStore) ensureSchema(ctx context.Context, db *sql.DB) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()

	if s.schemaReady {
		return nil
	}
	if _, err := db.ExecContext(ctx, createTranscriptTable); err != nil {
		return fmt.Errorf("create transcript table: %w", err)
	}
	s.schemaReady = true
	return nil
}

// SaveTranscript upserts a transcript by ID.
func (s *SQLStore) SaveTranscript(ctx context.Context, t *domain.Transcript) error {
	db, err := s.db()
	if err != nil {
		return err
	}
	if err := s.ensureSchema(ctx, db); err != nil {
		return err
	}

	lines, err := json.Marshal(t.Lines)
	if err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}

	_, err = db.ExecContext(ctx, s.rebind(upsertTranscript),
		t.ID, t.Source, t.Title, string(lines), t.Text, t.Found,
		t.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("save transcript %s: %w", t.ID, err)
	}
	return nil
}

// GetTranscript loads a transcript by ID.
func (s *SQLStore) GetTranscript(ctx context.Context, id string) (*domain.Transcript, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx, db); err != nil {
		return nil, err
	}

	t, err := scanTranscript(db.QueryRowContext(ctx, s.rebind(selectTranscript), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript %s: %w", id, err)
	}
	return t, nil
}

// ListTranscripts returns every archived transcript, oldest first.
func (s *SQLStore) ListTranscripts(ctx context.Context) ([]*domain.Transcript, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(ctx, db); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, listTranscripts)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var out []*domain.Transcript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("list transcripts: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranscript(row rowScanner) (*domain.Transcript, error) {
	var (
		t         domain.Transcript
		lines     string
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Source, &t.Title, &lines, &t.Text, &t.Found, &createdAt); err != nil {
		return nil, err
	}

	var decoded []transcript.Line
	if err := json.Unmarshal([]byte(lines), &decoded); err != nil {
		return nil, fmt.Errorf("decode lines of %s: %w", t.ID, err)
	}
	t.Lines = decoded

	var err error
	if t.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
		return nil, fmt.Errorf("decode created_at of %s: %w", t.ID, err)
	}
	return &t, nil
}

// Close releases the underlying connection.
func (s *SQLStore) Close(_ context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
