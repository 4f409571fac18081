package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meet-transcript/pkg/domain"
	"meet-transcript/pkg/transcript"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()

	client := NewSQLiteClient(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, client.Connect(context.Background()))

	store := NewSQLStore(client, Question, client.Close)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestSQLStore_SaveAndGet(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	offset := int64(61000)
	rec := domain.NewTranscript("call.html", "Weekly sync", transcript.Result{
		Lines: []transcript.Line{
			{Timestamp: &offset, Speaker: "Anna", Text: "Hello"},
			{Speaker: "unknown", Text: "Hi"},
		},
		Found: true,
		Text:  "[01:01] Anna:\nHello\n\nunknown:\nHi\n",
	})

	require.NoError(t, store.SaveTranscript(ctx, rec))

	got, err := store.GetTranscript(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Source, got.Source)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Text, got.Text)
	assert.True(t, got.Found)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Lines, 2)
	require.NotNil(t, got.Lines[0].Timestamp)
	assert.Equal(t, offset, *got.Lines[0].Timestamp)
	assert.Nil(t, got.Lines[1].Timestamp)
}

func TestSQLStore_Upsert(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	rec := domain.NewTranscript("call.html", "", transcript.Result{Text: transcript.NoBlocksMessage})
	require.NoError(t, store.SaveTranscript(ctx, rec))

	rec.Title = "Renamed"
	require.NoError(t, store.SaveTranscript(ctx, rec))

	got, err := store.GetTranscript(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.False(t, got.Found)
	assert.Empty(t, got.Lines)
}

func TestSQLStore_NotFound(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.GetTranscript(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_NotConnected(t *testing.T) {
	store := NewSQLStore(NewSQLiteClient("unused.db"), Question, nil)

	err := store.SaveTranscript(context.Background(), &domain.Transcript{ID: "x"})
	assert.Error(t, err)
	assert.NoError(t, store.Close(context.Background()))
}

func TestSQLStore_Rebind(t *testing.T) {
	q := "SELECT a FROM t WHERE a = ? AND b = ?"

	assert.Equal(t, q, NewSQLStore(nil, Question, nil).rebind(q))
	assert.Equal(t, "SELECT a FROM t WHERE a = $1 AND b = $2", NewSQLStore(nil, Dollar, nil).rebind(q))
}

func TestSQLStore_List(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	empty, err := store.ListTranscripts(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first := domain.NewTranscript("a.html", "", transcript.Result{Text: transcript.NotFoundMessage})
	second := domain.NewTranscript("b.html", "", transcript.Result{Text: transcript.NoBlocksMessage})
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, store.SaveTranscript(ctx, second))
	require.NoError(t, store.SaveTranscript(ctx, first))

	all, err := store.ListTranscripts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}
