package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meet-transcript/pkg/domain"
	"meet-transcript/pkg/transcript"
)

// TestClient_SaveAndGet runs against a live MongoDB when MEET_TRANSCRIPT_MONGO_URI is set.
func TestClient_SaveAndGet(t *testing.T) {
	uri := os.Getenv("MEET_TRANSCRIPT_MONGO_URI")
	if testing.Short() || uri == "" {
		t.Skip("Skipping integration test: MEET_TRANSCRIPT_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := NewClient(uri, "meettranscript_test", "transcripts_test")
	require.NoError(t, client.Connect(ctx))
	defer client.Close(ctx)

	rec := domain.NewTranscript("call.html", "Weekly sync", transcript.Result{
		Lines: []transcript.Line{{Speaker: "Anna", Text: "Hello"}},
		Found: true,
		Text:  "Anna:\nHello\n",
	})
	require.NoError(t, client.SaveTranscript(ctx, rec))

	got, err := client.GetTranscript(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Text, got.Text)
	assert.Equal(t, rec.Lines, got.Lines)

	_, err = client.GetTranscript(ctx, "missing-"+rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := client.ListTranscripts(ctx)
	require.NoError(t, err)
	var ids []string
	for _, saved := range all {
		ids = append(ids, saved.ID)
	}
	assert.Contains(t, ids, rec.ID)
}

func TestClient_NotInitialized(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.Connect(context.Background()))
	assert.NoError(t, c.Close(context.Background()))
	assert.Error(t, c.SaveTranscript(context.Background(), &domain.Transcript{ID: "x"}))

	_, err := c.GetTranscript(context.Background(), "x")
	assert.Error(t, err)

	_, err = c.ListTranscripts(context.Background())
	assert.Error(t, err)
}
