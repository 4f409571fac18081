package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		_, _ = w.Write([]byte("<p>hi</p>"))
	}))
	defer srv.Close()

	data, err := NewClient(time.Second, 0).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(data))
}

func TestFetch_Status(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewClient(time.Second, 0).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	_, err := NewClient(time.Second, 10).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err := NewClient(time.Second, 100).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, data, 100)
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(time.Second, 0).Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
