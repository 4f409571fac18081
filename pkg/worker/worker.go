package worker

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"meet-transcript/pkg/config"
	"meet-transcript/pkg/content"
	"meet-transcript/pkg/db"
	"meet-transcript/pkg/domain"
	"meet-transcript/pkg/httpclient"
	"meet-transcript/pkg/logging"
	"meet-transcript/pkg/transcript"
)

// Worker extracts transcripts from files and archives them.
type Worker struct {
	store   db.Store
	fetcher *httpclient.HTTPClient
	log     *logrus.Entry
}

const fetchTimeout = 30 * time.Second

// NewWorker creates a new worker. store may be nil to skip archiving.
// fetchLimit caps URL downloads; <= 0 uses config.DefaultMaxUploadBytes.
func NewWorker(store db.Store, fetchLimit int64) *Worker {
	if fetchLimit <= 0 {
		fetchLimit = config.DefaultMaxUploadBytes
	}
	return &Worker{
		store:   store,
		fetcher: httpclient.NewClient(fetchTimeout, fetchLimit),
		log:     logging.NewLogger("worker"),
	}
}

// ProcessFile reads, extracts and archives a single file. An http(s) URL
// is downloaded instead of read from disk.
func (w *Worker) ProcessFile(ctx context.Context, path string) (*domain.Transcript, error) {
	if isURL(path) {
		return w.processURL(ctx, path)
	}

	text, err := content.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return w.Process(ctx, filepath.Base(path), text)
}

func (w *Worker) processURL(ctx context.Context, rawURL string) (*domain.Transcript, error) {
	data, err := w.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	text, err := content.ReadUpload(urlFileName(rawURL), data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}

	return w.Process(ctx, rawURL, text)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// urlFileName picks the name used for format detection of a download.
func urlFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "index.html"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "index.html"
	}
	return name
}

// Process extracts a transcript from already decoded text. Archive
// failures are logged; the extracted transcript is still returned.
func (w *Worker) Process(ctx context.Context, source, text string) (*domain.Transcript, error) {
	res, err := transcript.ExtractLines(text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract transcript: %w", err)
	}

	// Title is best-effort metadata for the archive.
	title, _ := content.ExtractTitle(transcript.Normalize(text))

	rec := domain.NewTranscript(source, title, res)

	w.log.WithFields(logrus.Fields{
		"source": source,
		"lines":  len(res.Lines),
		"found":  res.Found,
	}).Debug("Extracted transcript")

	if w.store != nil {
		if err := w.store.SaveTranscript(ctx, rec); err != nil {
			w.log.WithError(err).WithField("source", source).Warn("Failed to archive transcript")
		}
	}

	return rec, nil
}
