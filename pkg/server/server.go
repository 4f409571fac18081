// Package server exposes transcript extraction over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"meet-transcript/pkg/config"
	"meet-transcript/pkg/content"
	"meet-transcript/pkg/db"
	"meet-transcript/pkg/logging"
	"meet-transcript/pkg/worker"
)

const (
	uploadField     = "file"
	multipartMemory = 32 << 20
)

var errNoData = errors.New("no data to process")

// Server handles uploads of meeting exports.
type Server struct {
	cfg    config.ServerConfig
	store  db.Store
	worker *worker.Worker
	log    *logrus.Entry
}

// New creates a server. store may be nil to disable archiving.
func New(cfg config.ServerConfig, store db.Store) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		worker: worker.NewWorker(store, cfg.MaxUploadBytes),
		log:    logging.NewLogger("server"),
	}
}

type processResponse struct {
	Result string `json:"result"`
	ID     string `json:"id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("GET /transcripts/{id}", s.handleGetTranscript)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)

	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.log.Info("Shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		s.writeTooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	name, data, err := readUpload(r)
	if err != nil {
		switch {
		case isTooLarge(err):
			s.writeTooLarge(w)
		case errors.Is(err, errNoData):
			writeError(w, http.StatusBadRequest, errNoData.Error())
		default:
			s.log.WithError(err).Warn("Failed to read upload")
			writeError(w, http.StatusBadRequest, errNoData.Error())
		}
		return
	}

	text, err := content.ReadUpload(name, data)
	if err != nil {
		s.log.WithError(err).WithField("file", name).Error("Failed to read document")
		writeError(w, http.StatusInternalServerError, "processing error: "+err.Error())
		return
	}

	rec, err := s.worker.Process(r.Context(), name, text)
	if err != nil {
		s.log.WithError(err).WithField("file", name).Error("Failed to extract transcript")
		writeError(w, http.StatusInternalServerError, "processing error: "+err.Error())
		return
	}

	resp := processResponse{Result: rec.Text}
	if s.store != nil {
		resp.ID = rec.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "archive is disabled")
		return
	}

	rec, err := s.store.GetTranscript(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.WithError(err).Error("Failed to load transcript")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) writeTooLarge(w http.ResponseWriter) {
	writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxUploadBytes))
}

// isTooLarge reports whether err came from the MaxBytesReader. The multipart
// reader does not always wrap it.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// readUpload returns the name and bytes of the uploaded file.
func readUpload(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return "", nil, errNoData
		}
		return "", nil, err
	}

	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, errNoData
	}
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	if header.Filename == "" {
		return "", nil, errNoData
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
