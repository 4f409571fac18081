package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"meet-transcript/pkg/db"
	"meet-transcript/pkg/domain"
	"meet-transcript/pkg/logging"
)

// Result is the outcome of processing one file.
type Result struct {
	Path       string
	Transcript *domain.Transcript
	Err        error
}

// Manager manages workers and distributes files to them
type Manager struct {
	workerCount int
	store       db.Store
	fetchLimit  int64
	log         *logrus.Entry
}

// NewManager creates a new manager. workerCount <= 0 is coerced to 1.
// fetchLimit is handed to every worker, see NewWorker.
func NewManager(workerCount int, store db.Store, fetchLimit int64) *Manager {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Manager{
		workerCount: workerCount,
		store:       store,
		fetchLimit:  fetchLimit,
		log:         logging.NewLogger("manager"),
	}
}

type job struct {
	index int
	path  string
}

// ProcessFiles distributes files to workers and returns one result per
// path, in input order. It fails only when every file failed.
func (m *Manager) ProcessFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	for i, path := range paths {
		results[i].Path = path
	}
	if len(paths) == 0 {
		return results, nil
	}

	jobChan := make(chan job)

	// Each worker writes only its own result slots, so no locking is needed.
	var wg sync.WaitGroup
	for i := 0; i < m.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			w := NewWorker(m.store, m.fetchLimit)
			for j := range jobChan {
				rec, err := w.ProcessFile(ctx, j.path)
				results[j.index].Transcript = rec
				results[j.index].Err = err

				if err != nil {
					m.log.WithError(err).WithFields(logrus.Fields{
						"worker": workerID,
						"file":   j.path,
					}).Error("Error processing file")
				}
			}
		}(i)
	}

	sent := 0
send:
	for i, path := range paths {
		select {
		case <-ctx.Done():
			break send
		case jobChan <- job{index: i, path: path}:
			sent++
		}
	}
	close(jobChan)
	wg.Wait()

	for i := sent; i < len(paths); i++ {
		results[i].Err = ctx.Err()
	}

	var successCount, errorCount int
	for _, res := range results {
		if res.Err != nil {
			errorCount++
		} else {
			successCount++
		}
	}

	m.log.WithFields(logrus.Fields{
		"successful": successCount,
		"errors":     errorCount,
		"total":      len(paths),
	}).Info("Completed")

	if errorCount > 0 && successCount == 0 {
		return results, fmt.Errorf("all %d files failed to process", errorCount)
	}
	return results, nil
}
