// Package replication copies archived transcripts between stores, for
// example from a local SQLite archive into Postgres or Mongo.
package replication

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"meet-transcript/pkg/db"
	"meet-transcript/pkg/domain"
	"meet-transcript/pkg/logging"
)

const (
	defaultBatchSize = 100
	defaultWorkers   = 5
)

// Config wires the replication dependencies.
type Config struct {
	Source      db.Store
	Destination db.Store

	BatchSize int
	Workers   int
}

// Stats summarizes a replication run.
type Stats struct {
	Processed int
	Copied    int
}

// Replicator copies transcripts from one store to another.
//
// It is a one-shot "copy everything" flow. Records whose ID already exists
// in the destination are skipped.
type Replicator struct {
	src       db.Store
	dst       db.Store
	batchSize int
	workers   int
	log       *logrus.Entry
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("source store is required")
	}
	if cfg.Destination == nil {
		return nil, fmt.Errorf("destination store is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Replicator{
		src:       cfg.Source,
		dst:       cfg.Destination,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
		log:       logging.NewLogger("replication"),
	}, nil
}

// Replicate reads every transcript from the source and copies the ones the
// destination does not have. It stops at the first failing batch.
func (r *Replicator) Replicate(ctx context.Context) (Stats, error) {
	all, err := r.src.ListTranscripts(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("read source: %w", err)
	}

	r.log.WithField("count", len(all)).Info("Loaded transcripts from source, processing in batches")

	stats, err := r.processBatches(ctx, all)
	if err != nil {
		return stats, err
	}

	r.log.WithFields(logrus.Fields{
		"processed": stats.Processed,
		"copied":    stats.Copied,
	}).Info("Replication complete")
	return stats, nil
}

type batchJob struct {
	batch []*domain.Transcript
	start int
	end   int
}

type batchResult struct {
	processed int
	copied    int
	err       error
}

// processBatches processes all transcripts in batches in parallel.
func (r *Replicator) processBatches(ctx context.Context, all []*domain.Transcript) (Stats, error) {
	numBatches := (len(all) + r.batchSize - 1) / r.batchSize
	jobs := make(chan batchJob, numBatches)
	results := make(chan batchResult, numBatches)

	for start := 0; start < len(all); start += r.batchSize {
		end := min(start+r.batchSize, len(all))
		jobs <- batchJob{batch: all[start:end], start: start, end: end}
	}
	close(jobs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				copied, err := r.processBatch(ctx, job)
				results <- batchResult{processed: len(job.batch), copied: copied, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		stats    Stats
		firstErr error
	)
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		stats.Processed += res.processed
		stats.Copied += res.copied
	}

	return stats, firstErr
}

// processBatch copies the transcripts of one batch that the destination
// does not have yet.
func (r *Replicator) processBatch(ctx context.Context, job batchJob) (int, error) {
	r.log.WithFields(logrus.Fields{
		"start": job.start,
		"end":   job.end,
	}).Debug("Processing batch")

	copied := 0
	for _, t := range job.batch {
		if err := ctx.Err(); err != nil {
			return copied, err
		}

		_, err := r.dst.GetTranscript(ctx, t.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, db.ErrNotFound) {
			return copied, fmt.Errorf("check %s in batch [%d:%d]: %w", t.ID, job.start, job.end, err)
		}

		if err := r.dst.SaveTranscript(ctx, t); err != nil {
			return copied, fmt.Errorf("copy %s in batch [%d:%d]: %w", t.ID, job.start, job.end, err)
		}
		copied++
	}
	return copied, nil
}
