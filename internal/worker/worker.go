// Package worker drains the submission queue and fans created postings out
// to the configured indexing backends.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/project-nvt/posting-engine/internal/domain"
	"github.com/project-nvt/posting-engine/internal/indexer"
	"github.com/project-nvt/posting-engine/internal/submit"
)

// Worker consumes submitted postings and writes them to every backend
type Worker struct {
	consumer *submit.Consumer
	dedup    *submit.Deduplicator
	indexers []indexer.Indexer

	batchSize   int
	concurrency int
}

// Config holds worker pool settings
type Config struct {
	Concurrency int
	BatchSize   int
}

// NewWorker creates a worker. A nil dedup disables the double-submit guard.
func NewWorker(consumer *submit.Consumer, dedup *submit.Deduplicator, indexers []indexer.Indexer, cfg Config) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	return &Worker{
		consumer:    consumer,
		dedup:       dedup,
		indexers:    indexers,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
	}
}

// Run starts the worker pool and blocks until the context is cancelled or a
// worker fails
func (w *Worker) Run(ctx context.Context) error {
	log.Printf("Starting posting worker pool with %d workers", w.concurrency)

	var wg sync.WaitGroup
	errChan := make(chan error, w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := w.runSingle(ctx, workerID); err != nil {
				errChan <- fmt.Errorf("worker %d: %w", workerID, err)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	case <-done:
		return nil
	}
}

func (w *Worker) runSingle(ctx context.Context, workerID int) error {
	log.Printf("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d stopping", workerID)
			return nil
		default:
		}

		batch, err := w.consumer.ConsumeBatch(ctx, w.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("consume batch: %w", err)
		}

		if len(batch) == 0 {
			continue
		}

		fresh, err := w.filterSeen(ctx, batch)
		if err != nil {
			log.Printf("Worker %d dedup check failed, indexing full batch: %v", workerID, err)
			fresh = batch
		}
		if len(fresh) == 0 {
			continue
		}

		if err := w.indexBatch(ctx, fresh); err != nil {
			log.Printf("Worker %d index batch: %v", workerID, err)
			continue
		}

		w.markSeen(ctx, fresh)
		log.Printf("Worker %d created %d postings (%d duplicates skipped)",
			workerID, len(fresh), len(batch)-len(fresh))
	}
}

// filterSeen drops postings the dedup guard already processed
func (w *Worker) filterSeen(ctx context.Context, batch []*domain.SubmissionPayload) ([]*domain.SubmissionPayload, error) {
	if w.dedup == nil {
		return batch, nil
	}

	fresh := make([]*domain.SubmissionPayload, 0, len(batch))
	for _, p := range batch {
		seen, err := w.dedup.Seen(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}
		fresh = append(fresh, p)
	}
	return fresh, nil
}

// indexBatch writes the batch to every backend; any backend failure fails
// the batch so it can be retried
func (w *Worker) indexBatch(ctx context.Context, batch []*domain.SubmissionPayload) error {
	for _, idx := range w.indexers {
		if err := idx.BulkIndex(ctx, batch); err != nil {
			return fmt.Errorf("bulk index: %w", err)
		}
	}
	return nil
}

func (w *Worker) markSeen(ctx context.Context, batch []*domain.SubmissionPayload) {
	if w.dedup == nil {
		return
	}
	for _, p := range batch {
		if err := w.dedup.Mark(ctx, p); err != nil {
			log.Printf("mark posting %s seen: %v", p.ID, err)
		}
	}
}
