package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/core/segment"
	"github.com/adaeze-codes/Studyquill/internal/models"
)

var _ Ingestor = (*DocumentIngestor)(nil)

// DocumentIngestor drives one document's processing run end-to-end:
// fetch bytes -> extract pages -> segment -> embed -> store, updating the
// document status record as it goes. Per-page and per-chunk failures are
// logged and skipped; fetch and store failures abort the run.
type DocumentIngestor struct {
	store     core.EmbeddingStore
	fetcher   core.SourceFetcher
	extractor core.PageExtractor
	embedder  core.EmbeddingProvider
	segmenter *segment.Segmenter
	cfg       *IngestConfig
	jobs      chan string
	locks     docLocks
}

// NewDocumentIngestor constructs the ingestor with a bounded job queue.
func NewDocumentIngestor(store core.EmbeddingStore, fetcher core.SourceFetcher, extractor core.PageExtractor, emb core.EmbeddingProvider, seg *segment.Segmenter, cfg *IngestConfig) *DocumentIngestor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 64
	}
	return &DocumentIngestor{
		store: store, fetcher: fetcher, extractor: extractor, embedder: emb,
		segmenter: seg, cfg: cfg,
		jobs: make(chan string, queue),
	}
}

// Start runs numWorkers goroutines reading from the jobs channel. Each job
// processes one document sequentially; distinct documents may run
// concurrently.
func (i *DocumentIngestor) Start(ctx context.Context, numWorkers int) {
	g, gctx := errgroup.WithContext(ctx)
	for w := 1; w <= numWorkers; w++ {
		w := w
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					log.Printf("DocumentIngestor: worker %d shutting down", w)
					return gctx.Err()
				case docID := <-i.jobs:
					log.Printf("DocumentIngestor: worker %d processing document %s", w, docID)
					if _, err := i.ProcessOne(gctx, docID); err != nil {
						log.Printf("DocumentIngestor: document %s: %v", docID, err)
					}
				}
			}
		})
	}
	go func() { _ = g.Wait() }()
}

// Enqueue schedules a document id for ingestion. Blocks when the queue is
// full.
func (i *DocumentIngestor) Enqueue(docID string) {
	i.jobs <- docID
}

// StartIngestion is the idempotent public entry point: a document that
// already reached completed is returned as-is with no new run; anything else
// is marked pending and queued.
func (i *DocumentIngestor) StartIngestion(ctx context.Context, docID string) (*models.Document, error) {
	doc, err := i.store.GetStatus(ctx, docID)
	switch {
	case err == nil:
		if doc.Status == models.StatusCompleted {
			return doc, nil
		}
		// A live run keeps touching the status record; a processing
		// document whose record went quiet died with its process and may
		// be restarted.
		if doc.Status == models.StatusProcessing && time.Since(doc.UpdatedAt) < i.cfg.staleAfter() {
			return doc, nil
		}
	case errors.Is(err, core.ErrNotFound):
		// First sighting of this id; the pending upsert below creates it.
	default:
		return nil, &core.StoreError{Op: "get status", Err: err}
	}

	pending := models.StatusPending
	doc, err = i.store.UpsertStatus(ctx, docID, core.StatusUpdate{Status: &pending})
	if err != nil {
		return nil, &core.StoreError{Op: "upsert status", Err: err}
	}
	i.Enqueue(docID)
	return doc, nil
}

// ProcessOne runs the full state machine for a single document id. It is
// safe to call concurrently: a second call for an id with an active run
// returns the live status without starting another run.
func (i *DocumentIngestor) ProcessOne(ctx context.Context, docID string) (*models.Document, error) {
	release, ok := i.locks.tryLock(docID)
	if !ok {
		log.Printf("DocumentIngestor: document %s already has an active run", docID)
		return i.store.GetStatus(ctx, docID)
	}
	defer release()

	doc, err := i.store.GetStatus(ctx, docID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, &core.StoreError{Op: "get status", Err: err}
	}
	if err == nil && doc.Status == models.StatusCompleted {
		log.Printf("DocumentIngestor: document %s already completed, skipping", docID)
		return doc, nil
	}

	var contentType string
	if doc != nil {
		contentType = doc.ContentType
	}

	now := time.Now()
	processing := models.StatusProcessing
	zero := 0
	noErr := ""
	doc, err = i.store.UpsertStatus(ctx, docID, core.StatusUpdate{
		Status:         &processing,
		StartedAt:      &now,
		ProcessedUnits: &zero,
		StoredChunks:   &zero,
		SkippedPages:   &zero,
		SkippedChunks:  &zero,
		Error:          &noErr,
	})
	if err != nil {
		return nil, &core.StoreError{Op: "upsert status", Err: err}
	}

	fctx, cancel := context.WithTimeout(ctx, i.cfg.FetchTimeout)
	data, err := i.fetcher.Fetch(fctx, docID)
	cancel()
	if err != nil {
		return i.fail(ctx, docID, &core.FetchError{DocumentID: docID, Err: err})
	}

	pages, err := i.extractor.ExtractPages(ctx, data, contentType)
	if err != nil {
		return i.fail(ctx, docID, fmt.Errorf("extract pages: %w", err))
	}

	total := len(pages)
	doc, err = i.store.UpsertStatus(ctx, docID, core.StatusUpdate{TotalUnits: &total})
	if err != nil {
		return i.fail(ctx, docID, &core.StoreError{Op: "upsert status", Err: err})
	}

	var processed, stored, skippedPages, skippedChunks int
	for _, page := range pages {
		if ctx.Err() != nil {
			return i.fail(ctx, docID, ctx.Err())
		}
		if page.Err != nil {
			log.Printf("DocumentIngestor: document %s: %v", docID, &core.ExtractionError{Page: page.Number, Err: page.Err})
			skippedPages++
			continue
		}

		pageCtx, stopPage := context.WithCancel(ctx)
		stream := i.segmenter.Chunks(pageCtx, page.Number, page.Text)
		for chunk := range stream {
			ectx, cancel := context.WithTimeout(ctx, i.cfg.EmbedTimeout)
			vec, err := i.embedder.EmbedText(ectx, chunk.Content)
			cancel()
			if err != nil {
				log.Printf("DocumentIngestor: document %s page %d: %v", docID, page.Number, &core.EmbeddingError{Err: err})
				skippedChunks++
				continue
			}

			rec := &models.EmbeddingRecord{
				ID:         uuid.NewString(),
				DocumentID: docID,
				PageNumber: chunk.PageNumber,
				Content:    chunk.Content,
				Embedding:  vec,
				CreatedAt:  time.Now(),
			}
			if err := i.store.InsertRecord(ctx, rec); err != nil {
				// Wind down the page's chunk producer before bailing out,
				// or it blocks forever on its channel send.
				stopPage()
				for range stream {
				}
				return i.fail(ctx, docID, &core.StoreError{Op: "insert record", Err: err})
			}
			stored++
		}
		stopPage()

		processed++
		if _, err := i.store.UpsertStatus(ctx, docID, core.StatusUpdate{
			ProcessedUnits: &processed,
			StoredChunks:   &stored,
			SkippedPages:   &skippedPages,
			SkippedChunks:  &skippedChunks,
		}); err != nil {
			return i.fail(ctx, docID, &core.StoreError{Op: "upsert status", Err: err})
		}
	}

	if stored == 0 {
		return i.fail(ctx, docID, errors.New("no extractable content"))
	}

	completed := models.StatusCompleted
	done := time.Now()
	doc, err = i.store.UpsertStatus(ctx, docID, core.StatusUpdate{
		Status:         &completed,
		CompletedAt:    &done,
		ProcessedUnits: &processed,
		StoredChunks:   &stored,
		SkippedPages:   &skippedPages,
		SkippedChunks:  &skippedChunks,
	})
	if err != nil {
		return i.fail(ctx, docID, &core.StoreError{Op: "upsert status", Err: err})
	}

	if skippedPages > 0 || skippedChunks > 0 {
		log.Printf("DocumentIngestor: document %s completed with partial content (%d/%d pages, %d chunks stored, %d pages and %d chunks skipped)",
			docID, processed, total, stored, skippedPages, skippedChunks)
	} else {
		log.Printf("DocumentIngestor: document %s completed (%d pages, %d chunks stored)", docID, processed, stored)
	}
	return doc, nil
}

// fail records a fatal run error on the status record and surfaces it.
func (i *DocumentIngestor) fail(ctx context.Context, docID string, cause error) (*models.Document, error) {
	// The run may be failing because ctx itself was cancelled; the status
	// write still has to land or the document stays processing forever.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	failed := models.StatusError
	msg := cause.Error()
	doc, err := i.store.UpsertStatus(wctx, docID, core.StatusUpdate{
		Status: &failed,
		Error:  &msg,
	})
	if err != nil {
		log.Printf("DocumentIngestor: document %s: could not record failure: %v", docID, err)
		return nil, cause
	}
	log.Printf("DocumentIngestor: document %s failed: %v", docID, cause)
	return doc, cause
}
