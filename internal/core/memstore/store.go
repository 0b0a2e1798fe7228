// Package memstore provides a mutex-guarded in-memory EmbeddingStore, used
// by tests and as a dependency-free local mode.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/models"
)

var _ core.EmbeddingStore = (*Store)(nil)

// Store keeps documents and records in process memory. Safe for concurrent
// use across document ids.
type Store struct {
	mu       sync.RWMutex
	statuses map[string]*models.Document
	records  []models.EmbeddingRecord // insertion order
}

// New creates an empty store.
func New() *Store {
	return &Store{
		statuses: make(map[string]*models.Document),
	}
}

func (s *Store) InsertRecord(ctx context.Context, rec *models.EmbeddingRecord) error {
	if rec == nil {
		return errors.New("nil record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.Embedding = append([]float32(nil), rec.Embedding...)
	s.records = append(s.records, stored)
	return nil
}

func (s *Store) GetStatus(ctx context.Context, documentID string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.statuses[documentID]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (s *Store) UpsertStatus(ctx context.Context, documentID string, upd core.StatusUpdate) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.statuses[documentID]
	if !ok {
		doc = &models.Document{ID: documentID, Status: models.StatusPending}
		s.statuses[documentID] = doc
	}

	if upd.FileName != nil {
		doc.FileName = *upd.FileName
	}
	if upd.StorageURL != nil {
		doc.StorageURL = *upd.StorageURL
	}
	if upd.ContentType != nil {
		doc.ContentType = *upd.ContentType
	}
	if upd.Status != nil {
		doc.Status = *upd.Status
	}
	if upd.TotalUnits != nil {
		doc.TotalUnits = *upd.TotalUnits
	}
	if upd.ProcessedUnits != nil {
		doc.ProcessedUnits = *upd.ProcessedUnits
	}
	if upd.StoredChunks != nil {
		doc.StoredChunks = *upd.StoredChunks
	}
	if upd.SkippedPages != nil {
		doc.SkippedPages = *upd.SkippedPages
	}
	if upd.SkippedChunks != nil {
		doc.SkippedChunks = *upd.SkippedChunks
	}
	if upd.Error != nil {
		doc.Error = *upd.Error
	}
	if upd.StartedAt != nil {
		doc.StartedAt = upd.StartedAt
	}
	if upd.CompletedAt != nil {
		doc.CompletedAt = upd.CompletedAt
	}
	doc.UpdatedAt = time.Now()

	cp := *doc
	return &cp, nil
}

func (s *Store) RecordsForDocument(ctx context.Context, documentID string) ([]models.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.EmbeddingRecord
	for _, rec := range s.records {
		if rec.DocumentID == documentID {
			out = append(out, rec)
		}
	}
	// Stable sort keeps insertion order within a page.
	sort.SliceStable(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}

func (s *Store) AllRecords(ctx context.Context) ([]models.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.EmbeddingRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Close() error { return nil }
