package core

import (
	"context"
	"time"

	"github.com/adaeze-codes/Studyquill/internal/models"
)

// StatusUpdate carries a partial set of Document fields for UpsertStatus.
// Nil pointers leave the stored value untouched; the store always refreshes
// updated_at on a successful merge.
type StatusUpdate struct {
	FileName       *string
	StorageURL     *string
	ContentType    *string
	Status         *string
	TotalUnits     *int
	ProcessedUnits *int
	StoredChunks   *int
	SkippedPages   *int
	SkippedChunks  *int
	Error          *string
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// EmbeddingStore defines all persistence the pipeline needs. It abstracts
// Postgres/pgvector (or the in-memory store) so higher layers never depend
// on a specific backend.
//
// Once UpsertStatus returns, a subsequent GetStatus from any caller observes
// the update (read-your-writes on the same store).
type EmbeddingStore interface {
	// InsertRecord appends one record. Duplicate content is permitted; the
	// call fails only on storage I/O errors.
	InsertRecord(ctx context.Context, rec *models.EmbeddingRecord) error

	// GetStatus returns the status record for a document, or ErrNotFound.
	GetStatus(ctx context.Context, documentID string) (*models.Document, error)

	// UpsertStatus merges the supplied fields into the singleton status
	// record for documentID, creating it if absent, and returns the merged
	// document.
	UpsertStatus(ctx context.Context, documentID string, upd StatusUpdate) (*models.Document, error)

	// RecordsForDocument returns a document's records ordered by page number
	// then insertion order.
	RecordsForDocument(ctx context.Context, documentID string) ([]models.EmbeddingRecord, error)

	// AllRecords returns every record in the store in insertion order.
	AllRecords(ctx context.Context) ([]models.EmbeddingRecord, error)

	Close() error
}
