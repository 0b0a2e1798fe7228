package models

import (
	"time"
)

// Document status values. A document moves pending -> processing -> one of
// the two terminal states. A terminal state only ends a run; an explicit
// re-ingest may start a fresh run for the same id later.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Document is the singleton status record for one corpus unit, keyed by ID.
// ID is the source identifier (asset key or URL) and partitions every
// embedding record belonging to the document.
type Document struct {
	ID             string     `db:"id" json:"id"`
	FileName       string     `db:"file_name" json:"file_name,omitempty"`
	StorageURL     string     `db:"storage_url" json:"storage_url,omitempty"`
	ContentType    string     `db:"content_type" json:"content_type,omitempty"`
	Status         string     `db:"status" json:"status"` // pending | processing | completed | error
	TotalUnits     int        `db:"total_units" json:"total_units"`
	ProcessedUnits int        `db:"processed_units" json:"processed_units"`
	StoredChunks   int        `db:"stored_chunks" json:"stored_chunks"`
	SkippedPages   int        `db:"skipped_pages" json:"skipped_pages"`
	SkippedChunks  int        `db:"skipped_chunks" json:"skipped_chunks"`
	Error          string     `db:"error" json:"error,omitempty"` // set only when Status == error
	StartedAt      *time.Time `db:"started_at" json:"started_at,omitempty"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Terminal reports whether the document's last run reached a final state.
func (d *Document) Terminal() bool {
	return d.Status == StatusCompleted || d.Status == StatusError
}

// EmbeddingRecord is one persisted text chunk with its vector. Records are
// append-only: created by an ingestion run, never mutated afterwards.
type EmbeddingRecord struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	PageNumber int       `db:"page_number" json:"page_number"` // 1-based source page
	Content    string    `db:"content" json:"content"`
	Embedding  []float32 `db:"embedding" json:"embedding"` // pgvector column
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SearchResult is the shared result shape for vector and lexical search.
type SearchResult struct {
	Content    string  `json:"content"`
	PageNumber int     `json:"page_number"`
	Score      float64 `json:"score"`
}
