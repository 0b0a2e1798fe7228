package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/adaeze-codes/Studyquill/internal/config"
	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/models"
)

var _ core.EmbeddingStore = (*DatabaseClient)(nil)

// DatabaseClient implements core.EmbeddingStore on Postgres with pgvector.
type DatabaseClient struct {
	db  *sql.DB
	dim int
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db, dim: cfg.EmbedDim}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) InsertRecord(ctx context.Context, rec *models.EmbeddingRecord) error {
	if rec == nil {
		return errors.New("nil record")
	}
	// The vector column would reject this anyway; fail with a clearer message.
	if c.dim > 0 && len(rec.Embedding) != c.dim {
		return fmt.Errorf("embedding has %d dimensions, store expects %d", len(rec.Embedding), c.dim)
	}
	const q = `
		INSERT INTO embedding_records
			(id, document_id, page_number, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		rec.ID, rec.DocumentID, rec.PageNumber, rec.Content,
		pgvector.NewVector(rec.Embedding), nullableTime(rec.CreatedAt))
	return err
}

func (c *DatabaseClient) GetStatus(ctx context.Context, documentID string) (*models.Document, error) {
	const q = `
		SELECT id, file_name, storage_url, content_type, status,
		       total_units, processed_units, stored_chunks, skipped_pages, skipped_chunks,
		       error, started_at, updated_at, completed_at
		FROM documents
		WHERE id = $1
	`
	var d models.Document
	err := c.db.QueryRowContext(ctx, q, documentID).Scan(
		&d.ID, &d.FileName, &d.StorageURL, &d.ContentType, &d.Status,
		&d.TotalUnits, &d.ProcessedUnits, &d.StoredChunks, &d.SkippedPages, &d.SkippedChunks,
		&d.Error, &d.StartedAt, &d.UpdatedAt, &d.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpsertStatus merges the supplied fields into the singleton status row for
// documentID inside one transaction, creating the row if absent.
func (c *DatabaseClient) UpsertStatus(ctx context.Context, documentID string, upd core.StatusUpdate) (*models.Document, error) {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}

	d := models.Document{ID: documentID, Status: models.StatusPending}
	const sel = `
		SELECT id, file_name, storage_url, content_type, status,
		       total_units, processed_units, stored_chunks, skipped_pages, skipped_chunks,
		       error, started_at, updated_at, completed_at
		FROM documents
		WHERE id = $1
		FOR UPDATE
	`
	err = tx.QueryRowContext(ctx, sel, documentID).Scan(
		&d.ID, &d.FileName, &d.StorageURL, &d.ContentType, &d.Status,
		&d.TotalUnits, &d.ProcessedUnits, &d.StoredChunks, &d.SkippedPages, &d.SkippedChunks,
		&d.Error, &d.StartedAt, &d.UpdatedAt, &d.CompletedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return nil, err
	}

	applyUpdate(&d, upd)
	d.UpdatedAt = time.Now()

	const ins = `
		INSERT INTO documents
			(id, file_name, storage_url, content_type, status,
			 total_units, processed_units, stored_chunks, skipped_pages, skipped_chunks,
			 error, started_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			storage_url = EXCLUDED.storage_url,
			content_type = EXCLUDED.content_type,
			status = EXCLUDED.status,
			total_units = EXCLUDED.total_units,
			processed_units = EXCLUDED.processed_units,
			stored_chunks = EXCLUDED.stored_chunks,
			skipped_pages = EXCLUDED.skipped_pages,
			skipped_chunks = EXCLUDED.skipped_chunks,
			error = EXCLUDED.error,
			started_at = EXCLUDED.started_at,
			updated_at = EXCLUDED.updated_at,
			completed_at = EXCLUDED.completed_at
	`
	if _, err := tx.ExecContext(ctx, ins,
		d.ID, d.FileName, d.StorageURL, d.ContentType, d.Status,
		d.TotalUnits, d.ProcessedUnits, d.StoredChunks, d.SkippedPages, d.SkippedChunks,
		d.Error, d.StartedAt, d.UpdatedAt, d.CompletedAt,
	); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) RecordsForDocument(ctx context.Context, documentID string) ([]models.EmbeddingRecord, error) {
	const q = `
		SELECT id, document_id, page_number, content, embedding, created_at
		FROM embedding_records
		WHERE document_id = $1
		ORDER BY page_number ASC, created_at ASC, id ASC
	`
	rows, err := c.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (c *DatabaseClient) AllRecords(ctx context.Context) ([]models.EmbeddingRecord, error) {
	const q = `
		SELECT id, document_id, page_number, content, embedding, created_at
		FROM embedding_records
		ORDER BY created_at ASC, id ASC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.EmbeddingRecord, error) {
	var out []models.EmbeddingRecord
	for rows.Next() {
		var (
			rec models.EmbeddingRecord
			emb pgvector.Vector
		)
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.PageNumber, &rec.Content, &emb, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Embedding = emb.Slice()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func applyUpdate(d *models.Document, upd core.StatusUpdate) {
	if upd.FileName != nil {
		d.FileName = *upd.FileName
	}
	if upd.StorageURL != nil {
		d.StorageURL = *upd.StorageURL
	}
	if upd.ContentType != nil {
		d.ContentType = *upd.ContentType
	}
	if upd.Status != nil {
		d.Status = *upd.Status
	}
	if upd.TotalUnits != nil {
		d.TotalUnits = *upd.TotalUnits
	}
	if upd.ProcessedUnits != nil {
		d.ProcessedUnits = *upd.ProcessedUnits
	}
	if upd.StoredChunks != nil {
		d.StoredChunks = *upd.StoredChunks
	}
	if upd.SkippedPages != nil {
		d.SkippedPages = *upd.SkippedPages
	}
	if upd.SkippedChunks != nil {
		d.SkippedChunks = *upd.SkippedChunks
	}
	if upd.Error != nil {
		d.Error = *upd.Error
	}
	if upd.StartedAt != nil {
		d.StartedAt = upd.StartedAt
	}
	if upd.CompletedAt != nil {
		d.CompletedAt = upd.CompletedAt
	}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
