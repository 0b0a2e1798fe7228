package services

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/core/ingestion_engine"
	objectclient "github.com/adaeze-codes/Studyquill/internal/core/object-client"
	"github.com/adaeze-codes/Studyquill/internal/models"
)

type DocumentService struct {
	store    core.EmbeddingStore
	storage  objectclient.ObjectClient
	bucket   string
	ingestor ingestion_engine.Ingestor
}

func NewDocumentService(store core.EmbeddingStore, storage objectclient.ObjectClient, bucket string, ingestor ingestion_engine.Ingestor) *DocumentService {
	return &DocumentService{store: store, storage: storage, bucket: bucket, ingestor: ingestor}
}

// UploadAndIngest stores the file in object storage, records a pending
// status keyed by the object key, and queues the ingestion run. The object
// key doubles as the document id and the fetch key.
func (s *DocumentService) UploadAndIngest(ctx context.Context, filename, contentType string, data []byte) (*models.Document, error) {
	docID := s.objectKey(filename)

	url, err := s.storage.UploadFile(ctx, s.bucket, docID, data, contentType)
	if err != nil {
		return nil, err
	}

	pending := models.StatusPending
	if _, err := s.store.UpsertStatus(ctx, docID, core.StatusUpdate{
		FileName:    &filename,
		StorageURL:  &url,
		ContentType: &contentType,
		Status:      &pending,
	}); err != nil {
		return nil, &core.StoreError{Op: "upsert status", Err: err}
	}

	return s.ingestor.StartIngestion(ctx, docID)
}

// Ingest (re)starts ingestion for an already-stored document id.
func (s *DocumentService) Ingest(ctx context.Context, docID string) (*models.Document, error) {
	return s.ingestor.StartIngestion(ctx, docID)
}

// Status returns the document's status record for polling callers.
func (s *DocumentService) Status(ctx context.Context, docID string) (*models.Document, error) {
	return s.store.GetStatus(ctx, docID)
}

// objectKey creates a consistent storage key layout.
func (s *DocumentService) objectKey(filename string) string {
	filename = strings.TrimSpace(filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	return path.Join("documents", uuid.NewString(), filename)
}
