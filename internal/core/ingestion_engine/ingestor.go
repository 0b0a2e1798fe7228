package ingestion_engine

import (
	"context"

	"github.com/adaeze-codes/Studyquill/internal/models"
)

type Ingestor interface {
	Start(ctx context.Context, numWorkers int)
	Enqueue(docID string)
	StartIngestion(ctx context.Context, docID string) (*models.Document, error)
	ProcessOne(ctx context.Context, docID string) (*models.Document, error)
}
