package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestGetStatus_Unknown(t *testing.T) {
	s := New()
	_, err := s.GetStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpsertStatus_CreatesAndMerges(t *testing.T) {
	s := New()
	ctx := context.Background()

	doc, err := s.UpsertStatus(ctx, "doc-1", core.StatusUpdate{
		Status:     strPtr(models.StatusProcessing),
		TotalUnits: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, models.StatusProcessing, doc.Status)
	assert.Equal(t, 3, doc.TotalUnits)
	assert.False(t, doc.UpdatedAt.IsZero())

	// Partial update leaves untouched fields alone.
	doc, err = s.UpsertStatus(ctx, "doc-1", core.StatusUpdate{
		ProcessedUnits: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, doc.Status)
	assert.Equal(t, 3, doc.TotalUnits)
	assert.Equal(t, 2, doc.ProcessedUnits)

	// Read-your-writes.
	got, err := s.GetStatus(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ProcessedUnits, got.ProcessedUnits)
}

func TestRecordsForDocument_OrderAndFilter(t *testing.T) {
	s := New()
	ctx := context.Background()

	insert := func(id, docID string, page int) {
		require.NoError(t, s.InsertRecord(ctx, &models.EmbeddingRecord{
			ID: id, DocumentID: docID, PageNumber: page, Content: id,
		}))
	}

	insert("a", "doc-1", 2)
	insert("b", "doc-1", 1)
	insert("c", "doc-2", 1)
	insert("d", "doc-1", 2)

	recs, err := s.RecordsForDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// Page ascending, then insertion order within a page.
	assert.Equal(t, []string{"b", "a", "d"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})
	for _, r := range recs {
		assert.Equal(t, "doc-1", r.DocumentID)
	}

	all, err := s.AllRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "a", all[0].ID) // insertion order
}

func TestInsertRecord_CopiesEmbedding(t *testing.T) {
	s := New()
	ctx := context.Background()

	vec := []float32{1, 0}
	require.NoError(t, s.InsertRecord(ctx, &models.EmbeddingRecord{
		ID: "a", DocumentID: "doc-1", PageNumber: 1, Content: "x", Embedding: vec,
	}))
	vec[0] = 9

	recs, err := s.RecordsForDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, float32(1), recs[0].Embedding[0])
}
