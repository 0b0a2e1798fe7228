package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/core/memstore"
	"github.com/adaeze-codes/Studyquill/internal/models"
)

func seedRecord(t *testing.T, s *memstore.Store, docID string, page int, content string, vec []float32) {
	t.Helper()
	err := s.InsertRecord(context.Background(), &models.EmbeddingRecord{
		ID:         content,
		DocumentID: docID,
		PageNumber: page,
		Content:    content,
		Embedding:  vec,
	})
	require.NoError(t, err)
}

func seedStatus(t *testing.T, s *memstore.Store, docID string) {
	t.Helper()
	status := models.StatusCompleted
	_, err := s.UpsertStatus(context.Background(), docID, core.StatusUpdate{Status: &status})
	require.NoError(t, err)
}

func TestSearch_RanksByCosine(t *testing.T) {
	s := memstore.New()
	seedStatus(t, s, "doc-1")
	seedRecord(t, s, "doc-1", 1, "exact", []float32{1, 0})
	seedRecord(t, s, "doc-1", 2, "orthogonal", []float32{0, 1})
	seedRecord(t, s, "doc-1", 3, "diagonal", []float32{0.7, 0.7})

	e := NewEngine(s)
	got, err := e.Search(context.Background(), []float32{1, 0}, 2, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "exact", got[0].Content)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.Equal(t, "diagonal", got[1].Content)
	assert.InDelta(t, 0.7071, got[1].Score, 1e-3)
}

func TestSearch_DocumentFilter(t *testing.T) {
	s := memstore.New()
	seedStatus(t, s, "doc-1")
	seedStatus(t, s, "doc-2")
	seedRecord(t, s, "doc-1", 1, "mine", []float32{1, 0})
	seedRecord(t, s, "doc-2", 1, "other", []float32{1, 0})

	e := NewEngine(s)
	got, err := e.Search(context.Background(), []float32{1, 0}, 10, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].Content)

	// Collection-wide fallback sees both.
	got, err = e.Search(context.Background(), []float32{1, 0}, 10, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearch_UnknownDocument(t *testing.T) {
	e := NewEngine(memstore.New())
	_, err := e.Search(context.Background(), []float32{1, 0}, 5, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSearch_TieBreakByPageThenInsertion(t *testing.T) {
	s := memstore.New()
	seedStatus(t, s, "doc-1")
	// Identical vectors, inserted out of page order.
	seedRecord(t, s, "doc-1", 2, "page two", []float32{1, 0})
	seedRecord(t, s, "doc-1", 1, "page one b", []float32{1, 0})
	seedRecord(t, s, "doc-1", 1, "page one a", []float32{1, 0})

	e := NewEngine(s)
	got, err := e.Search(context.Background(), []float32{1, 0}, 3, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "page one b", got[0].Content)
	assert.Equal(t, "page one a", got[1].Content)
	assert.Equal(t, "page two", got[2].Content)
}

func TestSearch_Deterministic(t *testing.T) {
	s := memstore.New()
	seedStatus(t, s, "doc-1")
	seedRecord(t, s, "doc-1", 1, "a", []float32{0.5, 0.5})
	seedRecord(t, s, "doc-1", 2, "b", []float32{0.9, 0.1})
	seedRecord(t, s, "doc-1", 3, "c", []float32{0.1, 0.9})

	e := NewEngine(s)
	first, err := e.Search(context.Background(), []float32{0.6, 0.4}, 3, "doc-1")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Search(context.Background(), []float32{0.6, 0.4}, 3, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSearch_ZeroMagnitudeScoresZero(t *testing.T) {
	s := memstore.New()
	seedStatus(t, s, "doc-1")
	seedRecord(t, s, "doc-1", 1, "zero", []float32{0, 0})
	seedRecord(t, s, "doc-1", 2, "short", []float32{1, 0, 0}) // dimension mismatch

	e := NewEngine(s)
	got, err := e.Search(context.Background(), []float32{1, 0}, 5, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Zero(t, r.Score)
	}
}

func TestLexicalSearch(t *testing.T) {
	s := memstore.New()
	seedStatus(t, s, "doc-1")
	seedStatus(t, s, "doc-2")
	seedRecord(t, s, "doc-1", 1, "photosynthesis converts light energy into glucose", nil)
	seedRecord(t, s, "doc-1", 2, "mitochondria perform aerobic respiration", nil)
	seedRecord(t, s, "doc-2", 1, "photosynthesis appears in another document", nil)

	e := NewEngine(s)
	got, err := e.LexicalSearch(context.Background(), "photosynthesis", 5, "doc-1")
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Contains(t, got[0].Content, "photosynthesis")
	assert.Equal(t, 1, got[0].PageNumber)
	assert.Greater(t, got[0].Score, 0.0)
	for _, r := range got {
		assert.NotContains(t, r.Content, "another document")
	}
}

func TestLexicalSearch_EmptyStore(t *testing.T) {
	e := NewEngine(memstore.New())
	got, err := e.LexicalSearch(context.Background(), "anything", 5, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
