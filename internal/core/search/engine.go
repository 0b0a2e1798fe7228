// Package search ranks stored embedding records against a query: cosine
// similarity over the stored vectors, with a lexical fallback for when
// embeddings are unavailable.
package search

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/models"
)

// DefaultLimit is used when the caller passes a non-positive k.
const DefaultLimit = 10

// Engine is a read-only consumer of the embedding store. It never mutates
// records or document status.
type Engine struct {
	store core.EmbeddingStore
}

// NewEngine creates a search engine over the given store.
func NewEngine(store core.EmbeddingStore) *Engine {
	return &Engine{store: store}
}

// Search ranks records by cosine similarity to queryVec and returns the top
// k, descending by score. If documentID is non-empty only that document's
// records participate; an unknown id yields ErrNotFound. Ties are broken by
// page number ascending, then insertion order, so repeated identical queries
// return identical result lists.
func (e *Engine) Search(ctx context.Context, queryVec []float32, k int, documentID string) ([]models.SearchResult, error) {
	recs, err := e.candidates(ctx, documentID)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(recs))
	for _, rec := range recs {
		results = append(results, models.SearchResult{
			Content:    rec.Content,
			PageNumber: rec.PageNumber,
			Score:      cosine(queryVec, rec.Embedding),
		})
	}

	// Candidates arrive page-ascending then insertion-ordered; the stable
	// sort preserves that order between equal scores.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k <= 0 {
		k = DefaultLimit
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// candidates fetches the participating records in page-then-insertion order.
func (e *Engine) candidates(ctx context.Context, documentID string) ([]models.EmbeddingRecord, error) {
	if documentID == "" {
		recs, err := e.store.AllRecords(ctx)
		if err != nil {
			return nil, &core.StoreError{Op: "all records", Err: err}
		}
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].PageNumber < recs[j].PageNumber })
		return recs, nil
	}

	if _, err := e.store.GetStatus(ctx, documentID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, &core.StoreError{Op: "get status", Err: err}
	}
	recs, err := e.store.RecordsForDocument(ctx, documentID)
	if err != nil {
		return nil, &core.StoreError{Op: "records for document", Err: err}
	}
	return recs, nil
}

// cosine returns the cosine similarity of two vectors, or 0 when either has
// zero magnitude or the dimensions disagree.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
