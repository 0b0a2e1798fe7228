package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/blevesearch/bleve"

	"github.com/adaeze-codes/Studyquill/internal/models"
)

// LexicalSearch ranks records by keyword relevance over their content,
// sharing Search's result shape and filter semantics. The corpus is small
// enough that building a memory-only index per query is acceptable.
func (e *Engine) LexicalSearch(ctx context.Context, query string, k int, documentID string) ([]models.SearchResult, error) {
	recs, err := e.candidates(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultLimit
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("lexical index: %w", err)
	}
	defer idx.Close()

	batch := idx.NewBatch()
	for i, rec := range recs {
		if err := batch.Index(strconv.Itoa(i), map[string]string{"content": rec.Content}); err != nil {
			return nil, fmt.Errorf("index record: %w", err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("index batch: %w", err)
	}

	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequestOptions(q, len(recs), 0, false)
	res, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	type hit struct {
		pos   int
		score float64
	}
	hits := make([]hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(recs) {
			continue
		}
		hits = append(hits, hit{pos: pos, score: h.Score})
	}

	// Same determinism rule as vector search: score descending, then the
	// candidate order (page ascending, then insertion).
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]models.SearchResult, 0, len(hits))
	for _, h := range hits {
		rec := recs[h.pos]
		out = append(out, models.SearchResult{
			Content:    rec.Content,
			PageNumber: rec.PageNumber,
			Score:      h.score,
		})
	}
	return out, nil
}
