package core

import (
	"context"
)

// Page is one unit of extracted source text. A non-nil Err marks a page the
// extractor could not read; the ingestor logs and skips it rather than
// failing the whole run.
type Page struct {
	Number int // 1-based
	Text   string
	Err    error
}

// SourceFetcher resolves a document id to its raw bytes (object storage,
// a URL, a local file). A failure here is fatal for the run.
type SourceFetcher interface {
	Fetch(ctx context.Context, documentID string) ([]byte, error)
}

// PageExtractor turns raw document bytes into ordered per-page plain text.
// The contentType hint helps the extractor choose a parsing strategy.
type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte, contentType string) ([]Page, error)
}
