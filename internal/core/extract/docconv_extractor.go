// Package extract turns raw document bytes into ordered per-page plain text
// using sajari/docconv.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"

	"github.com/adaeze-codes/Studyquill/internal/core"
)

var _ core.PageExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor implements core.PageExtractor using sajari/docconv.
type DocconvExtractor struct {
	useReadability bool
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

// ExtractPages converts the document and splits the text into pages.
// pdftotext separates pages with form feeds; formats without page structure
// come back as a single page.
func (e *DocconvExtractor) ExtractPages(ctx context.Context, data []byte, contentType string) ([]core.Page, error) {
	if contentType == "" {
		contentType = "application/pdf"
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.useReadability)
	if err != nil {
		return nil, fmt.Errorf("docconv convert %q: %w", contentType, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return splitPages(res.Body), nil
}

// splitPages cuts extracted text on form-feed page separators, keeping
// interior blank pages so page numbering stays aligned with the source.
func splitPages(body string) []core.Page {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	raw := strings.Split(body, "\f")
	// A trailing form feed produces one empty tail element, not a real page.
	for len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}

	pages := make([]core.Page, 0, len(raw))
	for i, text := range raw {
		pages = append(pages, core.Page{Number: i + 1, Text: text})
	}
	return pages
}
