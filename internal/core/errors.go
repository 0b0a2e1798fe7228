package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores for an unknown document id.
var ErrNotFound = errors.New("not found")

// FetchError marks the source bytes as unreachable. Fatal for the run.
type FetchError struct {
	DocumentID string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.DocumentID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError marks one page as unreadable. The run skips the page.
type ExtractionError struct {
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract page %d: %v", e.Page, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingError marks one chunk's embedding call as failed or timed out.
// The run skips the chunk.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embed: %v", e.Err) }

func (e *EmbeddingError) Unwrap() error { return e.Err }

// StoreError marks a persistence I/O failure. Fatal; the caller may retry
// the whole run.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
