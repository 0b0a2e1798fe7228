// Package segment turns raw per-page text into bounded-size chunks suitable
// for embedding, preserving semantic locality: structural markers first,
// sentence boundaries second.
package segment

import (
	"context"
	"regexp"
	"strings"
)

// DefaultMaxChars is the soft upper bound for one chunk.
const DefaultMaxChars = 1000

// DefaultMinChars is the minimum useful chunk length; shorter pieces are
// noise (stray headers, whitespace) and not worth an embedding call.
const DefaultMinChars = 50

// Chunk is one bounded span of page text.
type Chunk struct {
	PageNumber int // 1-based source page
	Content    string
}

// Segmenter splits page text into chunks bounded by MaxChars.
type Segmenter struct {
	maxChars int
	minChars int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithMaxChars sets the soft maximum chunk length in characters.
func WithMaxChars(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// WithMinChars sets the minimum useful chunk length in characters.
func WithMinChars(n int) Option {
	return func(s *Segmenter) {
		if n >= 0 {
			s.minChars = n
		}
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		maxChars: DefaultMaxChars,
		minChars: DefaultMinChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.minChars >= s.maxChars {
		s.minChars = s.maxChars / 4
	}
	return s
}

// Chunks streams the chunks for one page in original order. The channel is
// closed when the page is exhausted or ctx is cancelled; the sequence is not
// restartable.
func (s *Segmenter) Chunks(ctx context.Context, pageNumber int, text string) <-chan Chunk {
	out := make(chan Chunk, 8)

	go func() {
		defer close(out)
		for _, content := range s.Segment(text) {
			select {
			case out <- Chunk{PageNumber: pageNumber, Content: content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Segment splits one page's text into chunk contents, in order. Empty or
// whitespace-only pages produce nothing.
func (s *Segmenter) Segment(text string) []string {
	var out []string
	for _, piece := range structuralPieces(text) {
		if len(piece) <= s.maxChars {
			out = appendUseful(out, piece, s.minChars)
			continue
		}
		for _, packed := range s.packSentences(piece) {
			out = appendUseful(out, packed, s.minChars)
		}
	}
	return out
}

func appendUseful(out []string, chunk string, minChars int) []string {
	chunk = strings.TrimSpace(chunk)
	if len(chunk) < minChars {
		return out
	}
	return append(out, chunk)
}

// headerPattern matches numbered or lettered section headers at the start of
// a line, e.g. "3. Photosynthesis" or "b) Osmosis".
var headerPattern = regexp.MustCompile(`^\s*(?:\d+|[A-Za-z])[.)]\s+`)

// structuralPieces splits page text on blank-line-delimited paragraphs and
// on section headers, keeping original order.
func structuralPieces(text string) []string {
	var (
		pieces []string
		cur    []string
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if p := strings.TrimSpace(strings.Join(cur, "\n")); p != "" {
			pieces = append(pieces, p)
		}
		cur = cur[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if headerPattern.MatchString(line) {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return pieces
}

// packSentences splits an oversized piece along sentence boundaries and
// accumulates sentences into chunks of at most maxChars. A piece with no
// sentence boundary is returned whole: it may exceed the soft maximum, which
// is an accepted approximation rather than an error.
func (s *Segmenter) packSentences(piece string) []string {
	sentences := splitSentences(piece)
	if len(sentences) <= 1 {
		return []string{strings.TrimSpace(piece)}
	}

	var (
		out []string
		buf strings.Builder
	)
	for _, sent := range sentences {
		need := len(sent)
		if buf.Len() > 0 {
			need++ // joining space
		}
		if buf.Len() > 0 && buf.Len()+need > s.maxChars {
			out = append(out, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(sent)
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

// splitSentences cuts text after '.', '!' or '?' followed by whitespace or
// end of input.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			j := i + 1
			if j < len(text) && !isSpace(text[j]) {
				continue
			}
			if s := strings.TrimSpace(text[start:j]); s != "" {
				sentences = append(sentences, s)
			}
			start = j
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
