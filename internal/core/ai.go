package core

import "context"

// EmbeddingProvider converts text into fixed-length dense vectors. The
// dimensionality is fixed for the lifetime of a deployment; every stored
// record must share it for similarity comparison to be meaningful.
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
