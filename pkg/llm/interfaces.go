// Package llm provides completion and embedding clients for
// OpenAI-compatible and Anthropic endpoints.
package llm

import (
	"context"
)

// Completer defines the completion capability the pipeline depends on.
// Use this interface for dependency injection to enable mocking in tests.
type Completer interface {
	// GenerateResponse generates a chat completion response.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Embedder defines the embedding capability the schema index depends on.
type Embedder interface {
	// CreateEmbedding generates an embedding vector for the input text.
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)

	// CreateEmbeddings generates embeddings for multiple inputs in one call.
	CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error)
}

// Ensure concrete clients satisfy the interfaces at compile time.
var (
	_ Completer = (*Client)(nil)
	_ Embedder  = (*Client)(nil)
	_ Completer = (*AnthropicClient)(nil)
)
