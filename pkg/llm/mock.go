package llm

import (
	"context"
)

// MockCompleter is a configurable mock for testing completion consumers.
// Set the function fields to control behavior in tests.
type MockCompleter struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns an empty string and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification
	GenerateResponseCalls int
	Prompts               []string
}

// NewMockCompleter creates a new mock with sensible defaults.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{ModelName: "mock-model"}
}

// GenerateResponse implements Completer.
func (m *MockCompleter) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error) {
	m.GenerateResponseCalls++
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature)
	}
	return "", nil
}

// Model implements Completer.
func (m *MockCompleter) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// MockEmbedder is a configurable mock for testing embedding consumers.
type MockEmbedder struct {
	// CreateEmbeddingFunc is called when CreateEmbedding is invoked.
	// If nil, returns a fixed unit vector.
	CreateEmbeddingFunc func(ctx context.Context, input string) ([]float32, error)

	// CreateEmbeddingsFunc is called when CreateEmbeddings is invoked.
	// If nil, applies CreateEmbedding to each input.
	CreateEmbeddingsFunc func(ctx context.Context, inputs []string) ([][]float32, error)

	// Call tracking
	CreateEmbeddingCalls  int
	CreateEmbeddingsCalls int
}

// NewMockEmbedder creates a new mock embedder.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// CreateEmbedding implements Embedder.
func (m *MockEmbedder) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	m.CreateEmbeddingCalls++
	if m.CreateEmbeddingFunc != nil {
		return m.CreateEmbeddingFunc(ctx, input)
	}
	return []float32{1, 0, 0}, nil
}

// CreateEmbeddings implements Embedder.
func (m *MockEmbedder) CreateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error) {
	m.CreateEmbeddingsCalls++
	if m.CreateEmbeddingsFunc != nil {
		return m.CreateEmbeddingsFunc(ctx, inputs)
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		vec, err := m.CreateEmbedding(ctx, in)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Ensure mocks implement the interfaces at compile time.
var (
	_ Completer = (*MockCompleter)(nil)
	_ Embedder  = (*MockEmbedder)(nil)
)
