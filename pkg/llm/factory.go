package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Provider names accepted by NewCompleter.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewCompleter creates a completion client for the given provider.
// "openai" covers any OpenAI-compatible endpoint (OpenAI, Azure proxies,
// vLLM, DashScope compatible mode).
func NewCompleter(provider string, cfg *Config, logger *zap.Logger) (Completer, error) {
	switch provider {
	case ProviderOpenAI:
		return NewClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
