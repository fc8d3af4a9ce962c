package ai

import "context"

// Runtime is implemented by text generation backends such as OpenRouter and
// a local Ollama.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers accepted by the provider config key.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)
