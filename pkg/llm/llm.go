// Package llm defines the opaque text-to-text collaborator custom.transform
// calls out to (spec.md §1 "the optional LLM call-out ... invoked as an
// opaque text→text function", §4.8 custom.transform). The core never knows
// about HTTP, model names, or API keys directly; it only holds a Model
// value and calls it.
package llm

import "context"

// Model is a single named backend: spec.md §6.1's
// `models.<name> = { api_key_env, base_url, name, max_tokens?,
// max_completion_tokens?, temperature? }`. BaseURL/APIKeyEnv/Name are
// carried so an adapter implementation (HTTP client, CLI wrapper, …) can
// build a request from this value alone; the core never inspects them.
type Model struct {
	Name                 string
	APIKeyEnv            string
	BaseURL              string
	MaxTokens            int
	MaxCompletionTokens  int
	Temperature          float64
}

// Func is the opaque text-to-text call: given a model and a rendered
// prompt, return the completion text. custom.transform is the sole caller.
// Implementations are adapters (HTTP client against an OpenAI-compatible
// endpoint, a local binary, a test stub); this package defines only the
// seam.
type Func func(ctx context.Context, model Model, prompt string) (string, error)
