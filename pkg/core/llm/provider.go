package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// Available reports whether the provider has the credentials it needs.
	// The analytic pipeline works without AI, so callers check this up
	// front instead of treating a missing key as an error.
	Available() bool
}

// StaticProvider returns a canned response. Used when no real provider is
// configured and in tests, so the insight path stays exercisable offline.
type StaticProvider struct {
	Response string
}

func (p *StaticProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	return p.Response, nil
}

func (p *StaticProvider) Available() bool { return p.Response != "" }
