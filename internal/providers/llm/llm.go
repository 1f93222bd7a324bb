package llm

import "context"

// Provider is the single external text-generation dependency. Callers own
// their timeouts and fallbacks; errors here are never fatal to the session.
type Provider interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Close() error
}
