// Package nlp is the optional external named-entity backend. Its results
// are additive: they land in the run report next to the deterministic
// extraction and never replace it. When no provider is configured, or the
// configured one is unreachable, callers proceed with deterministic
// extraction alone.
package nlp

import (
	"context"

	"github.com/oncokg/oncograph/internal/model"
)

// Provider defines the interface for external NER backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// ExtractEntities runs named-entity recognition over the text.
	ExtractEntities(ctx context.Context, text string) ([]model.NLPEntity, error)

	// IsAvailable checks if the provider is properly configured and accessible.
	IsAvailable(ctx context.Context) bool
}

// Config holds NER backend configuration.
type Config struct {
	// Provider name: "openai", "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for the hosted API.
	APIKey string

	// BaseURL for custom endpoints.
	BaseURL string

	// Timeout per request, seconds.
	Timeout int

	// MaxTokens for the response.
	MaxTokens int

	// RequestsPerSecond paces calls against the API.
	RequestsPerSecond float64

	// CacheTTL in seconds for response caching (0 disables).
	CacheTTL int
}

// DefaultConfig returns sensible defaults with the backend disabled.
func DefaultConfig() Config {
	return Config{
		Provider:          "",
		Timeout:           30,
		MaxTokens:         1000,
		RequestsPerSecond: 2,
		CacheTTL:          3600,
	}
}
