// Package llm provides the language-model fallback pass for queries the
// heuristic pipeline could not fully account for.
package llm

import (
	"context"

	"github.com/sharonv/disclosq/internal/catalog"
	"github.com/sharonv/disclosq/internal/model"
)

// Result is the structured output of a language-model parse.
type Result struct {
	// Companies and ReportTypes hold canonical catalog names.
	Companies   []string
	ReportTypes []string
	Quantity    *int
	TimeFrame   model.TimeFrame
	// Notes carries diagnostics from the call and canonization.
	Notes []string
	// Raw is the unparsed model output, kept for auditing.
	Raw string
}

// Provider defines the interface for language-model backends.
type Provider interface {
	// ParseQuery extracts entities from a single query. The catalogs bound
	// the canonical names the result may contain.
	ParseQuery(ctx context.Context, text string, companies, reports catalog.Catalog) (*Result, error)

	// ParseQueryBatch extracts entities from several queries in one call.
	// The returned slice is aligned with texts; entries the model skipped
	// are filled by individual calls.
	ParseQueryBatch(ctx context.Context, texts []string, companies, reports catalog.Catalog) ([]*Result, error)
}

// Config holds language-model provider configuration.
type Config struct {
	// Model name, e.g. "gpt-4o-mini".
	Model string

	// APIKey authenticates against the API.
	APIKey string

	// BaseURL overrides the API endpoint, for compatible gateways.
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// RequestsPerSecond and Burst throttle outgoing calls.
	RequestsPerSecond float64
	Burst             int

	// MaxTokens limits the response length.
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:             "gpt-4o-mini",
		Timeout:           60,
		RequestsPerSecond: 2,
		Burst:             4,
		MaxTokens:         1024,
	}
}

// FromModelConfig maps the application configuration to a provider Config.
func FromModelConfig(c model.LLMConfig) Config {
	cfg := DefaultConfig()
	if c.Model != "" {
		cfg.Model = c.Model
	}
	cfg.APIKey = c.APIKey
	cfg.BaseURL = c.BaseURL
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.Burst > 0 {
		cfg.Burst = c.Burst
	}
	if c.MaxTokens > 0 {
		cfg.MaxTokens = c.MaxTokens
	}
	return cfg
}
