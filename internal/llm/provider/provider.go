// Package provider builds the configured text generator.
package provider

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/llm"
	"github.com/joseph-ayodele/document-intake/internal/llm/openai"
	"github.com/joseph-ayodele/document-intake/internal/llm/vertex"
)

// New returns the generator selected by cfg.Provider and a close func.
// A nil generator with a nil error means the AI tier is disabled; a generator
// that cannot be constructed is returned as an AI-unavailable error so callers
// can log it and continue with the rules tier.
func New(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (llm.Generator, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Provider {
	case common.ProviderNone:
		return nil, noop, nil
	case common.ProviderVertex:
		c, err := vertex.NewClient(ctx, vertex.Config{
			ProjectID:   cfg.VertexProject,
			Region:      cfg.VertexRegion,
			Model:       cfg.VertexModel,
			Temperature: cfg.Temperature,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		c, err := openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	}
}
