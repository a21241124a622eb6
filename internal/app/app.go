// Package app wires the intake components from configuration.
package app

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/export"
	"github.com/joseph-ayodele/document-intake/internal/extract"
	"github.com/joseph-ayodele/document-intake/internal/llm"
	"github.com/joseph-ayodele/document-intake/internal/llm/provider"
	"github.com/joseph-ayodele/document-intake/internal/normalize"
	"github.com/joseph-ayodele/document-intake/internal/ocr"
	"github.com/joseph-ayodele/document-intake/internal/pipeline"
	"github.com/joseph-ayodele/document-intake/internal/repository"
	"github.com/joseph-ayodele/document-intake/internal/rules"
)

type App struct {
	Processor *pipeline.Processor
	Store     *repository.DocumentStore
	Export    *export.Service

	closers []func() error
	logger  *slog.Logger
}

// New builds the pipeline. A generator that cannot be constructed (missing API
// key, no credentials) is logged and the AI tier is left out, so every document
// goes through the rules tier.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger, opts ...pipeline.Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{logger: logger}

	var ai extract.FieldExtractor
	gen, closeGen, err := provider.New(ctx, cfg.LLM, logger)
	switch {
	case err != nil:
		logger.Warn("app.llm.unavailable", "provider", cfg.LLM.Provider, "error", err)
	case gen == nil:
		logger.Info("app.llm.disabled")
	default:
		ai = llm.NewAdapter(gen, cfg.LLM.Timeout, logger)
		a.closers = append(a.closers, closeGen)
		logger.Info("app.llm.ready", "provider", cfg.LLM.Provider)
	}

	chain := extract.NewChain(ai, rules.NewExtractor(logger), logger)
	text := ocr.NewExtractor(ocr.ConfigFromCommon(cfg.OCR), logger)
	a.Store = repository.NewDocumentStore(logger)
	a.closers = append(a.closers, a.Store.Close)

	opts = append([]pipeline.Option{pipeline.WithWorkers(cfg.Batch.Workers)}, opts...)
	a.Processor = pipeline.NewProcessor(logger, text, chain, normalize.NewNormalizer(logger), a.Store, opts...)
	a.Export = export.NewService(a.Store, logger)
	return a, nil
}

// Close releases the generator and tears down the store.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("app.close.error", "error", err)
		}
	}
}
