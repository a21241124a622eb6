package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
)

// Chain tries the generative extractor first and degrades to the deterministic one.
type Chain struct {
	ai     FieldExtractor
	rules  FieldExtractor
	logger *slog.Logger
}

// NewChain wires the two tiers. ai may be nil, in which case every call uses rules.
func NewChain(ai, rules FieldExtractor, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{ai: ai, rules: rules, logger: logger}
}

// Resolve returns the AI tier's fields, or the rules tier's when the AI tier is
// unavailable or its reply is unusable. Any other AI error is returned as is.
func (c *Chain) Resolve(ctx context.Context, docType constants.DocumentType, text string) (Fields, error) {
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)

	if c.ai != nil {
		fields, err := c.ai.ExtractFields(ctx, docType, text)
		if err == nil {
			fields.Source = constants.SourceAI
			c.logger.Debug("extract.chain.ai_ok",
				"req_id", rid, "doc_type", docType,
				"items", len(fields.Items),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return fields, nil
		}
		if ctx.Err() != nil || !common.IsRecoverableAI(err) {
			c.logger.Error("extract.chain.ai_failed", "req_id", rid, "doc_type", docType, "error", err)
			return Fields{}, err
		}
		c.logger.Warn("extract.chain.fallback", "req_id", rid, "doc_type", docType, "reason", err)
	}

	fields, err := c.rules.ExtractFields(ctx, docType, text)
	if err != nil {
		return Fields{}, common.NewUnexpectedError("rules extraction", err)
	}
	fields.Source = constants.SourceRules
	c.logger.Debug("extract.chain.rules_ok",
		"req_id", rid, "doc_type", docType,
		"items", len(fields.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, nil
}
