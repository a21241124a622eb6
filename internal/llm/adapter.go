package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/entity"
	"github.com/joseph-ayodele/document-intake/internal/extract"
	"github.com/joseph-ayodele/document-intake/internal/utils"
)

// Adapter implements extract.FieldExtractor on top of a Generator.
type Adapter struct {
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

// NewAdapter returns an adapter over gen. A nil gen makes every call fail with
// an AI-unavailable error. timeout bounds a single Generate call; zero means no
// extra bound.
func NewAdapter(gen Generator, timeout time.Duration, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{gen: gen, timeout: timeout, logger: logger}
}

func (a *Adapter) ExtractFields(ctx context.Context, docType constants.DocumentType, text string) (extract.Fields, error) {
	if a.gen == nil {
		return extract.Fields{}, common.NewAIUnavailableError("no text generator configured", nil)
	}
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	a.logger.Info("llm.extract.start",
		"req_id", rid,
		"doc_type", docType,
		"text_len", len(text),
	)

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	reply, err := a.gen.Generate(callCtx, BuildPrompt(docType, text))
	if err != nil {
		a.logger.Error("llm.extract.generate_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Fields{}, classify(ctx, err)
	}

	fields, err := ParseReply(reply, a.logger)
	if err != nil {
		a.logger.Error("llm.extract.parse_error",
			"req_id", rid, "error", err,
			"reply", utils.Truncate(reply, 500),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Fields{}, err
	}

	a.logger.Info("llm.extract.ok",
		"req_id", rid,
		"document_number", fields.DocumentNumber,
		"counterparty", fields.CounterpartyName,
		"items", len(fields.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, nil
}

// classify maps a generator failure onto the error taxonomy. Caller
// cancellation is returned untouched; our own deadline counts as unavailability.
func classify(ctx context.Context, err error) error {
	var appErr *common.AppError
	switch {
	case ctx.Err() != nil:
		return err
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return common.NewAIUnavailableError("text generation timed out", err)
	default:
		return common.NewUnexpectedError("text generation", err)
	}
}

// ParseReply recovers the JSON object from a free-form model reply and converts
// it to Fields. Every failure is an AI-response-parse error.
func ParseReply(reply string, logger *slog.Logger) (extract.Fields, error) {
	obj, ok := FindJSONObject(reply)
	if !ok {
		return extract.Fields{}, common.NewAIResponseParseError("no JSON object in reply", nil)
	}
	raw := []byte(obj)

	// Validate strictly first; then try a lenient sanitize and re-validate.
	if err := ValidateJSONAgainstSchema(raw); err != nil {
		cleaned, _, sErr := NormalizeAndSanitizeJSON(raw, logger)
		if sErr != nil {
			return extract.Fields{}, common.NewAIResponseParseError("sanitize reply", sErr)
		}
		if vErr := ValidateJSONAgainstSchema(cleaned); vErr != nil {
			return extract.Fields{}, common.NewAIResponseParseError("schema validation failed", vErr)
		}
		raw = cleaned
	}

	var out aiFields
	if err := json.Unmarshal(raw, &out); err != nil {
		return extract.Fields{}, common.NewAIResponseParseError("unmarshal fields", err)
	}
	fields, err := out.toFields()
	if err != nil {
		return extract.Fields{}, common.NewAIResponseParseError("convert fields", err)
	}
	return fields, nil
}

// wholeNumber converts a decoded count, rejecting fractions and values past int32.
func wholeNumber(d decimal.Decimal, field string) (int, error) {
	if !d.IsInteger() || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, fmt.Errorf("%s %s is not a count", field, d.String())
	}
	return int(d.IntPart()), nil
}

func (f aiFields) toFields() (extract.Fields, error) {
	total, err := wholeNumber(f.TotalItems, "total_items")
	if err != nil {
		return extract.Fields{}, err
	}
	out := extract.Fields{
		DocumentNumber:   strings.TrimSpace(f.DocumentNumber),
		CounterpartyName: strings.TrimSpace(f.CounterpartyName),
		ReferenceNumber:  strings.TrimSpace(f.ReferenceNumber),
		DocumentDate:     f.DocumentDate,
		TotalItems:       total,
		Source:           constants.SourceAI,
	}
	for _, it := range f.Items {
		qty, err := wholeNumber(it.Quantity, "quantity")
		if err != nil {
			return extract.Fields{}, err
		}
		item := entity.LineItem{
			ItemCode:    strings.TrimSpace(it.ItemCode),
			Description: strings.TrimSpace(it.Description),
			Quantity:    qty,
			Unit:        strings.TrimSpace(it.Unit),
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
			Status:      constants.ItemStatus(it.Status),
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}
