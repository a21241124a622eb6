package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/entity"
	"github.com/joseph-ayodele/document-intake/internal/extract"
	"github.com/joseph-ayodele/document-intake/internal/ocr"
	"github.com/joseph-ayodele/document-intake/internal/repository"
)

// Upload is one file handed to the pipeline.
type Upload struct {
	Path     string
	FileName string // defaults to the base name of Path
	// Type forces the document type; empty means keyword detection.
	Type       constants.DocumentType
	UploadedAt time.Time
}

func (u Upload) name() string {
	if u.FileName != "" {
		return u.FileName
	}
	return filepath.Base(u.Path)
}

type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
}

type FieldResolver interface {
	Resolve(ctx context.Context, docType constants.DocumentType, text string) (extract.Fields, error)
}

type DocumentNormalizer interface {
	Normalize(fields extract.Fields, docType constants.DocumentType, fileName string, uploadedAt time.Time) (entity.Document, error)
}

// Processor coordinates text acquisition, field extraction, normalization and
// insertion into the store.
type Processor struct {
	logger     *slog.Logger
	text       TextExtractor
	resolver   FieldResolver
	normalizer DocumentNormalizer
	store      repository.DocumentRepository
	notifier   Notifier
	workers    int
}

type Option func(*Processor)

// WithNotifier sets the rendering collaborator; the default only logs.
func WithNotifier(n Notifier) Option { return func(p *Processor) { p.notifier = n } }

// WithWorkers bounds concurrent extraction in ProcessBatch.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

func NewProcessor(logger *slog.Logger, text TextExtractor, resolver FieldResolver, normalizer DocumentNormalizer, store repository.DocumentRepository, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:     logger,
		text:       text,
		resolver:   resolver,
		normalizer: normalizer,
		store:      store,
		workers:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = NewLogNotifier(logger)
	}
	return p
}

// ProcessFile runs the whole intake for one uploaded file and stores the result.
func (p *Processor) ProcessFile(ctx context.Context, up Upload) (entity.Document, error) {
	ctx = p.scope(ctx, up)
	doc, err := p.buildFromFile(ctx, up)
	return p.commit(ctx, up, doc, err)
}

// ProcessText runs extraction over already acquired text and stores the result.
func (p *Processor) ProcessText(ctx context.Context, up Upload, text string) (entity.Document, error) {
	ctx = p.scope(ctx, up)
	doc, err := p.buildFromText(ctx, up, text)
	return p.commit(ctx, up, doc, err)
}

func (p *Processor) commit(ctx context.Context, up Upload, doc entity.Document, err error) (entity.Document, error) {
	if err != nil {
		p.notifier.UploadFailed(ctx, up, Reason(err), err)
		return entity.Document{}, err
	}
	if err := p.store.Insert(doc); err != nil {
		err = common.NewUnexpectedError("store document", err)
		p.notifier.UploadFailed(ctx, up, Reason(err), err)
		return entity.Document{}, err
	}
	p.notifier.UploadSucceeded(ctx, doc)
	p.notifier.DocumentsChanged(ctx, p.store.All())
	return doc, nil
}

func (p *Processor) scope(ctx context.Context, up Upload) context.Context {
	if common.RequestIDFromContext(ctx) == "" {
		ctx = common.WithRequestID(ctx, uuid.New().String())
	}
	return common.WithFileName(ctx, up.name())
}

// buildFromFile gates on the extension, acquires text and extracts. Nothing is stored.
func (p *Processor) buildFromFile(ctx context.Context, up Upload) (entity.Document, error) {
	if !constants.IsAllowedExt(filepath.Ext(up.Path)) {
		return entity.Document{}, common.NewValidationError("only PDF files are accepted: "+up.name(), nil)
	}
	start := time.Now()
	res, err := p.text.Extract(ctx, up.Path)
	if err != nil {
		p.logger.Error("pipeline.text.failed",
			"req_id", common.RequestIDFromContext(ctx), "file", up.name(), "error", err)
		var appErr *common.AppError
		if ctx.Err() != nil || errors.As(err, &appErr) {
			return entity.Document{}, err
		}
		return entity.Document{}, common.NewExtractionError("read "+up.name(), err)
	}
	p.logger.Info("pipeline.text.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"file", up.name(),
		"method", res.Method,
		"pages", res.Pages,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return p.buildFromText(ctx, up, res.Text)
}

func (p *Processor) buildFromText(ctx context.Context, up Upload, text string) (entity.Document, error) {
	rid := common.RequestIDFromContext(ctx)
	if strings.TrimSpace(text) == "" {
		return entity.Document{}, common.NewExtractionError("no text extracted from "+up.name(), nil)
	}

	docType := up.Type
	if docType == "" {
		docType = constants.DetectType(text)
	}

	fields, err := p.resolver.Resolve(ctx, docType, text)
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "req_id", rid, "file", up.name(), "error", err)
		return entity.Document{}, err
	}

	doc, err := p.normalizer.Normalize(fields, docType, up.name(), up.UploadedAt)
	if err != nil {
		return entity.Document{}, err
	}
	p.logger.Info("pipeline.file.ok",
		"req_id", rid,
		"file", up.name(),
		"doc_type", docType,
		"source", doc.Source,
		"document_number", doc.DocumentNumber,
		"items", len(doc.Items),
		"needs_review", doc.NeedsReview,
	)
	return doc, nil
}
