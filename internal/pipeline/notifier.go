package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/entity"
)

// Notifier is the rendering collaborator: it receives per-upload and per-batch
// outcomes and the full ordered document sequence after each change.
type Notifier interface {
	UploadSucceeded(ctx context.Context, doc entity.Document)
	UploadFailed(ctx context.Context, up Upload, reason string, err error)
	BatchCompleted(ctx context.Context, res BatchResult)
	DocumentsChanged(ctx context.Context, docs []entity.Document)
}

// LogNotifier reports every event as a structured log line.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) UploadSucceeded(ctx context.Context, doc entity.Document) {
	n.logger.Info("notify.upload.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"file", doc.FileName,
		"document_id", doc.ID,
		"document_number", doc.DocumentNumber,
		"needs_review", doc.NeedsReview,
	)
}

func (n *LogNotifier) UploadFailed(ctx context.Context, up Upload, reason string, err error) {
	attrs := common.LogAttrs(ctx)
	if common.FileNameFromContext(ctx) == "" {
		attrs = append(attrs, "file", up.name())
	}
	n.logger.Warn("notify.upload.failed", append(attrs,
		"reason", reason,
		"code", common.StatusCode(err).String(),
		"error", err,
	)...)
}

func (n *LogNotifier) BatchCompleted(_ context.Context, res BatchResult) {
	n.logger.Info("notify.batch.done", "succeeded", len(res.Succeeded), "failed", len(res.Failed))
}

func (n *LogNotifier) DocumentsChanged(_ context.Context, docs []entity.Document) {
	n.logger.Debug("notify.documents.changed", "count", len(docs))
}
