package pipeline

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/entity"
)

// Failure is one upload that produced no document.
type Failure struct {
	Upload Upload
	Reason string
	Code   codes.Code
	Err    error
}

// BatchResult reports every upload of a batch, in submission order.
type BatchResult struct {
	Succeeded []entity.Document
	Failed    []Failure
}

func (r BatchResult) Total() int { return len(r.Succeeded) + len(r.Failed) }

type outcome struct {
	doc entity.Document
	err error
}

// ProcessBatch processes uploads independently; one file's failure never stops
// the others. Extraction runs on up to Workers goroutines, and successful
// documents are inserted in submission order once all files have finished, so
// the last upload ends up first in the store. The returned error is non-nil only
// when ctx ends before the batch completes; the result then still reports every
// upload.
func (p *Processor) ProcessBatch(ctx context.Context, uploads []Upload) (BatchResult, error) {
	start := time.Now()
	outcomes := make([]outcome, len(uploads))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, up := range uploads {
		if ctx.Err() != nil {
			outcomes[i].err = ctx.Err()
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].err = err
				return nil
			}
			fctx := p.scope(ctx, up)
			doc, err := p.buildFromFile(fctx, up)
			outcomes[i] = outcome{doc: doc, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var res BatchResult
	inserted := false
	for i, up := range uploads {
		o := outcomes[i]
		fctx := common.WithFileName(ctx, up.name())
		if o.err == nil {
			if err := p.store.Insert(o.doc); err != nil {
				o.err = common.NewUnexpectedError("store document", err)
			}
		}
		if o.err != nil {
			res.Failed = append(res.Failed, Failure{
				Upload: up,
				Reason: Reason(o.err),
				Code:   common.StatusCode(o.err),
				Err:    o.err,
			})
			p.notifier.UploadFailed(fctx, up, Reason(o.err), o.err)
			continue
		}
		inserted = true
		res.Succeeded = append(res.Succeeded, o.doc)
		p.notifier.UploadSucceeded(fctx, o.doc)
	}
	if inserted {
		p.notifier.DocumentsChanged(ctx, p.store.All())
	}
	p.notifier.BatchCompleted(ctx, res)

	p.logger.Info("pipeline.batch.done",
		"files", len(uploads),
		"succeeded", len(res.Succeeded),
		"failed", len(res.Failed),
		"workers", p.workers,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, ctx.Err()
}

// Reason is the short, user-facing explanation of a failed upload.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "processing was cancelled"
	}
	switch common.KindOf(err) {
	case common.ErrValidation:
		return "only PDF files are accepted"
	case common.ErrExtraction:
		return "no text could be read from the document"
	case common.ErrAIUnavailable, common.ErrAIResponseParse:
		return "automatic extraction failed"
	}
	return "unexpected error while processing the document"
}
