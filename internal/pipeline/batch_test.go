package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/document-intake/internal/common"
)

func TestProcessBatch_IsolatesFailuresAndKeepsOrder(t *testing.T) {
	pages := map[string]fakePage{
		"/in/a.pdf": {text: lpb("LPB-2024-001"), delay: 60 * time.Millisecond},
		"/in/c.pdf": {text: ""},
		"/in/d.pdf": {text: lpb("LPB-2024-004")},
		"/in/e.pdf": {text: lpb("LPB-2024-005"), delay: 20 * time.Millisecond},
	}
	p, _, store, rec := newTestProcessor(t, pages, WithWorkers(4))

	res, err := p.ProcessBatch(context.Background(), []Upload{
		{Path: "/in/a.pdf"},
		{Path: "/in/b.txt"},
		{Path: "/in/c.pdf"},
		{Path: "/in/d.pdf"},
		{Path: "/in/e.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total())

	require.Len(t, res.Succeeded, 3)
	assert.Equal(t, "LPB-2024-001", res.Succeeded[0].DocumentNumber)
	assert.Equal(t, "LPB-2024-004", res.Succeeded[1].DocumentNumber)
	assert.Equal(t, "LPB-2024-005", res.Succeeded[2].DocumentNumber)

	require.Len(t, res.Failed, 2)
	assert.Equal(t, "/in/b.txt", res.Failed[0].Upload.Path)
	assert.Equal(t, codes.InvalidArgument, res.Failed[0].Code)
	assert.Equal(t, "only PDF files are accepted", res.Failed[0].Reason)
	assert.Equal(t, "/in/c.pdf", res.Failed[1].Upload.Path)
	assert.ErrorIs(t, res.Failed[1].Err, common.ErrExtraction)

	// inserted in submission order, so the store lists the last upload first
	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, "LPB-2024-005", all[0].DocumentNumber)
	assert.Equal(t, "LPB-2024-001", all[2].DocumentNumber)

	assert.Equal(t, []string{"a.pdf", "d.pdf", "e.pdf"}, rec.succeeded)
	assert.Equal(t, []string{"b.txt", "c.pdf"}, rec.failed)
	assert.Equal(t, 1, rec.changes)
	assert.Equal(t, 1, rec.batches)
}

func TestProcessBatch_AllFailed(t *testing.T) {
	p, _, store, rec := newTestProcessor(t, nil)

	res, err := p.ProcessBatch(context.Background(), []Upload{{Path: "a.doc"}, {Path: "b.png"}})
	require.NoError(t, err)
	assert.Empty(t, res.Succeeded)
	assert.Len(t, res.Failed, 2)
	assert.Zero(t, store.Len())
	assert.Zero(t, rec.changes)
	assert.Equal(t, 1, rec.batches)
}

func TestProcessBatch_Cancelled(t *testing.T) {
	p, text, store, _ := newTestProcessor(t, map[string]fakePage{
		"/in/a.pdf": {text: lpb("LPB-2024-001")},
	}, WithWorkers(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.ProcessBatch(ctx, []Upload{{Path: "/in/a.pdf"}, {Path: "/in/b.pdf"}})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "processing was cancelled", res.Failed[0].Reason)
	assert.Zero(t, text.calls)
	assert.Zero(t, store.Len())
}

func TestProcessBatch_Empty(t *testing.T) {
	p, _, _, rec := newTestProcessor(t, nil)
	res, err := p.ProcessBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Total())
	assert.Equal(t, 1, rec.batches)
}

func TestReason(t *testing.T) {
	assert.Empty(t, Reason(nil))
	assert.Equal(t, "automatic extraction failed", Reason(common.NewAIResponseParseError("x", nil)))
	assert.Equal(t, "unexpected error while processing the document", Reason(common.NewUnexpectedError("x", nil)))
	assert.Equal(t, "processing was cancelled", Reason(context.DeadlineExceeded))

	dup := common.NewUnexpectedError("store document", common.NewValidationError("duplicate document id x", nil))
	assert.Equal(t, "unexpected error while processing the document", Reason(dup))
	assert.Equal(t, codes.Internal, common.StatusCode(dup))
	assert.Equal(t, "only PDF files are accepted", Reason(fmt.Errorf("gate: %w", common.NewValidationError("ext", nil))))
}
