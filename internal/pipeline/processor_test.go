package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/entity"
	"github.com/joseph-ayodele/document-intake/internal/extract"
	"github.com/joseph-ayodele/document-intake/internal/normalize"
	"github.com/joseph-ayodele/document-intake/internal/ocr"
	"github.com/joseph-ayodele/document-intake/internal/repository"
	"github.com/joseph-ayodele/document-intake/internal/rules"
)

type fakePage struct {
	text  string
	err   error
	delay time.Duration
}

type fakeText struct {
	mu    sync.Mutex
	pages map[string]fakePage
	calls int
}

func (f *fakeText) Extract(ctx context.Context, path string) (ocr.Result, error) {
	f.mu.Lock()
	f.calls++
	p := f.pages[path]
	f.mu.Unlock()
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ocr.Result{}, ctx.Err()
		}
	}
	return ocr.Result{Text: p.text, Pages: 1, Method: "pdf-text"}, p.err
}

type recorder struct {
	mu        sync.Mutex
	succeeded []string
	failed    []string
	batches   int
	changes   int
}

func (r *recorder) UploadSucceeded(_ context.Context, doc entity.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded = append(r.succeeded, doc.FileName)
}

func (r *recorder) UploadFailed(_ context.Context, up Upload, _ string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, up.name())
}

func (r *recorder) BatchCompleted(context.Context, BatchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
}

func (r *recorder) DocumentsChanged(context.Context, []entity.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes++
}

func lpb(number string) string {
	return "LAPORAN PENERIMAAN BARANG\nLPB Number: " + number + "\nSupplier: PT SUPPLIER MAJU\n#1 MOUSE 2 100000 200000"
}

func newTestProcessor(t *testing.T, pages map[string]fakePage, opts ...Option) (*Processor, *fakeText, *repository.DocumentStore, *recorder) {
	t.Helper()
	text := &fakeText{pages: pages}
	store := repository.NewDocumentStore(nil)
	rec := &recorder{}
	chain := extract.NewChain(nil, rules.NewExtractor(nil), nil)
	norm := normalize.NewNormalizer(nil, normalize.WithSequence(normalize.NewCounterSequence(1)))
	opts = append([]Option{WithNotifier(rec)}, opts...)
	return NewProcessor(nil, text, chain, norm, store, opts...), text, store, rec
}

func TestProcessFile(t *testing.T) {
	p, _, store, rec := newTestProcessor(t, map[string]fakePage{
		"/in/lpb.pdf": {text: lpb("LPB-2024-001")},
	})

	doc, err := p.ProcessFile(context.Background(), Upload{Path: "/in/lpb.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "lpb.pdf", doc.FileName)
	assert.Equal(t, constants.GoodsReceipt, doc.Type)
	assert.Equal(t, "LPB-2024-001", doc.DocumentNumber)
	assert.Equal(t, "PT SUPPLIER MAJU", doc.CounterpartyName)
	assert.Equal(t, constants.SourceRules, doc.Source)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "200000", doc.Items[0].Total.String())

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []string{"lpb.pdf"}, rec.succeeded)
	assert.Equal(t, 1, rec.changes)
}

func TestProcessFile_RejectsNonPDF(t *testing.T) {
	p, text, store, rec := newTestProcessor(t, nil)

	_, err := p.ProcessFile(context.Background(), Upload{Path: "/in/notes.txt"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, text.calls)
	assert.Zero(t, store.Len())
	assert.Equal(t, []string{"notes.txt"}, rec.failed)
}

func TestProcessFile_TextFailure(t *testing.T) {
	p, _, store, _ := newTestProcessor(t, map[string]fakePage{
		"/in/broken.pdf": {err: errors.New("pdftotext: exit status 1")},
	})

	_, err := p.ProcessFile(context.Background(), Upload{Path: "/in/broken.pdf"})
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Equal(t, "no text could be read from the document", Reason(err))
	assert.Zero(t, store.Len())
}

func TestProcessText_Empty(t *testing.T) {
	p, _, store, rec := newTestProcessor(t, nil)

	_, err := p.ProcessText(context.Background(), Upload{Path: "scan.pdf"}, "  \n ")
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Zero(t, store.Len())
	assert.Equal(t, []string{"scan.pdf"}, rec.failed)
	assert.Zero(t, rec.changes)
}

func TestProcessText_ForcedType(t *testing.T) {
	p, _, _, _ := newTestProcessor(t, nil)
	up := Upload{Path: "x.pdf", FileName: "Faktur Januari.pdf", Type: constants.TaxInvoice, UploadedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}

	doc, err := p.ProcessText(context.Background(), up, "LPB Number: LPB-2024-001")
	require.NoError(t, err)
	assert.Equal(t, constants.TaxInvoice, doc.Type)
	assert.Equal(t, "Faktur Januari.pdf", doc.FileName)
	assert.Equal(t, up.UploadedAt, doc.UploadDate)
	assert.Equal(t, constants.UnknownCounterparty, doc.CounterpartyName)
	assert.True(t, doc.NeedsReview)
}
