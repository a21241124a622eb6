package normalize

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
	"github.com/joseph-ayodele/document-intake/internal/entity"
	"github.com/joseph-ayodele/document-intake/internal/extract"
	"github.com/joseph-ayodele/document-intake/internal/rules"
	"github.com/joseph-ayodele/document-intake/internal/utils"
)

// Normalizer turns partial extraction output into a canonical Document.
type Normalizer struct {
	clock  Clock
	seq    Sequence
	ids    IDGenerator
	logger *slog.Logger
}

type Option func(*Normalizer)

func WithClock(c Clock) Option             { return func(n *Normalizer) { n.clock = c } }
func WithSequence(s Sequence) Option       { return func(n *Normalizer) { n.seq = s } }
func WithIDGenerator(g IDGenerator) Option { return func(n *Normalizer) { n.ids = g } }

// NewNormalizer defaults to the system clock, a random 100-999 sequence and uuid ids.
func NewNormalizer(logger *slog.Logger, opts ...Option) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Normalizer{
		clock:  SystemClock{},
		seq:    NewRandomSequence(),
		ids:    UUIDGenerator{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize fills gaps in fields and returns a validated Document. A zero
// uploadedAt is replaced by the clock's current time.
func (n *Normalizer) Normalize(fields extract.Fields, docType constants.DocumentType, fileName string, uploadedAt time.Time) (entity.Document, error) {
	profile := constants.ProfileFor(docType)
	now := n.clock.Now()
	if uploadedAt.IsZero() {
		uploadedAt = now
	}

	doc := entity.Document{
		ID:               n.ids.NewID(),
		FileName:         fileName,
		UploadDate:       uploadedAt,
		Type:             profile.Type,
		DocumentNumber:   strings.TrimSpace(fields.DocumentNumber),
		CounterpartyName: strings.TrimSpace(fields.CounterpartyName),
		ReferenceNumber:  strings.TrimSpace(fields.ReferenceNumber),
		DocumentDate:     utils.NormalizeDate(fields.DocumentDate),
		Status:           constants.DocumentStatusDraft,
		Source:           fields.Source,
	}
	if doc.Source == "" {
		doc.Source = constants.SourceRules
	}

	if doc.DocumentNumber == "" {
		doc.DocumentNumber = n.synthesize(profile.DocPrefix, now.Year())
	}
	if doc.ReferenceNumber == "" {
		doc.ReferenceNumber = n.synthesize(profile.RefPrefix, now.Year())
	}
	if doc.CounterpartyName == "" {
		doc.CounterpartyName = constants.UnknownCounterparty
		doc.NeedsReview = true
	}

	items, adjusted := normalizeItems(fields.Items)
	doc.Items = items
	if adjusted {
		doc.NeedsReview = true
	}
	if len(items) > 0 {
		doc.TotalItemCount = len(items)
	} else {
		// stated count is kept; nothing parsed means a reviewer must look
		doc.TotalItemCount = max(fields.TotalItems, 0)
		doc.NeedsReview = true
	}

	if err := common.ValidateStruct(doc); err != nil {
		n.logger.Error("normalize.validate_failed", "file", fileName, "error", err)
		return entity.Document{}, common.NewUnexpectedError("normalized document is invalid", err)
	}

	n.logger.Debug("normalize.ok",
		"file", fileName,
		"document_number", doc.DocumentNumber,
		"reference_number", doc.ReferenceNumber,
		"items", len(doc.Items),
		"needs_review", doc.NeedsReview,
	)
	return doc, nil
}

func (n *Normalizer) synthesize(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, n.seq.Next())
}

// normalizeItems assigns missing or duplicate codes without collisions and
// fills defaults. adjusted reports whether any value had to be clamped.
func normalizeItems(in []entity.LineItem) ([]entity.LineItem, bool) {
	if len(in) == 0 {
		return nil, false
	}
	out := make([]entity.LineItem, len(in))
	copy(out, in)

	taken := make(map[string]bool, len(out))
	needCode := make([]bool, len(out))
	for i := range out {
		code := strings.TrimSpace(out[i].ItemCode)
		out[i].ItemCode = code
		if code == "" || taken[code] {
			needCode[i] = true
			continue
		}
		taken[code] = true
	}

	next := 1
	adjusted := false
	for i := range out {
		it := &out[i]
		if needCode[i] {
			for taken[rules.ItemCode(next)] {
				next++
			}
			it.ItemCode = rules.ItemCode(next)
			taken[it.ItemCode] = true
		}
		it.Description = strings.TrimSpace(it.Description)
		if it.Unit = strings.TrimSpace(it.Unit); it.Unit == "" {
			it.Unit = constants.DefaultUnit
		}
		if !it.Status.Valid() {
			it.Status = constants.ItemStatusReceived
		}
		if it.Quantity < 0 {
			it.Quantity = 0
			adjusted = true
		}
		if it.UnitPrice.IsNegative() {
			it.UnitPrice = it.UnitPrice.Abs()
			adjusted = true
		}
		if it.Total.IsNegative() {
			it.Total = it.Total.Abs()
			adjusted = true
		}
		if it.Total.IsZero() && it.Quantity > 0 && it.UnitPrice.IsPositive() {
			it.Total = it.ComputedTotal()
		}
	}
	return out, adjusted
}
