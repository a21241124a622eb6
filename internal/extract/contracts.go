package extract

import (
	"context"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/entity"
)

// Fields is the intermediate, possibly partial, result of either extraction tier.
// An absent field is the empty string or zero.
type Fields struct {
	DocumentNumber   string
	CounterpartyName string
	ReferenceNumber  string
	DocumentDate     string // YYYY-MM-DD
	TotalItems       int    // stated in the text, 0 when absent
	Items            []entity.LineItem
	Source           constants.Source
}

// FieldExtractor turns extracted document text into Fields.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, docType constants.DocumentType, text string) (Fields, error)
}
