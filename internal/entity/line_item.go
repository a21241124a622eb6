package entity

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/document-intake/constants"
)

// LineItem is one row of a document's item table.
type LineItem struct {
	ItemCode    string               `json:"item_code" validate:"required"`
	Description string               `json:"description"`
	Quantity    int                  `json:"quantity" validate:"gte=0"`
	Unit        string               `json:"unit"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	Total       decimal.Decimal      `json:"total"`
	Status      constants.ItemStatus `json:"status" validate:"required,oneof=received confirmed rejected"`
	Reason      string               `json:"reason,omitempty"`
}

// ComputedTotal is quantity * unit price.
func (li LineItem) ComputedTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DocumentItem is a LineItem flattened with its owning document, for the "all items" view.
type DocumentItem struct {
	DocumentID       string                 `json:"document_id"`
	DocumentNumber   string                 `json:"document_number"`
	DocumentType     constants.DocumentType `json:"document_type"`
	CounterpartyName string                 `json:"counterparty_name"`
	FileName         string                 `json:"file_name"`
	LineItem
}
