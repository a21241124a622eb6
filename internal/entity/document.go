package entity

import (
	"time"

	"github.com/joseph-ayodele/document-intake/constants"
)

// Document is the canonical record produced from one uploaded file.
type Document struct {
	ID               string                   `json:"id" validate:"required"`
	FileName         string                   `json:"file_name" validate:"required"`
	UploadDate       time.Time                `json:"upload_date" validate:"required"`
	Type             constants.DocumentType   `json:"type" validate:"required"`
	DocumentNumber   string                   `json:"document_number" validate:"required"`
	CounterpartyName string                   `json:"counterparty_name" validate:"required"`
	ReferenceNumber  string                   `json:"reference_number" validate:"required"`
	DocumentDate     string                   `json:"document_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TotalItemCount   int                      `json:"total_item_count" validate:"gte=0"`
	Status           constants.DocumentStatus `json:"status" validate:"required,oneof=draft confirmed rejected"`
	Items            []LineItem               `json:"items" validate:"dive"`
	Source           constants.Source         `json:"source" validate:"required,oneof=ai rules"`
	NeedsReview      bool                     `json:"needs_review"`
}

// ItemIndex returns the position of the item with code, or -1.
func (d *Document) ItemIndex(code string) int {
	for i := range d.Items {
		if d.Items[i].ItemCode == code {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers cannot mutate stored items.
func (d Document) Clone() Document {
	out := d
	if d.Items != nil {
		out.Items = make([]LineItem, len(d.Items))
		copy(out.Items, d.Items)
	}
	return out
}
