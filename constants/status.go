package constants

// DocumentStatus is the lifecycle state of a canonical document.
type DocumentStatus string

// Stable values (rendered and exported as-is).
const (
	DocumentStatusDraft     DocumentStatus = "draft"     // default after extraction
	DocumentStatusConfirmed DocumentStatus = "confirmed" // accepted by a reviewer
	DocumentStatusRejected  DocumentStatus = "rejected"  // refused by a reviewer
)

// ItemStatus is the state of a single line item.
type ItemStatus string

const (
	ItemStatusReceived  ItemStatus = "received"
	ItemStatusConfirmed ItemStatus = "confirmed"
	ItemStatusRejected  ItemStatus = "rejected"
)

// Source names the extraction tier that produced a document's fields.
type Source string

const (
	SourceAI    Source = "ai"
	SourceRules Source = "rules"
)

// UnknownCounterparty is stored when neither tier found a counterparty name.
const UnknownCounterparty = "UNKNOWN"

// DefaultUnit is used for line items whose unit could not be recognised.
const DefaultUnit = "pcs"

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusConfirmed, DocumentStatusRejected:
		return true
	}
	return false
}

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusReceived, ItemStatusConfirmed, ItemStatusRejected:
		return true
	}
	return false
}
