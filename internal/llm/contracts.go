package llm

import (
	"context"

	"github.com/shopspring/decimal"
)

// Prompt is one request to a text-generation backend.
type Prompt struct {
	System string
	User   string
	// Schema is the JSON schema the reply must satisfy; backends that support
	// structured output may forward it.
	Schema map[string]any
}

// Generator turns a prompt into a free-form reply.
// Implementations return a common.ErrAIUnavailable error when the backend cannot
// be reached or rejects the credentials.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// aiFields is the reply shape requested from the model.
type aiFields struct {
	DocumentNumber   string          `json:"document_number"`
	CounterpartyName string          `json:"counterparty_name"`
	ReferenceNumber  string          `json:"reference_number"`
	DocumentDate     string          `json:"document_date"`
	TotalItems       decimal.Decimal `json:"total_items"`
	Items            []aiItem        `json:"items"`
}

type aiItem struct {
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description"`
	// counts are decoded as decimals: JSON allows 2.0 for an integer
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
}
