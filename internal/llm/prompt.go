package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/utils"
)

// maxPromptText caps the document text embedded in the user message.
const maxPromptText = 12000

// BuildSystemPrompt composes the system message: role, output contract and
// extraction rules for one document type.
func BuildSystemPrompt(docType constants.DocumentType) string {
	p := constants.ProfileFor(docType)
	parts := []string{
		"You are a document parser for Indonesian business documents. Return ONLY one JSON object that matches the provided JSON Schema.",
		"The document is a " + p.Label + ". The counterparty is the " + p.CounterpartyRole + ".",
		"Amounts are plain numbers without currency symbols or thousand separators (\"Rp 15.000.000\" becomes 15000000).",
		"Dates use ISO-8601 (YYYY-MM-DD); Indonesian documents write dates as DD/MM/YYYY.",
		"Item rows start with an ordinal marker, either \"#<n>\" (e.g. \"#1 LAPTOP DELL 2 15000000 30000000\") or \"<n>.\" at the start of the line (e.g. \"1. MONITOR 24 5 800000 4000000\").",
		"For item <n> use item_code \"ITEM-\" followed by n zero-padded to three digits (ITEM-001).",
		"The last numbers of an item row are quantity, unit price and total; numbers before them belong to the description.",
		"When a row has only quantity and unit price, total is quantity times unit price.",
		"Set item status to \"received\" unless the document states otherwise.",
		"Never invent values. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt embeds the keyword hints, an example reply, the schema and the
// document text.
func BuildUserPrompt(docType constants.DocumentType, text string) string {
	p := constants.ProfileFor(docType)

	var b strings.Builder
	b.WriteString("Field hints (Indonesian / English labels):\n")
	writeHint(&b, "document_number", p.DocKeywords)
	writeHint(&b, "reference_number", p.RefKeywords)
	writeHint(&b, "counterparty_name", p.CounterpartyKeywords)
	writeHint(&b, "document_date", constants.DateKeywords())
	writeHint(&b, "total_items", constants.TotalItemsKeywords())
	b.WriteString("- counterparty names usually start with PT, CV, UD or TOKO\n")

	b.WriteString("\nExample reply:\n")
	b.WriteString(mustJSON(exampleReply(p)))
	b.WriteString("\n\nJSON Schema:\n")
	b.WriteString(mustJSON(BuildDocumentJSONSchema()))

	text = strings.TrimSpace(text)
	b.WriteString("\n\nDocument text:\n")
	if len(text) > maxPromptText {
		b.WriteString(utils.CutAtRune(text, maxPromptText))
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	b.WriteString("\n\nReturn ONLY JSON that matches the provided schema.")
	return b.String()
}

// BuildPrompt assembles the full request for one document.
func BuildPrompt(docType constants.DocumentType, text string) Prompt {
	return Prompt{
		System: BuildSystemPrompt(docType),
		User:   BuildUserPrompt(docType, text),
		Schema: BuildDocumentJSONSchema(),
	}
}

func writeHint(b *strings.Builder, field string, keywords []string) {
	b.WriteString("- ")
	b.WriteString(field)
	b.WriteString(": ")
	b.WriteString(strings.Join(keywords, ", "))
	b.WriteString("\n")
}

func exampleReply(p constants.Profile) map[string]any {
	return map[string]any{
		"document_number":   p.DocPrefix + "-2024-001",
		"counterparty_name": "PT SUPPLIER MAJU",
		"reference_number":  p.RefPrefix + "-2024-003",
		"document_date":     "2024-01-15",
		"total_items":       2,
		"items": []map[string]any{
			{"item_code": "ITEM-001", "description": "LAPTOP DELL INSPIRON 15", "quantity": 2, "unit": "unit", "unit_price": 15000000, "total": 30000000, "status": "received"},
			{"item_code": "ITEM-002", "description": "MONITOR 24", "quantity": 5, "unit": "pcs", "unit_price": 800000, "total": 4000000, "status": "received"},
		},
	}
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
