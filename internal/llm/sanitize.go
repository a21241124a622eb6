package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/utils"
)

var (
	headerKeys = []string{"document_number", "counterparty_name", "reference_number", "document_date", "total_items", "items"}
	itemKeys   = []string{"item_code", "description", "quantity", "unit", "unit_price", "total", "status"}

	headerSynonyms = map[string]string{
		"lpb_number":    "document_number",
		"po_number":     "document_number",
		"invoice_no":    "document_number",
		"supplier":      "counterparty_name",
		"supplier_name": "counterparty_name",
		"vendor_name":   "counterparty_name",
		"po_reference":  "reference_number",
		"reference":     "reference_number",
		"date":          "document_date",
		"tanggal":       "document_date",
		"line_items":    "items",
	}
	itemSynonyms = map[string]string{
		"code":  "item_code",
		"name":  "description",
		"qty":   "quantity",
		"price": "unit_price",
		"harga": "unit_price",
	}
)

// NormalizeAndSanitizeJSON
// - Renames known synonyms (supplier_name -> counterparty_name, qty -> quantity)
// - Drops null/empty values
// - Coerces amount strings ("15.000.000", "Rp 800.000") to numbers
// - Normalizes document_date to YYYY-MM-DD, dropping it when unparseable
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	if m == nil {
		return nil, nil, fmt.Errorf("sanitize: reply is not an object")
	}

	var dropped []string
	drop := func(prefix, reason string) { dropped = append(dropped, prefix+"("+reason+")") }

	rename(m, headerSynonyms)
	for _, k := range []string{"document_number", "counterparty_name", "reference_number"} {
		trimString(m, k, k, drop)
	}
	if v, ok := m["document_date"].(string); ok {
		if d := utils.NormalizeDate(v); d != "" {
			m["document_date"] = d
		} else {
			delete(m, "document_date")
			drop("document_date", "format")
		}
	}
	coerceInt(m, "total_items", "total_items", drop)

	switch items := m["items"].(type) {
	case nil:
		if _, present := m["items"]; present {
			m["items"] = []any{}
		}
	case []any:
		kept := make([]any, 0, len(items))
		for i, it := range items {
			obj, ok := it.(map[string]any)
			if !ok {
				drop(fmt.Sprintf("items[%d]", i), "type")
				continue
			}
			sanitizeItem(obj, fmt.Sprintf("items[%d].", i), drop)
			kept = append(kept, obj)
		}
		m["items"] = kept
	}

	removeUnknown(m, headerKeys, "", drop)

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func sanitizeItem(obj map[string]any, prefix string, drop func(string, string)) {
	rename(obj, itemSynonyms)
	for _, k := range []string{"item_code", "description", "unit"} {
		trimString(obj, k, prefix+k, drop)
	}
	coerceInt(obj, "quantity", prefix+"quantity", drop)
	for _, k := range []string{"unit_price", "total"} {
		coerceAmount(obj, k, prefix+k, drop)
	}
	if v, ok := obj["status"].(string); ok {
		s := constants.ItemStatus(strings.ToLower(strings.TrimSpace(v)))
		if s.Valid() {
			obj["status"] = string(s)
		} else {
			delete(obj, "status")
			drop(prefix+"status", "enum")
		}
	}
	removeUnknown(obj, itemKeys, prefix, drop)
}

func rename(m map[string]any, synonyms map[string]string) {
	for from, to := range synonyms {
		v, ok := m[from]
		if !ok {
			continue
		}
		// don't overwrite existing value if already present
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
	}
}

func trimString(m map[string]any, k, label string, drop func(string, string)) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" && !strings.EqualFold(s, "null") {
			m[k] = s
			return
		}
		drop(label, "empty")
	case nil:
		drop(label, "null")
	case json.Number:
		m[k] = t.String()
		return
	default:
		drop(label, "type")
	}
	delete(m, k)
}

func coerceInt(m map[string]any, k, label string, drop func(string, string)) {
	v, ok := m[k]
	if !ok {
		return
	}
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = t
	case nil:
		delete(m, k)
		drop(label, "null")
		return
	default:
		delete(m, k)
		drop(label, "type")
		return
	}
	d, ok := utils.ParseAmount(s)
	if !ok || !d.IsInteger() {
		delete(m, k)
		drop(label, "format")
		return
	}
	m[k] = json.Number(d.String())
}

func coerceAmount(m map[string]any, k, label string, drop func(string, string)) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case json.Number:
		return
	case string:
		if d, ok := utils.ParseAmount(t); ok {
			m[k] = json.Number(d.String())
			return
		}
		drop(label, "format")
	case nil:
		drop(label, "null")
	default:
		drop(label, "type")
	}
	delete(m, k)
}

func removeUnknown(m map[string]any, allowed []string, prefix string, drop func(string, string)) {
	set := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		set[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := set[k]; !ok {
			delete(m, k)
			drop(prefix+k, "unknown")
		}
	}
}
