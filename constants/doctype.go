package constants

import (
	"regexp"
	"strings"
)

type DocumentType string

const (
	GoodsReceipt    DocumentType = "LPB"    // Laporan Penerimaan Barang
	PurchaseOrder   DocumentType = "PO"     // purchase order
	TaxInvoice      DocumentType = "FAKTUR" // Faktur Pajak
	ExchangeReceipt DocumentType = "TTF"    // Tanda Terima Faktur (invoice exchange receipt)
)

// Profile carries the per-type vocabulary shared by the rules extractor, the
// prompt builder and the normalizer.
type Profile struct {
	Type  DocumentType
	Label string

	// DocPrefix and RefPrefix build synthesized numbers: <PREFIX>-<year>-<NNN>.
	DocPrefix string
	RefPrefix string

	DocKeywords          []string
	RefKeywords          []string
	CounterpartyKeywords []string
	CounterpartyRole     string

	// DocInline and RefInline are regular expressions recognising a number without a label.
	DocInline string
	RefInline string

	// DetectKeywords score a text during type detection.
	DetectKeywords []string
}

var reBlanks = regexp.MustCompile(`[ \t]+`)

var totalItemsKeywords = []string{"total items", "total item", "jumlah item", "jumlah barang", "total barang"}
var dateKeywords = []string{"tanggal", "tgl", "date"}

var profiles = []Profile{
	{
		Type:                 GoodsReceipt,
		Label:                "Goods Receipt Report (Laporan Penerimaan Barang)",
		DocPrefix:            "LPB",
		RefPrefix:            "PO",
		DocKeywords:          []string{"lpb number", "nomor lpb", "no. lpb", "no lpb", "lpb no"},
		RefKeywords:          []string{"po reference", "referensi po", "po number", "nomor po", "no. po", "no po"},
		CounterpartyKeywords: []string{"nama supplier", "supplier", "pemasok", "vendor"},
		CounterpartyRole:     "supplier",
		DocInline:            `\bLPB-\d{4}-\d{3,}\b`,
		RefInline:            `\bPO-\d{4}-\d{3,}\b`,
		DetectKeywords:       []string{"laporan penerimaan barang", "goods receipt", "lpb", "penerimaan barang"},
	},
	{
		Type:                 PurchaseOrder,
		Label:                "Purchase Order (Pesanan Pembelian)",
		DocPrefix:            "PO",
		RefPrefix:            "PR",
		DocKeywords:          []string{"po number", "nomor po", "no. po", "no po", "purchase order no"},
		RefKeywords:          []string{"pr reference", "referensi pr", "pr number", "nomor pr", "no. pr", "no pr"},
		CounterpartyKeywords: []string{"supplier", "vendor", "pemasok", "kepada"},
		CounterpartyRole:     "supplier",
		DocInline:            `\bPO-\d{4}-\d{3,}\b`,
		RefInline:            `\bPR-\d{4}-\d{3,}\b`,
		DetectKeywords:       []string{"purchase order", "pesanan pembelian", "surat pesanan"},
	},
	{
		Type:                 TaxInvoice,
		Label:                "Tax Invoice (Faktur Pajak)",
		DocPrefix:            "FP",
		RefPrefix:            "PO",
		DocKeywords:          []string{"nomor seri faktur pajak", "nomor seri faktur", "nomor faktur", "no. faktur", "no faktur", "invoice number", "invoice no"},
		RefKeywords:          []string{"po reference", "referensi po", "nomor po", "no. po", "no po"},
		CounterpartyKeywords: []string{"nama pkp", "penjual", "seller", "supplier"},
		CounterpartyRole:     "seller",
		DocInline:            `\b\d{3}\.\d{3}-\d{2}\.\d{8}\b|\bFP-\d{4}-\d{3,}\b`,
		RefInline:            `\bPO-\d{4}-\d{3,}\b`,
		DetectKeywords:       []string{"faktur pajak", "tax invoice", "ppn", "pengusaha kena pajak", "dpp"},
	},
	{
		Type:                 ExchangeReceipt,
		Label:                "Invoice Exchange Receipt (Tanda Terima Faktur)",
		DocPrefix:            "TTF",
		RefPrefix:            "FP",
		DocKeywords:          []string{"nomor ttf", "no. ttf", "no ttf", "receipt number", "nomor tanda terima"},
		RefKeywords:          []string{"nomor faktur", "no. faktur", "no faktur", "invoice number", "invoice no"},
		CounterpartyKeywords: []string{"diterima dari", "received from", "supplier", "vendor"},
		CounterpartyRole:     "supplier",
		DocInline:            `\bTTF-\d{4}-\d{3,}\b`,
		RefInline:            `\bFP-\d{4}-\d{3,}\b|\bINV-\d{4}-\d{3,}\b`,
		DetectKeywords:       []string{"tanda terima faktur", "tukar faktur", "invoice receipt", "tanda terima"},
	},
}

// Profiles returns every known document profile in detection priority order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileFor returns the profile of t, falling back to the goods receipt profile.
func ProfileFor(t DocumentType) Profile {
	for _, p := range profiles {
		if p.Type == t {
			return p
		}
	}
	return profiles[0]
}

func TotalItemsKeywords() []string { return append([]string(nil), totalItemsKeywords...) }
func DateKeywords() []string       { return append([]string(nil), dateKeywords...) }

// ParseDocumentType canonicalizes user input ("lpb", "faktur pajak", "po", ...).
func ParseDocumentType(input string) (DocumentType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]DocumentType{
		"goods receipt":       GoodsReceipt,
		"grn":                 GoodsReceipt,
		"purchase order":      PurchaseOrder,
		"faktur pajak":        TaxInvoice,
		"tax invoice":         TaxInvoice,
		"invoice":             TaxInvoice,
		"tanda terima faktur": ExchangeReceipt,
		"exchange receipt":    ExchangeReceipt,
	}
	if t, ok := synonyms[normalized]; ok {
		return t, true
	}
	for _, p := range profiles {
		if normalized == strings.ToLower(string(p.Type)) {
			return p.Type, true
		}
	}
	return "", false
}

// DetectType picks the document type whose detection keywords occur most often in text.
// Ties go to the earlier profile; no hit at all yields GoodsReceipt.
func DetectType(text string) DocumentType {
	// keywords are single-spaced; column gaps in the text are not
	lower := reBlanks.ReplaceAllString(strings.ToLower(text), " ")
	best, bestScore := GoodsReceipt, 0
	for _, p := range profiles {
		score := 0
		for _, kw := range p.DetectKeywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best, bestScore = p.Type, score
		}
	}
	return best
}
