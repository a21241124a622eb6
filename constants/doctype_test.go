package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		in     string
		want   DocumentType
		wantOK bool
	}{
		{"lpb", GoodsReceipt, true},
		{" LPB ", GoodsReceipt, true},
		{"po", PurchaseOrder, true},
		{"Faktur Pajak", TaxInvoice, true},
		{"faktur", TaxInvoice, true},
		{"ttf", ExchangeReceipt, true},
		{"tanda terima faktur", ExchangeReceipt, true},
		{"", "", false},
		{"receipt", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDocumentType(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want DocumentType
	}{
		{"goods receipt", "LAPORAN PENERIMAAN BARANG\nLPB Number: LPB-2024-001", GoodsReceipt},
		{"purchase order", "PURCHASE ORDER\nPO Number: PO-2024-001", PurchaseOrder},
		{"tax invoice", "FAKTUR PAJAK\nDPP 1000000\nPPN 110000", TaxInvoice},
		{"exchange receipt", "TANDA TERIMA FAKTUR\nNomor TTF: TTF-2024-001", ExchangeReceipt},
		{"column gaps inside a title", "TANDA  TERIMA   FAKTUR\nNomor TTF:  TTF-2024-001", ExchangeReceipt},
		{"no keywords", "hello", GoodsReceipt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.text))
		})
	}
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, "FP", ProfileFor(TaxInvoice).DocPrefix)
	assert.Equal(t, GoodsReceipt, ProfileFor("OTHER").Type)
}

func TestIsAllowedExt(t *testing.T) {
	assert.True(t, IsAllowedExt(".pdf"))
	assert.True(t, IsAllowedExt("PDF"))
	assert.False(t, IsAllowedExt(".txt"))
	assert.False(t, IsAllowedExt(""))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, DocumentStatusDraft.Valid())
	assert.False(t, DocumentStatus("archived").Valid())
	assert.True(t, ItemStatusRejected.Valid())
	assert.False(t, ItemStatus("").Valid())
}
