package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/document-intake/constants"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantCode  string
		wantDesc  string
		wantQty   int
		wantUnit  string
		wantPrice string
		wantTotal string
	}{
		{
			name:      "hash grammar keeps numeric description words",
			line:      "#1 LAPTOP DELL INSPIRON 15 2 15000000 30000000",
			wantCode:  "ITEM-001",
			wantDesc:  "LAPTOP DELL INSPIRON 15",
			wantQty:   2,
			wantUnit:  "pcs",
			wantPrice: "15000000",
			wantTotal: "30000000",
		},
		{
			name:      "dot grammar",
			line:      "1. MONITOR 24 5 800000 4000000",
			wantCode:  "ITEM-001",
			wantDesc:  "MONITOR 24",
			wantQty:   5,
			wantUnit:  "pcs",
			wantPrice: "800000",
			wantTotal: "4000000",
		},
		{
			name:      "unit word before the numbers",
			line:      "#2 KERTAS A4 rim 5 45000 225000",
			wantCode:  "ITEM-002",
			wantDesc:  "KERTAS A4",
			wantQty:   5,
			wantUnit:  "rim",
			wantPrice: "45000",
			wantTotal: "225000",
		},
		{
			name:      "unit word between quantity and price",
			line:      "1. KERTAS A4 10 rim 45000 450000",
			wantCode:  "ITEM-001",
			wantDesc:  "KERTAS A4",
			wantQty:   10,
			wantUnit:  "rim",
			wantPrice: "45000",
			wantTotal: "450000",
		},
		{
			name:      "hash row with unit word after quantity",
			line:      "#1 KABEL LAN 3 pcs 20000 60000",
			wantCode:  "ITEM-001",
			wantDesc:  "KABEL LAN",
			wantQty:   3,
			wantUnit:  "pcs",
			wantPrice: "20000",
			wantTotal: "60000",
		},
		{
			name:      "unit word after quantity without a total",
			line:      "#4 TINTA 2 box 75000",
			wantCode:  "ITEM-004",
			wantDesc:  "TINTA",
			wantQty:   2,
			wantUnit:  "box",
			wantPrice: "75000",
			wantTotal: "150000",
		},
		{
			name:      "two numbers compute the total",
			line:      "#3 MOUSE WIRELESS 4 150000",
			wantCode:  "ITEM-003",
			wantDesc:  "MOUSE WIRELESS",
			wantQty:   4,
			wantUnit:  "pcs",
			wantPrice: "150000",
			wantTotal: "600000",
		},
		{
			name:      "thousand separators",
			line:      "#12 PRINTER LASER 1 2.500.000 2.500.000",
			wantCode:  "ITEM-012",
			wantDesc:  "PRINTER LASER",
			wantQty:   1,
			wantUnit:  "pcs",
			wantPrice: "2500000",
			wantTotal: "2500000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := ParseLine(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, item.ItemCode)
			assert.Equal(t, tt.wantDesc, item.Description)
			assert.Equal(t, tt.wantQty, item.Quantity)
			assert.Equal(t, tt.wantUnit, item.Unit)
			assert.Equal(t, tt.wantPrice, item.UnitPrice.String())
			assert.Equal(t, tt.wantTotal, item.Total.String())
			assert.Equal(t, constants.ItemStatusReceived, item.Status)
		})
	}
}

func TestParseLineRejects(t *testing.T) {
	for _, line := range []string{
		"",
		"TOTAL 5 100000",
		"#5 10 20",
		"#6 CABLE 100000",
		"Item 1. MONITOR 5 100 500",
		"#7 BOLT 1,5 1000",
	} {
		_, ok := ParseLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParseItems(t *testing.T) {
	text := `LAPORAN PENERIMAAN BARANG
No  Description  Qty  Price  Total
#1 LAPTOP DELL INSPIRON 15 2 15000000 30000000
#2 MOUSE 3 100000 300000

Total Items: 2`

	items := ParseItems(text)
	require.Len(t, items, 2)
	assert.Equal(t, "ITEM-001", items[0].ItemCode)
	assert.Equal(t, "ITEM-002", items[1].ItemCode)
	assert.Equal(t, "MOUSE", items[1].Description)
}

func TestItemCode(t *testing.T) {
	assert.Equal(t, "ITEM-001", ItemCode(1))
	assert.Equal(t, "ITEM-042", ItemCode(42))
	assert.Equal(t, "ITEM-1234", ItemCode(1234))
}
