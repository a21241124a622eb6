package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/common"
)

func TestParseReply_Strict(t *testing.T) {
	reply := `Sure, here it is:
{"document_number":"LPB-2024-001","counterparty_name":"PT SUPPLIER MAJU","document_date":"2024-01-15",
 "items":[{"item_code":"ITEM-001","description":"LAPTOP DELL INSPIRON 15","quantity":2,"unit":"unit","unit_price":15000000,"total":30000000,"status":"received"}]}`

	f, err := ParseReply(reply, nil)
	require.NoError(t, err)
	assert.Equal(t, "LPB-2024-001", f.DocumentNumber)
	assert.Equal(t, "PT SUPPLIER MAJU", f.CounterpartyName)
	assert.Equal(t, "2024-01-15", f.DocumentDate)
	assert.Equal(t, constants.SourceAI, f.Source)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "ITEM-001", f.Items[0].ItemCode)
	assert.Equal(t, 2, f.Items[0].Quantity)
	assert.Equal(t, "15000000", f.Items[0].UnitPrice.String())
	assert.Equal(t, "30000000", f.Items[0].Total.String())
	assert.Equal(t, constants.ItemStatusReceived, f.Items[0].Status)
}

func TestParseReply_Lenient(t *testing.T) {
	reply := `{"lpb_number":"LPB-1","supplier_name":"  PT B ","tanggal":"15/01/2024","total_items":"1",
"line_items":[{"name":"MOUSE","qty":"3","price":"Rp 100.000","extra":1}],"confidence":0.9}`

	f, err := ParseReply(reply, nil)
	require.NoError(t, err)
	assert.Equal(t, "LPB-1", f.DocumentNumber)
	assert.Equal(t, "PT B", f.CounterpartyName)
	assert.Equal(t, "2024-01-15", f.DocumentDate)
	assert.Equal(t, 1, f.TotalItems)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "MOUSE", f.Items[0].Description)
	assert.Equal(t, 3, f.Items[0].Quantity)
	assert.Equal(t, "100000", f.Items[0].UnitPrice.String())
	assert.True(t, f.Items[0].Total.IsZero())
}

func TestParseReply_WholeFloatCounts(t *testing.T) {
	reply := `{"total_items":1.0,"items":[{"description":"KERTAS A4","quantity":2.0,"unit":"rim","unit_price":45000,"total":90000}]}`

	f, err := ParseReply(reply, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.TotalItems)
	require.Len(t, f.Items, 1)
	assert.Equal(t, 2, f.Items[0].Quantity)
	assert.Equal(t, "90000", f.Items[0].Total.String())
}

func TestParseReply_Rejected(t *testing.T) {
	for name, reply := range map[string]string{
		"no json":            "I could not read the document.",
		"missing quantity":   `{"items":[{"description":"X","unit_price":1}]}`,
		"items not an array": `{"items":"none"}`,
		"broken json":        `{"items": [}`,
		"missing items":      `{"document_number":"LPB-1"}`,
		"negative amount":    `{"items":[{"description":"X","quantity":1,"unit_price":-5}]}`,
		"quantity too large": `{"items":[{"description":"X","quantity":10000000000,"unit_price":1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseReply(reply, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrAIResponseParse)
		})
	}
}

func TestNormalizeAndSanitizeJSON(t *testing.T) {
	raw := []byte(`{"document_number":"null","reference_number":42,"document_date":"someday",
"items":[{"description":"A","quantity":"2.5","unit_price":"1.000","status":"Confirmed"},
         {"description":"B","quantity":1,"unit_price":10,"status":"lost"},
         "junk"]}`)

	out, dropped, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reference_number":"42",
"items":[{"description":"A","unit_price":1000,"status":"confirmed"},
         {"description":"B","quantity":1,"unit_price":10}]}`, string(out))
	assert.ElementsMatch(t, []string{
		"document_number(empty)",
		"document_date(format)",
		"items[0].quantity(format)",
		"items[1].status(enum)",
		"items[2](type)",
	}, dropped)
}

func TestNormalizeAndSanitizeJSON_NullItems(t *testing.T) {
	out, _, err := NormalizeAndSanitizeJSON([]byte(`{"items":null}`), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(out))
	require.NoError(t, ValidateJSONAgainstSchema(out))
}

func TestNormalizeAndSanitizeJSON_NotObject(t *testing.T) {
	_, _, err := NormalizeAndSanitizeJSON([]byte(`[1,2]`), nil)
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(constants.TaxInvoice, "FAKTUR PAJAK\nNomor Faktur: 010.000-24.00000001")
	assert.Contains(t, p.System, "Tax Invoice")
	assert.Contains(t, p.System, "ITEM-001")
	assert.Contains(t, p.User, "nomor seri faktur pajak")
	assert.Contains(t, p.User, "010.000-24.00000001")
	assert.Contains(t, p.User, `"FP-2024-001"`)
	assert.NotNil(t, p.Schema)

	long := BuildUserPrompt(constants.GoodsReceipt, strings.Repeat("x", maxPromptText+10))
	assert.Contains(t, long, "(truncated)")

	// an odd offset puts the byte cap inside a two-byte character
	wide := BuildUserPrompt(constants.GoodsReceipt, "x"+strings.Repeat("é", maxPromptText))
	assert.Contains(t, wide, "(truncated)")
	assert.True(t, utf8.ValidString(wide))
}
