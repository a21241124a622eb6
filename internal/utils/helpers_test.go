package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestIsNumericToken(t *testing.T) {
	for tok, want := range map[string]bool{
		"15":         true,
		"15000000":   true,
		"15.000.000": true,
		"15,000,000": true,
		"1.000,000":  false,
		"1,5":        false,
		"A4":         false,
		"":           false,
		"12.34":      false,
	} {
		assert.Equal(t, want, IsNumericToken(tok), "token %q", tok)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"800000", "800000", true},
		{"2.500.000", "2500000", true},
		{"Rp 1.250.000", "1250000", true},
		{"IDR15000", "15000", true},
		{"12,50", "12.5", true},
		{"99.99", "99.99", true},
		{"", "0", false},
		{"abc", "0", false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got.String(), "input %q", tt.in)
	}
}

func TestNormalizeDate(t *testing.T) {
	for in, want := range map[string]string{
		"15/01/2024": "2024-01-15",
		"5-3-2024":   "2024-03-05",
		"01.12.2023": "2023-12-01",
		"2024-02-29": "2024-02-29",
		"2023-02-29": "",
		"31/02/2024": "",
		"yesterday":  "",
	} {
		assert.Equal(t, want, NormalizeDate(in), "input %q", in)
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitLines("  a \r\n\n b c \n"))
	assert.Empty(t, SplitLines(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
	assert.Equal(t, "PT…", Truncate("PTé!", 4))
}

func TestCutAtRune(t *testing.T) {
	assert.Equal(t, "abc", CutAtRune("abc", 5))
	assert.Equal(t, "ab", CutAtRune("abc", 2))
	// "é" is two bytes; cutting inside it backs off to the boundary
	assert.Equal(t, "caf", CutAtRune("café", 4))
	assert.Equal(t, "café", CutAtRune("café", 5))
	assert.True(t, utf8.ValidString(CutAtRune("日本語", 4)))
	assert.Equal(t, "日", CutAtRune("日本語", 4))
}
