package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	reDigits     = regexp.MustCompile(`^\d+$`)
	reGrouped    = regexp.MustCompile(`^\d{1,3}(?:([.,])\d{3})(?:[.,]\d{3})*$`)
	reFraction   = regexp.MustCompile(`^\d+[.,]\d{1,2}$`)
	reDMY        = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	reYMD        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reCurrencyRp = regexp.MustCompile(`(?i)^(?:rp\.?|idr)\s*`)
)

// SplitLines returns the trimmed, non-empty lines of s.
func SplitLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, ln := range raw {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// IsNumericToken reports whether tok is a plain amount: digits, optionally
// thousand-grouped ("15.000.000", "15,000,000").
func IsNumericToken(tok string) bool {
	if reDigits.MatchString(tok) {
		return true
	}
	m := reGrouped.FindStringSubmatch(tok)
	if m == nil {
		return false
	}
	// mixed separators ("1.000,000") are not an amount
	sep := m[1]
	other := ","
	if sep == "," {
		other = "."
	}
	return !strings.Contains(tok, other)
}

// ParseAmount parses a numeric token (see IsNumericToken) or a decimal with one
// or two fraction digits. An optional "Rp"/"IDR" prefix is ignored.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(reCurrencyRp.ReplaceAllString(strings.TrimSpace(s), ""))
	switch {
	case s == "":
		return decimal.Zero, false
	case IsNumericToken(s):
		s = strings.NewReplacer(".", "", ",", "").Replace(s)
	case reFraction.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizeDate converts DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY or YYYY-MM-DD to
// YYYY-MM-DD. It returns "" when s is not a valid calendar date.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if reYMD.MatchString(s) {
		if _, err := ParseYMD(s); err == nil {
			return s
		}
		return ""
	}
	m := reDMY.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	t, err := time.ParseInLocation("2-1-2006", m[1]+"-"+m[2]+"-"+m[3], time.UTC)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func ParseYMD(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	// strip time to midnight UTC to match DATE semantics
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Truncate keeps at most n-1 bytes of s and marks the cut with an ellipsis.
// The cut never splits a multi-byte character.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return CutAtRune(s, n)
	}
	return CutAtRune(s, n-1) + "…"
}

// CutAtRune returns the longest prefix of s of at most n bytes that ends on a
// character boundary.
func CutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
