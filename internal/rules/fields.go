package rules

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/extract"
	"github.com/joseph-ayodele/document-intake/internal/utils"
)

const (
	valueIdent = `([A-Za-z0-9][A-Za-z0-9\-/.]*[A-Za-z0-9])`
	valueName  = `(\S.*?)`
	valueCount = `(\d+)`
	valueDate  = `(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{4}|\d{4}-\d{2}-\d{2})`

	gapTight = `\.?\s*[:#\-]?\s*`
	// names need a separator, otherwise "PT SUPPLIER MAJU" reads as label "supplier" + "MAJU"
	gapName = `\.?\s*[:\-]\s*`
	// dates are often labeled "Tanggal Penerimaan: ..." so anything non-numeric may sit between
	gapLoose = `[^\d]*?`
)

// reLegalEntity finds unlabeled company names: a legal-entity prefix followed by uppercase words.
var reLegalEntity = regexp.MustCompile(`\b(?:PT|CV|UD|TOKO)\.?(?:\s+[A-Z0-9][A-Z0-9&.,'\-]*\b)+`)

// reColumnGap separates the columns pdftotext -layout puts on one line.
var reColumnGap = regexp.MustCompile(`\t|\s{2,}`)

type fieldID int

const (
	fieldDocNumber fieldID = iota
	fieldCounterparty
	fieldRefNumber
	fieldTotalItems
	fieldDate
	fieldCount
)

// fieldRule fires when a line contains one of keywords; value then captures group 1.
type fieldRule struct {
	field    fieldID
	keywords []string
	value    *regexp.Regexp
	// labelOnly matches a cell that is just the label; the value is then read from a neighbouring cell
	labelOnly *regexp.Regexp
	nextValue *regexp.Regexp
	// stop cuts a free-text value where another field's label begins
	stop *regexp.Regexp
}

type compiledProfile struct {
	rules     []fieldRule
	docInline *regexp.Regexp
	refInline *regexp.Regexp
}

var compiled = compileProfiles()

func compileProfiles() map[constants.DocumentType]compiledProfile {
	out := make(map[constants.DocumentType]compiledProfile)
	for _, p := range constants.Profiles() {
		counterparty := newRule(fieldCounterparty, p.CounterpartyKeywords, gapName, valueName)
		counterparty.stop = stopAt(p.DocKeywords, p.RefKeywords, constants.TotalItemsKeywords(), constants.DateKeywords())
		out[p.Type] = compiledProfile{
			rules: []fieldRule{
				newRule(fieldDocNumber, p.DocKeywords, gapTight, valueIdent),
				counterparty,
				newRule(fieldRefNumber, p.RefKeywords, gapTight, valueIdent),
				newRule(fieldTotalItems, constants.TotalItemsKeywords(), gapTight, valueCount),
				newRule(fieldDate, constants.DateKeywords(), gapLoose, valueDate),
			},
			docInline: regexp.MustCompile(p.DocInline),
			refInline: regexp.MustCompile(p.RefInline),
		}
	}
	return out
}

// alternation quotes keywords longest first so "nama supplier" is preferred over "supplier".
func alternation(keywords []string) ([]string, string) {
	kws := append([]string(nil), keywords...)
	sort.SliceStable(kws, func(i, j int) bool { return len(kws[i]) > len(kws[j]) })
	quoted := make([]string, len(kws))
	for i, kw := range kws {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return kws, `(?:` + strings.Join(quoted, "|") + `)`
}

func newRule(field fieldID, keywords []string, gap, value string) fieldRule {
	kws, alt := alternation(keywords)
	label := `(?i)(?:^|[^\pL\pN])` + alt
	return fieldRule{
		field:     field,
		keywords:  kws,
		value:     regexp.MustCompile(label + gap + value + `\s*$`),
		labelOnly: regexp.MustCompile(label + gapTight + `$`),
		nextValue: regexp.MustCompile(`^` + value + `\s*$`),
	}
}

// stopAt matches a label followed by its separator, e.g. " Tanggal:".
func stopAt(groups ...[]string) *regexp.Regexp {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	_, alt := alternation(all)
	return regexp.MustCompile(`(?i)\s` + alt + `\.?\s*[:\-]`)
}

func (r fieldRule) clean(v string) string {
	if r.stop != nil {
		if loc := r.stop.FindStringIndex(v); loc != nil {
			v = v[:loc[0]]
		}
	}
	return strings.TrimSpace(v)
}

func (r fieldRule) triggered(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// match returns the captured value for cell j of row i. A label standing alone
// takes its value from the next cell of the row, or else from the cell below it.
func (cp compiledProfile) match(r fieldRule, rows [][]string, i, j int) (string, bool) {
	cell := rows[i][j]
	if m := r.value.FindStringSubmatch(cell); m != nil {
		if v := r.clean(m[1]); v != "" {
			return v, true
		}
	}
	if !r.labelOnly.MatchString(cell) {
		return "", false
	}
	if j+1 < len(rows[i]) && !cp.isLabel(rows[i][j+1]) {
		if m := r.nextValue.FindStringSubmatch(rows[i][j+1]); m != nil {
			return r.clean(m[1]), true
		}
	}
	if i+1 >= len(rows) {
		return "", false
	}
	var below string
	switch next := rows[i+1]; {
	case len(next) == len(rows[i]):
		below = next[j]
	case len(next) == 1:
		below = next[0]
	default:
		return "", false
	}
	if m := r.nextValue.FindStringSubmatch(below); m != nil {
		return r.clean(m[1]), true
	}
	return "", false
}

func (cp compiledProfile) isLabel(cell string) bool {
	lower := strings.ToLower(cell)
	for _, r := range cp.rules {
		if r.triggered(lower) && r.labelOnly.MatchString(cell) {
			return true
		}
	}
	return false
}

// columns splits a line at column gaps.
func columns(line string) []string {
	var out []string
	for _, c := range reColumnGap.Split(line, -1) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Extractor is the deterministic tier: keyword rules for header fields plus the
// item grammars.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractFields never fails; absent fields are left empty.
func (e *Extractor) ExtractFields(ctx context.Context, docType constants.DocumentType, text string) (extract.Fields, error) {
	fields := ExtractHeader(docType, text)
	fields.Items = ParseItems(text)
	fields.Source = constants.SourceRules
	e.logger.Debug("rules.extract.ok",
		"doc_type", docType,
		"document_number", fields.DocumentNumber,
		"counterparty", fields.CounterpartyName,
		"reference_number", fields.ReferenceNumber,
		"items", len(fields.Items),
	)
	return fields, nil
}

// ExtractHeader scans text top to bottom and fills header fields. Each field keeps
// its first match. Labeled matches take precedence over inline numbers and the
// legal-entity heuristic.
func ExtractHeader(docType constants.DocumentType, text string) extract.Fields {
	cp, ok := compiled[docType]
	if !ok {
		cp = compiled[constants.GoodsReceipt]
	}
	lines := utils.SplitLines(text)
	rows := make([][]string, len(lines))
	for i, ln := range lines {
		rows[i] = columns(ln)
	}

	var found [fieldCount]string
	var set [fieldCount]bool
	var docInline, refInline, entity string

	for i, ln := range lines {
		_, isItem := ParseLine(ln)
		for j, cell := range rows[i] {
			lower := strings.ToLower(cell)
			for _, r := range cp.rules {
				if set[r.field] || !r.triggered(lower) {
					continue
				}
				if v, ok := cp.match(r, rows, i, j); ok {
					found[r.field], set[r.field] = v, true
				}
			}
			if entity == "" && !isItem {
				entity = strings.TrimRight(reLegalEntity.FindString(cell), " .,-")
			}
		}
		if docInline == "" {
			docInline = cp.docInline.FindString(ln)
		}
		if refInline == "" {
			refInline = cp.refInline.FindString(ln)
		}
	}

	out := extract.Fields{
		DocumentNumber:   found[fieldDocNumber],
		CounterpartyName: found[fieldCounterparty],
		ReferenceNumber:  found[fieldRefNumber],
		DocumentDate:     utils.NormalizeDate(found[fieldDate]),
	}
	if out.DocumentNumber == "" {
		out.DocumentNumber = docInline
	}
	if out.ReferenceNumber == "" && refInline != out.DocumentNumber {
		out.ReferenceNumber = refInline
	}
	if out.CounterpartyName == "" {
		out.CounterpartyName = entity
	}
	if n, err := strconv.Atoi(found[fieldTotalItems]); err == nil && n > 0 {
		out.TotalItems = n
	}
	return out
}
