package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/document-intake/constants"
	"github.com/joseph-ayodele/document-intake/internal/entity"
	"github.com/joseph-ayodele/document-intake/internal/utils"
)

// grammar is one item-row shape: how to find its ordinal marker among the
// whitespace tokens of a line. Everything after the marker is partitioned the
// same way for every grammar.
type grammar struct {
	name   string
	marker *regexp.Regexp
	// anchored grammars only look at the first token
	anchored bool
}

// itemGrammars is tried in order; the first grammar whose marker is present wins.
var itemGrammars = []grammar{
	{name: "hash", marker: regexp.MustCompile(`^#(\d+)$`)},
	{name: "dot", marker: regexp.MustCompile(`^(\d+)\.$`), anchored: true},
}

var unitWords = map[string]string{
	"pcs": "pcs", "pc": "pcs", "buah": "buah", "bh": "buah",
	"unit": "unit", "units": "unit",
	"box": "box", "dus": "dus", "karton": "karton", "pack": "pack", "pak": "pack",
	"lusin": "lusin", "rim": "rim", "roll": "roll", "lembar": "lembar", "lbr": "lembar",
	"kg": "kg", "gr": "gr", "ltr": "ltr", "liter": "ltr",
}

func lookupUnit(tok string) (string, bool) {
	u, ok := unitWords[strings.ToLower(strings.TrimSuffix(tok, "."))]
	return u, ok
}

// ItemCode formats an ordinal as a line item code.
func ItemCode(n int) string {
	return fmt.Sprintf("ITEM-%03d", n)
}

// ParseLine parses one item-table row. It returns false for lines that carry no
// ordinal marker, have no description, or end in fewer than two numeric tokens.
func ParseLine(line string) (entity.LineItem, bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return entity.LineItem{}, false
	}
	for _, g := range itemGrammars {
		idx, n, ok := g.locate(tokens)
		if !ok {
			continue
		}
		// grammars are exclusive: a line carrying this marker never falls through
		return partition(n, tokens[idx+1:])
	}
	return entity.LineItem{}, false
}

// ParseItems applies ParseLine to every line of text and keeps the accepted rows.
func ParseItems(text string) []entity.LineItem {
	var items []entity.LineItem
	for _, ln := range utils.SplitLines(text) {
		if item, ok := ParseLine(ln); ok {
			items = append(items, item)
		}
	}
	return items
}

func (g grammar) locate(tokens []string) (int, int, bool) {
	limit := len(tokens)
	if g.anchored {
		limit = 1
	}
	for i := 0; i < limit; i++ {
		m := g.marker.FindStringSubmatch(tokens[i])
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, 0, false
		}
		return i, n, true
	}
	return 0, 0, false
}

// partition splits the tokens after the marker into description words and the
// trailing numeric run. The last three tokens of the run are quantity, unit price
// and total; earlier numeric tokens belong to the description ("INSPIRON 15").
// A unit word may sit between the quantity and the price.
func partition(n int, rest []string) (entity.LineItem, bool) {
	start := len(rest)
	for start > 0 && utils.IsNumericToken(rest[start-1]) {
		start--
	}
	run := rest[start:]
	desc := rest[:start]
	unit := constants.DefaultUnit

	// "qty unit price total": the unit word splits the run, the quantity sits before it
	if len(run) < 3 && len(desc) > 2 && utils.IsNumericToken(desc[len(desc)-2]) {
		if u, ok := lookupUnit(desc[len(desc)-1]); ok {
			unit = u
			run = append([]string{desc[len(desc)-2]}, run...)
			desc = desc[:len(desc)-2]
		}
	}
	if len(run) < 2 {
		return entity.LineItem{}, false
	}
	if len(run) > 3 {
		desc = rest[:len(rest)-3]
		run = run[len(run)-3:]
	}

	if unit == constants.DefaultUnit && len(desc) > 1 {
		if u, ok := lookupUnit(desc[len(desc)-1]); ok {
			unit = u
			desc = desc[:len(desc)-1]
		}
	}
	description := strings.TrimSpace(strings.Join(desc, " "))
	if description == "" {
		return entity.LineItem{}, false
	}

	qtyDec, ok := utils.ParseAmount(run[0])
	if !ok || !qtyDec.IsInteger() || qtyDec.GreaterThan(decimal.NewFromInt(1<<31-1)) {
		return entity.LineItem{}, false
	}
	price, ok := utils.ParseAmount(run[1])
	if !ok {
		return entity.LineItem{}, false
	}

	item := entity.LineItem{
		ItemCode:    ItemCode(n),
		Description: description,
		Quantity:    int(qtyDec.IntPart()),
		Unit:        unit,
		UnitPrice:   price,
		Status:      constants.ItemStatusReceived,
	}
	if len(run) == 3 {
		total, ok := utils.ParseAmount(run[2])
		if !ok {
			return entity.LineItem{}, false
		}
		item.Total = total
	} else {
		item.Total = item.ComputedTotal()
	}
	return item, true
}
