package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDocumentClone(t *testing.T) {
	d := Document{ID: "a", Items: []LineItem{{ItemCode: "ITEM-001"}, {ItemCode: "ITEM-002"}}}
	c := d.Clone()
	c.Items[0].ItemCode = "changed"

	assert.Equal(t, "ITEM-001", d.Items[0].ItemCode)
	assert.Equal(t, 1, d.ItemIndex("ITEM-002"))
	assert.Equal(t, -1, d.ItemIndex("ITEM-003"))
	assert.Nil(t, Document{}.Clone().Items)
}

func TestComputedTotal(t *testing.T) {
	li := LineItem{Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")}
	assert.Equal(t, "37.5", li.ComputedTotal().String())
}
