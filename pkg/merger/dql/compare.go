// pkg/merger/dql/compare.go
package dql

import (
	"strings"

	"golang.org/x/text/cases"

	"shardmerge/pkg/statement"
	"shardmerge/pkg/types"
)

// comparator orders rows on a list of order items. fold marks the items
// whose text is compared case-insensitively.
type comparator struct {
	items  []statement.OrderByItem
	fold   []bool
	folder cases.Caser
}

func newComparator(items []statement.OrderByItem, fold []bool) *comparator {
	return &comparator{items: items, fold: fold, folder: cases.Fold()}
}

// compareKeys compares two keys holding one value per item. The first
// differing item decides.
func (c *comparator) compareKeys(a, b []any) int {
	for i, item := range c.items {
		if r := c.compareValue(a[i], b[i], item, c.folds(i)); r != 0 {
			return r
		}
	}
	return 0
}

// compareRows compares two full rows on the item columns.
func (c *comparator) compareRows(a, b []any) int {
	for i, item := range c.items {
		if r := c.compareValue(a[item.Index-1], b[item.Index-1], item, c.folds(i)); r != 0 {
			return r
		}
	}
	return 0
}

func (c *comparator) folds(i int) bool {
	return i < len(c.fold) && c.fold[i]
}

func (c *comparator) compareValue(a, b any, item statement.OrderByItem, fold bool) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case (a == nil) == item.NullsFirst():
			return -1
		default:
			return 1
		}
	}

	var r int
	if fold {
		as, aok := types.AsText(a)
		bs, bok := types.AsText(b)
		if aok && bok {
			r = strings.Compare(c.folder.String(as), c.folder.String(bs))
		} else {
			r = types.Compare(a, b)
		}
	} else {
		r = types.Compare(a, b)
	}

	if item.Direction == statement.OrderDesc {
		return -r
	}
	return r
}

// keyOf reads the item columns out of a full row.
func keyOf(row []any, items []statement.OrderByItem) []any {
	key := make([]any, len(items))
	for i, item := range items {
		key[i] = row[item.Index-1]
	}
	return key
}
