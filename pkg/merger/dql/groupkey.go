// pkg/merger/dql/groupkey.go
package dql

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"shardmerge/pkg/types"
)

// groupKeyEncoder turns the group-by values of a row into a map key.
// Values equal under types.Compare encode identically: numbers of any width
// are normalized through decimal, text and bytes share one form, and folded
// columns are case-folded first.
type groupKeyEncoder struct {
	fold   []bool
	folder cases.Caser
	sb     strings.Builder
}

func newGroupKeyEncoder(fold []bool) *groupKeyEncoder {
	return &groupKeyEncoder{fold: fold, folder: cases.Fold()}
}

func (e *groupKeyEncoder) encode(values []any) string {
	e.sb.Reset()
	for i, v := range values {
		var tag byte
		var s string
		switch {
		case v == nil:
			tag = 'n'
		case types.IsNumeric(v):
			tag = 'd'
			if d, err := types.ToDecimal(v); err == nil {
				s = d.String()
			} else {
				s = stringOf(v)
			}
		default:
			if text, ok := types.AsText(v); ok {
				tag = 's'
				s = text
				if i < len(e.fold) && e.fold[i] {
					s = e.folder.String(s)
				}
			} else if t, ok := v.(time.Time); ok {
				tag = 't'
				s = t.UTC().Format(time.RFC3339Nano)
			} else {
				tag = 'o'
				s = stringOf(v)
			}
		}
		e.sb.WriteByte(tag)
		e.sb.WriteString(strconv.Itoa(len(s)))
		e.sb.WriteByte(':')
		e.sb.WriteString(s)
	}
	return e.sb.String()
}

func stringOf(v any) string {
	s, _ := types.Convert(v, types.TypeString)
	if str, ok := s.(string); ok {
		return str
	}
	return ""
}
