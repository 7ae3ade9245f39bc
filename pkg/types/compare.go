// pkg/types/compare.go
package types

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Compare orders two column values.
// Returns: -1 if a < b, 0 if equal, 1 if a > b
// NULL (nil) is considered less than any other value.
func Compare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	// Numbers of any width compare with each other
	if IsNumeric(a) && IsNumeric(b) {
		return compareNumeric(a, b)
	}

	// Text compares with text whether the driver surfaced it as string or bytes
	if as, ok := AsText(a); ok {
		if bs, ok := AsText(b); ok {
			return strings.Compare(as, bs)
		}
	}

	switch av := a.(type) {
	case []byte:
		if bv, ok := b.([]byte); ok {
			return bytes.Compare(av, bv)
		}
	case Blob:
		if bv, ok := b.(Blob); ok {
			return bytes.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}

	// For other types, compare string representation
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

// Equal reports whether two column values are equal under Compare.
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

// AsText returns v as a string when it holds character data.
func AsText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case Clob:
		return string(s), true
	case XML:
		return string(s), true
	}
	return "", false
}

func compareNumeric(a, b any) int {
	ai, aok := signedInt(a)
	bi, bok := signedInt(b)
	if aok && bok {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}

	af, aok := floatOf(a)
	bf, bok := floatOf(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}

	ad, errA := ToDecimal(a)
	bd, errB := ToDecimal(b)
	if errA != nil || errB != nil {
		return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
	}
	return ad.Cmp(bd)
}

func signedInt(v any) (int64, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64:
		return asInt64(v)
	}
	return 0, false
}

// floatOf accepts floats, and small integers when the other side is a float.
func floatOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case decimal.Decimal:
		return 0, false
	}
	if i, ok := signedInt(v); ok && i > -(1<<53) && i < 1<<53 {
		return float64(i), true
	}
	return 0, false
}
