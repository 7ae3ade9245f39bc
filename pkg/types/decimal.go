// pkg/types/decimal.go
package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a numeric driver value to an arbitrary precision decimal.
// Drivers disagree on how they surface numbers (int64, uint64, float64, or the
// textual []byte form), so every shape is accepted here.
func ToDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, unsupported(raw, TypeDecimal)
		}
		return *v, nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case *big.Int:
		return decimal.NewFromBigInt(v, 0), nil
	case string:
		return parseDecimal(v)
	case []byte:
		return parseDecimal(string(v))
	case bool:
		if v {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	}
	if i, ok := asInt64(raw); ok {
		return decimal.NewFromInt(i), nil
	}
	return decimal.Zero, unsupported(raw, TypeDecimal)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cannot read %q as %s", ErrUnsupportedConversion, s, TypeDecimal)
	}
	return d, nil
}

// IsNumeric reports whether v belongs to the integer, floating or decimal family.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, decimal.Decimal, *big.Int:
		return true
	}
	return false
}
