package normalize

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney coerces an extracted value into a non-negative decimal.
// Negative, non-finite, or unparseable values collapse to zero with
// flagged=true so the record can be marked rather than rejected.
func ParseMoney(v any) (amount decimal.Decimal, flagged bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, true
		}
		d := decimal.NewFromFloat(t)
		if d.IsNegative() {
			return decimal.Zero, true
		}
		return d, false
	case int:
		if t < 0 {
			return decimal.Zero, true
		}
		return decimal.NewFromInt(int64(t)), false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, false
		}
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, true
		}
		if d.IsNegative() {
			return decimal.Zero, true
		}
		return d, false
	default:
		return decimal.Zero, true
	}
}

// Cents converts an amount to integer cent precision for equality checks.
func Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}
