package reconcile

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// identifier normalizes a join key. Numeric ids compare equal to their
// plain decimal text, so 1001 and "1001" match.
func identifier(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}

// number converts a cell value to a decimal. Float input goes through its
// shortest round-trip representation, so 33.335 becomes exactly 33.335.
// NaN, infinities and text that is not a whole number ("12abc") are
// unparseable.
func number(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// strip removes binary floating point noise by rounding to 15 significant
// digits, e.g. 0.1+0.2 becomes 0.3.
func strip(d decimal.Decimal) decimal.Decimal {
	f, _ := d.Float64()
	s, err := decimal.NewFromString(strconv.FormatFloat(f, 'g', 15, 64))
	if err != nil {
		return d
	}
	return s
}
