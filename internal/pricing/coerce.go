package pricing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ToNumber converts a form value to a float64. Numbers pass through, strings
// are trimmed and parsed. Anything else, including booleans and non-finite
// values, becomes 0.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case nil, bool:
		return 0
	case string:
		v = strings.TrimSpace(t)
		if v == "" {
			return 0
		}
	case json.Number:
		v = strings.TrimSpace(t.String())
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FormatAmount renders x with exactly two decimal places.
func FormatAmount(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(Round2(x)).StringFixed(2)
}

// FormatRate renders an input rate without losing precision, padding to
// two decimal places when it has fewer.
func FormatRate(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0.00"
	}
	d := decimal.NewFromFloat(x)
	if d.Exponent() < -2 {
		return d.String()
	}
	return d.StringFixed(2)
}
