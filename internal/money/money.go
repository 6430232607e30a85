// Package money converts monetary fields in ChartMogul API responses from
// integer minor units (cents) to decimal major units.
package money

import "strings"

// centsSuffix marks fields stored in minor units; it is stripped from the
// field name when the value is converted.
const centsSuffix = "_in_cents"

// centsFields are field names that hold cent amounts without carrying the
// _in_cents suffix (metrics endpoints report these in cents).
var centsFields = map[string]struct{}{
	"amount_in_cents":          {},
	"discount_amount_in_cents": {},
	"tax_amount_in_cents":      {},
	"mrr":                      {},
	"arr":                      {},
	"arpa":                     {},
	"asp":                      {},
	"ltv":                      {},
	"activity_mrr":             {},
	"activity_arr":             {},
	"activity_mrr_movement":    {},
	"activity-mrr":             {},
	"activity-arr":             {},
	"activity-mrr-movement":    {},
	"new-biz":                  {},
	"expansion":                {},
	"contraction":              {},
	"churn":                    {},
	"reactivation":             {},
}

// isCentsField reports whether a field name denotes a cent amount.
func isCentsField(name string) bool {
	if _, ok := centsFields[name]; ok {
		return true
	}
	return strings.HasSuffix(name, centsSuffix)
}

// asNumber returns v as a float64 if it is a numeric type. JSON decoding
// yields float64, but callers constructing values by hand may pass ints.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Normalize walks a decoded JSON value and divides every recognized monetary
// field by 100, stripping the _in_cents suffix from the field name where
// present. Non-numeric values pass through untouched regardless of name.
// The input is not modified; maps and slices are rebuilt.
//
// Normalize is not idempotent: applying it twice divides twice. Callers must
// apply it exactly once, at the serialization boundary.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			if _, ok := asNumber(item); ok && isCentsField(key) {
				continue
			}
			out[key] = Normalize(item)
		}
		// Monetary writes run last: when stripping _in_cents collides
		// with an existing plain key, the converted value wins.
		for key, item := range val {
			if n, ok := asNumber(item); ok && isCentsField(key) {
				out[strings.TrimSuffix(key, centsSuffix)] = n / 100
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}
