package invoice

import (
	"strconv"
	"strings"
)

var separatorStripper = strings.NewReplacer(",", "", ".", "", " ", "")

// ParseAmount converts a heterogeneous value into a monetary float64. Numbers
// pass through unchanged; strings are stripped of comma, period and space
// (all used as thousands separators on Vietnamese invoices) before parsing.
// Any failure yields 0; the parser never errors.
//
// Stripping "." makes "1.500" (one thousand five hundred) indistinguishable
// from "1.5"; callers must not rely on sub-unit precision.
func ParseAmount(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := separatorStripper.Replace(strings.TrimSpace(t))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
