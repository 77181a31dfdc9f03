package shape

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number coerces any decoded value into a finite, non-negative float64.
//
// Numbers are taken as-is. Text is stripped of everything except digits and
// '.', and its leading decimal is parsed, so "~120 kcal" becomes 120 and
// "1.2.3" becomes 1.2. Negative values clamp to 0. Anything else, including
// nil, booleans, objects, NaN and infinities, maps to 0. Number never panics.
func Number(v any) float64 {
	var f float64

	switch value := v.(type) {
	case nil:
		return 0
	case float64:
		f = value
	case float32:
		f = float64(value)
	case int:
		f = float64(value)
	case int32:
		f = float64(value)
	case int64:
		f = float64(value)
	case uint:
		f = float64(value)
	case uint32:
		f = float64(value)
	case uint64:
		f = float64(value)
	case json.Number:
		f = parseText(string(value))
	case string:
		f = parseText(value)
	case []byte:
		f = parseText(string(value))
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// parseText keeps digits and dots, then parses the longest leading decimal.
func parseText(s string) float64 {
	var kept strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			kept.WriteRune(r)
		}
	}

	digits := kept.String()
	end := 0
	seenDot := false
	seenDigit := false
	for end < len(digits) {
		c := digits[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			seenDigit = true
		}
		end++
	}
	if !seenDigit {
		return 0
	}

	f, err := strconv.ParseFloat(digits[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
