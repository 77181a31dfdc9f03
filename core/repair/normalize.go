package repair

import (
	"math"
	"regexp"
	"strconv"
)

// operand matches an unsigned decimal such as 12 or 3.75.
const operand = `(\d+(?:\.\d+)?)`

type operation struct {
	pattern *regexp.Regexp
	apply   func(a, b float64) float64
}

// Addition and subtraction are folded before multiplication and division.
// This is a textual heuristic, not an evaluator: there is no precedence and
// no support for parentheses.
var operations = []operation{
	{
		pattern: regexp.MustCompile(operand + `\s*\+\s*` + operand),
		apply:   func(a, b float64) float64 { return a + b },
	},
	{
		pattern: regexp.MustCompile(operand + `\s*-\s*` + operand),
		apply:   func(a, b float64) float64 { return math.Max(0, a-b) },
	},
	{
		pattern: regexp.MustCompile(operand + `\s*\*\s*` + operand),
		apply:   func(a, b float64) float64 { return a * b },
	},
	{
		pattern: regexp.MustCompile(operand + `\s*/\s*` + operand),
		apply: func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
	},
}

// NormalizeExpressions replaces every "<number> <op> <number>" occurrence with
// its result formatted to two fraction digits. Subtraction is clamped at zero
// and division by zero yields 0.00. Chains such as 1+2+3 are folded pairwise
// until no operator pattern remains.
//
// Text inside JSON string literals is never rewritten, so dates and ratios in
// names or quantities ("2024-01-05", "1/2 cup") survive untouched.
//
// Input without any operator pattern is returned unchanged.
func NormalizeExpressions(s string) string {
	return rewriteOutsideStrings(s, foldExpressions)
}

func foldExpressions(segment string) string {
	for {
		changed := false
		for _, op := range operations {
			next := op.pattern.ReplaceAllStringFunc(segment, func(match string) string {
				groups := op.pattern.FindStringSubmatch(match)
				a, errA := strconv.ParseFloat(groups[1], 64)
				b, errB := strconv.ParseFloat(groups[2], 64)
				if errA != nil || errB != nil {
					return match
				}
				return formatDecimal(op.apply(a, b))
			})
			if next != segment {
				segment = next
				changed = true
			}
		}
		if !changed {
			return segment
		}
	}
}

func formatDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
