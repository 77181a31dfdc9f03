package repair

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var (
	trailingCommaPattern = regexp.MustCompile(`(?:,\s*)+([}\]])`)
	controlCharPattern   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)(\s*:)`)
)

// maxRepairRounds bounds the fixed-point loop in Repair. Every rewrite either
// shrinks the text or quotes a bare key, so real inputs settle in two or three
// rounds.
const maxRepairRounds = 16

// Repair applies the structural rewrites below, in order, until the text stops
// changing:
//
//  1. drop trailing commas before } or ]
//  2. strip control characters (tab, newline and carriage return are kept)
//  3. quote bare identifier keys that follow { or ,
//  4. unescape \' sequences whose backslash is not itself escaped
//  5. keep only the span from the first { to the last }
//
// Rewrites 1 and 3 never touch the inside of string literals. If the text has
// no {...} span the last step leaves it alone and decoding fails explicitly.
// Well-formed JSON is returned unchanged and Repair(Repair(x)) == Repair(x).
func Repair(s string) string {
	for range maxRepairRounds {
		next := repairOnce(s)
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func repairOnce(s string) string {
	s = rewriteOutsideStrings(s, func(segment string) string {
		return trailingCommaPattern.ReplaceAllString(segment, "$1")
	})
	s = controlCharPattern.ReplaceAllString(s, "")
	s = rewriteOutsideStrings(s, func(segment string) string {
		return bareKeyPattern.ReplaceAllString(segment, `$1"$2"$3`)
	})
	s = unescapeSingleQuotes(s)
	return isolateObject(s)
}

// unescapeSingleQuotes drops the backslash of \' when it ends an odd run of
// backslashes. An even run is a sequence of escaped backslashes and is kept.
func unescapeSingleQuotes(s string) string {
	if !strings.Contains(s, `\'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	run := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			run++
			continue
		case c == '\'' && run%2 == 1:
			run--
		}
		b.WriteString(strings.Repeat(`\`, run))
		run = 0
		b.WriteByte(c)
	}
	b.WriteString(strings.Repeat(`\`, run))
	return b.String()
}

// isolateObject returns the substring from the first { to the last },
// discarding any prose the model wrapped around the object.
func isolateObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

// DeepRepair runs Repair and then hands the result to jsonrepair, which can
// close unterminated strings and brackets, convert single quotes and fix the
// other defects the cheap rewrites do not cover.
func DeepRepair(s string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(Repair(s))
	if err != nil {
		return "", fmt.Errorf("deep repair: %w", err)
	}
	return repaired, nil
}
