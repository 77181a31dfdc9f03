package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestJSONToString(t *testing.T) {
	input := map[string]int{"calories": 105}

	if got := JSONToString(input); got != `{"calories":105}` {
		t.Errorf("compact = %q", got)
	}
	if got := JSONToString(input, true); !strings.Contains(got, "\n  \"calories\": 105") {
		t.Errorf("indented = %q", got)
	}
	if got := JSONToString(make(chan int)); !strings.HasPrefix(got, `{"error"`) {
		t.Errorf("expected error JSON for unsupported type, got %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "shorter than limit", input: "abc", maxLen: 5, want: "abc"},
		{name: "exact limit", input: "abcde", maxLen: 5, want: "abcde"},
		{name: "truncated", input: "abcdefgh", maxLen: 3, want: "abc... (truncated, total: 8 chars)"},
		{name: "non-positive uses default", input: "short", maxLen: 0, want: "short"},
		{name: "multi-byte rune kept whole", input: "café au lait", maxLen: 4, want: "caf... (truncated, total: 13 chars)"},
		{name: "cut after multi-byte rune", input: "café au lait", maxLen: 5, want: "café... (truncated, total: 13 chars)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString() = %q, want %q", got, tt.want)
			}
		})
	}

	for _, input := range []string{"éééé", "🍌🍌", "a日本"} {
		for maxLen := 1; maxLen < len(input); maxLen++ {
			if got := TruncateString(input, maxLen); !utf8.ValidString(got) {
				t.Errorf("TruncateString(%q, %d) = %q, not valid UTF-8", input, maxLen, got)
			}
		}
	}

	long := strings.Repeat("x", DefaultMaxStringLength+10)
	if got := TruncateString(long, -1); !strings.HasSuffix(got, "(truncated, total: 510 chars)") {
		t.Errorf("expected default truncation, got suffix %q", got[len(got)-40:])
	}
}
