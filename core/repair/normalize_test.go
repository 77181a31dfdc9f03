package repair

import "testing"

func TestNormalizeExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "addition",
			input: "1.01+2.03",
			want:  "3.04",
		},
		{
			name:  "subtraction",
			input: "5.5-1.2",
			want:  "4.30",
		},
		{
			name:  "subtraction clamps at zero",
			input: "1.2-5.5",
			want:  "0.00",
		},
		{
			name:  "multiplication",
			input: "2*3.5",
			want:  "7.00",
		},
		{
			name:  "division",
			input: "10/4",
			want:  "2.50",
		},
		{
			name:  "division by zero",
			input: "10/0",
			want:  "0.00",
		},
		{
			name:  "spaces around operator",
			input: `"calories": 120 + 80`,
			want:  `"calories": 200.00`,
		},
		{
			name:  "chained addition is folded",
			input: "1+2+3",
			want:  "6.00",
		},
		{
			name:  "addition folded before multiplication",
			input: "2*3+4",
			want:  "14.00",
		},
		{
			name:  "inside json object",
			input: `{"macros":{"calories":1.01+2.03,"protein":10*2}}`,
			want:  `{"macros":{"calories":3.04,"protein":20.00}}`,
		},
		{
			name:  "string literals untouched",
			input: `{"name":"3-4 almonds","quantity":"1/2 cup","date":"2024-01-05","fat":4-1}`,
			want:  `{"name":"3-4 almonds","quantity":"1/2 cup","date":"2024-01-05","fat":3.00}`,
		},
		{
			name:  "no operators is identity",
			input: `{"calories":120,"protein":4.5}`,
			want:  `{"calories":120,"protein":4.5}`,
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeExpressions(tt.input); got != tt.want {
				t.Errorf("NormalizeExpressions(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeExpressions_Idempotent(t *testing.T) {
	inputs := []string{
		"1.01+2.03",
		`{"calories":100/3,"fat":2*2}`,
		"plain text without numbers",
	}

	for _, input := range inputs {
		once := NormalizeExpressions(input)
		twice := NormalizeExpressions(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}
