package extract

import (
	"fmt"
	"strings"
)

// CorrectiveDirective is appended to the original prompt on every
// regeneration.
const CorrectiveDirective = `IMPORTANT: your previous answer could not be parsed as JSON.
Reply with exactly one JSON object and nothing else:
- no text, markdown or code fences before or after the object;
- no arithmetic expressions, write every number as a computed literal (3.04, not 1.01+2.03);
- wrap every key in double quotes;
- no trailing commas before } or ].`

func regenerationPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(req.Prompt, "\n"))
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	b.WriteString(CorrectiveDirective)

	if req.FoodName != "" {
		fmt.Fprintf(&b, "\nThe food is %q.", req.FoodName)
	}
	if req.Quantity != "" {
		fmt.Fprintf(&b, "\nThe quantity is %q.", req.Quantity)
	}
	return b.String()
}
