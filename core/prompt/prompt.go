// Package prompt builds the analysis prompts sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/leofalp/mealscan/nutrition"
)

// Input describes one analysis request.
type Input struct {
	Mode nutrition.Mode

	// Description is the free-text meal description used in text mode.
	Description string

	FoodName string
	Quantity string

	// Context, when set, asks the model for an eat/don't-eat suggestion.
	Context *nutrition.AnalysisContext
}

const schema = `Respond with a single JSON object in exactly this format:
{
  "foodItems": [
    {"name": "food name", "quantity": "portion with units", "macros": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}}
  ],
  "totalMacros": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}%s
}
Calories are kcal; protein, carbs and fat are grams. Every number must be a plain literal.`

const suggestionSchema = `,
  "suggestion": {
    "shouldEat": true,
    "reason": "why",
    "recommendedQuantity": "portion the user should eat",
    "alternatives": ["healthier alternative"],
    "complementaryFoods": [
      {"name": "food", "quantity": "portion", "macros": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}, "reason": "why it completes the meal"}
    ],
    "completeMealMacros": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}
  }`

// Build renders the prompt for in.
func Build(in Input) string {
	var b strings.Builder

	b.WriteString("You are a nutrition expert estimating the macronutrients of a meal.\n\n")

	switch in.Mode {
	case nutrition.ModeImage:
		b.WriteString("Identify every food visible in the attached photo and estimate its portion and macros.\n")
	default:
		fmt.Fprintf(&b, "Analyse this meal and estimate the portion and macros of every food in it: %q\n", strings.TrimSpace(in.Description))
	}

	if in.FoodName != "" {
		fmt.Fprintf(&b, "The user says the food is %q; use that name.\n", in.FoodName)
	}
	if in.Quantity != "" {
		fmt.Fprintf(&b, "The user says the quantity is %q; base the macros on it.\n", in.Quantity)
	}

	extra := ""
	if ctx := in.Context; ctx != nil {
		extra = suggestionSchema
		b.WriteString("\nAlso advise whether the user should eat this meal given their day so far.\n")
		if info := strings.TrimSpace(ctx.UserInfo); info != "" {
			fmt.Fprintf(&b, "About the user: %s\n", info)
		}
		writeMacros(&b, "Daily target", ctx.TotalMacros)
		writeMacros(&b, "Consumed today", ctx.ConsumedMacros)
		writeMacros(&b, "Remaining", nutrition.Remaining(ctx.TotalMacros, ctx.ConsumedMacros))
		b.WriteString("Suggest complementary foods that would round out the meal within the remaining budget.\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, schema, extra)
	return b.String()
}

func writeMacros(b *strings.Builder, label string, m nutrition.MacroSet) {
	fmt.Fprintf(b, "%s: %.0f kcal, %.1f g protein, %.1f g carbs, %.1f g fat\n", label, m.Calories, m.Protein, m.Carbs, m.Fat)
}
