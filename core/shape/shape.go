package shape

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/leofalp/mealscan/internal/utils"
	"github.com/leofalp/mealscan/nutrition"
)

const (
	defaultReason           = "No reason provided"
	defaultCompletionReason = "Complements the meal"
)

// Shape maps a validated Document into the strict FoodAnalysis.
//
// Every macro field is sanitized on its own, so a garbage protein value does
// not invalidate calories. Totals are taken from the document rather than
// recomputed from the items. The suggestion block is only shaped when
// expectsSuggestion is true and the document carries a suggestion object; its
// absence is not an error.
func Shape(doc Document, expectsSuggestion bool) nutrition.FoodAnalysis {
	root := doc.Root()

	rawItems := root.Get(FieldFoodItems).Array()
	items := make([]nutrition.FoodItem, 0, len(rawItems))
	for _, raw := range rawItems {
		items = append(items, foodItem(raw))
	}

	analysis := nutrition.FoodAnalysis{
		FoodItems:   items,
		TotalMacros: macroSet(root.Get(FieldTotalMacros)),
	}

	if expectsSuggestion {
		if raw := root.Get(FieldSuggestion); raw.IsObject() {
			analysis.Suggestion = suggestion(raw)
		}
	}

	return analysis
}

func foodItem(raw gjson.Result) nutrition.FoodItem {
	macros := raw.Get("macros")
	if !macros.IsObject() {
		// Some responses flatten the macros into the item itself.
		macros = raw
	}

	return nutrition.FoodItem{
		Name:     text(raw.Get("name"), nutrition.UnknownFood),
		Quantity: text(raw.Get("quantity"), nutrition.UnknownQuantity),
		Macros:   macroSet(macros),
	}
}

func macroSet(raw gjson.Result) nutrition.MacroSet {
	return nutrition.MacroSet{
		Calories: Number(raw.Get("calories").Value()),
		Protein:  Number(raw.Get("protein").Value()),
		Carbs:    Number(raw.Get("carbs").Value()),
		Fat:      Number(raw.Get("fat").Value()),
	}
}

func suggestion(raw gjson.Result) *nutrition.Suggestion {
	result := &nutrition.Suggestion{
		ShouldEat:    truthy(raw.Get("shouldEat")),
		Reason:       text(raw.Get("reason"), defaultReason),
		Alternatives: []string{},
	}

	if quantity := raw.Get("recommendedQuantity"); quantity.Exists() && quantity.Type != gjson.Null {
		result.RecommendedQuantity = utils.Ptr(quantity.String())
	}

	if alternatives := raw.Get("alternatives"); alternatives.IsArray() {
		for _, alternative := range alternatives.Array() {
			if s := strings.TrimSpace(alternative.String()); s != "" {
				result.Alternatives = append(result.Alternatives, s)
			}
		}
	}

	if complementary := raw.Get("complementaryFoods"); complementary.IsArray() {
		foods := complementary.Array()
		result.MealCompletionSuggestions = make([]nutrition.CompletionItem, 0, len(foods))
		for _, food := range foods {
			result.MealCompletionSuggestions = append(result.MealCompletionSuggestions, nutrition.CompletionItem{
				FoodItem: foodItem(food),
				Reason:   text(food.Get("reason"), defaultCompletionReason),
			})
		}
	}

	if complete := raw.Get("completeMealMacros"); complete.IsObject() {
		result.CompleteMealMacros = utils.Ptr(macroSet(complete))
	}

	return result
}

// text returns the trimmed string or number at raw, or fallback when it is
// missing, null, structured or blank.
func text(raw gjson.Result, fallback string) string {
	if raw.Type != gjson.String && raw.Type != gjson.Number {
		return fallback
	}
	if s := strings.TrimSpace(raw.String()); s != "" {
		return s
	}
	return fallback
}

// truthy coerces a JSON value to a boolean. Strings that spell a boolean
// ("false", "0", "no") keep that meaning; any other non-empty string is true.
func truthy(raw gjson.Result) bool {
	switch raw.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return raw.Num != 0
	case gjson.String:
		s := strings.ToLower(strings.TrimSpace(raw.Str))
		switch s {
		case "":
			return false
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return true
	case gjson.JSON:
		return true
	default:
		return false
	}
}
