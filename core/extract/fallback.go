package extract

import "github.com/leofalp/mealscan/nutrition"

const (
	// FailedFoodName names the single placeholder item of the fallback.
	FailedFoodName = "Analysis failed"

	fallbackReason = "We could not analyse this meal after several attempts, so no recommendation can be made."
)

var fallbackAlternatives = []string{
	"Try taking a clearer photo with better lighting",
	"Enter the food details manually",
	"Contact support if the problem persists",
}

// Fallback returns the fixed degraded analysis. A suggestion explaining the
// failure is included only when one was expected.
func Fallback(expectsSuggestion bool) nutrition.FoodAnalysis {
	analysis := nutrition.FoodAnalysis{
		FoodItems: []nutrition.FoodItem{{
			Name:     FailedFoodName,
			Quantity: nutrition.UnknownQuantity,
		}},
	}
	if expectsSuggestion {
		analysis.Suggestion = &nutrition.Suggestion{
			ShouldEat:    false,
			Reason:       fallbackReason,
			Alternatives: append([]string(nil), fallbackAlternatives...),
		}
	}
	return analysis
}
