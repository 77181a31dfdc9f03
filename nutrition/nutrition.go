package nutrition

// Placeholder values used when the model omits a name or quantity.
const (
	UnknownFood     = "Unknown food"
	UnknownQuantity = "Unknown quantity"
)

// Mode tells the pipeline which request shape the model was originally called with.
type Mode string

const (
	ModeImage Mode = "image" // Prompt plus a photo of the meal
	ModeText  Mode = "text"  // Prompt describing the meal in words
)

// MacroSet is the calories/protein/carbs/fat quadruple. Protein, carbs and fat
// are grams, calories are kcal. After shaping every field is finite and >= 0.
type MacroSet struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// IsZero reports whether all four fields are zero.
func (m MacroSet) IsZero() bool {
	return m == MacroSet{}
}

// Add returns the field-wise sum of m and other.
func (m MacroSet) Add(other MacroSet) MacroSet {
	return MacroSet{
		Calories: m.Calories + other.Calories,
		Protein:  m.Protein + other.Protein,
		Carbs:    m.Carbs + other.Carbs,
		Fat:      m.Fat + other.Fat,
	}
}

// Remaining returns target minus consumed, floored at zero per field.
func Remaining(target, consumed MacroSet) MacroSet {
	floor := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return MacroSet{
		Calories: floor(target.Calories - consumed.Calories),
		Protein:  floor(target.Protein - consumed.Protein),
		Carbs:    floor(target.Carbs - consumed.Carbs),
		Fat:      floor(target.Fat - consumed.Fat),
	}
}

// FoodItem is a single recognised food with its estimated macros.
type FoodItem struct {
	Name     string   `json:"name"`
	Quantity string   `json:"quantity"`
	Macros   MacroSet `json:"macros"`
}

// CompletionItem is a food the model proposes to round out the meal.
type CompletionItem struct {
	FoodItem
	Reason string `json:"reason"`
}

// Suggestion is the advice block produced when the caller supplied an AnalysisContext.
type Suggestion struct {
	ShouldEat                 bool             `json:"shouldEat"`
	Reason                    string           `json:"reason"`
	RecommendedQuantity       *string          `json:"recommendedQuantity,omitempty"`
	Alternatives              []string         `json:"alternatives"`
	MealCompletionSuggestions []CompletionItem `json:"mealCompletionSuggestions,omitempty"`
	CompleteMealMacros        *MacroSet        `json:"completeMealMacros,omitempty"`
}

// FoodAnalysis is the strongly-typed result of one extraction.
// FoodItems is never empty on the fallback path.
type FoodAnalysis struct {
	FoodItems   []FoodItem  `json:"foodItems"`
	TotalMacros MacroSet    `json:"totalMacros"`
	Suggestion  *Suggestion `json:"suggestion,omitempty"`
}

// AnalysisContext is the caller's daily picture. The pipeline only uses its
// presence to decide whether a suggestion block is expected.
type AnalysisContext struct {
	UserInfo       string   `json:"userInfo"`
	TotalMacros    MacroSet `json:"totalMacros"`
	ConsumedMacros MacroSet `json:"consumedMacros"`
}
