package prompt

import (
	"strings"
	"testing"

	"github.com/leofalp/mealscan/nutrition"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		input     Input
		wantIn    []string
		wantNotIn []string
	}{
		{
			name:      "image mode",
			input:     Input{Mode: nutrition.ModeImage},
			wantIn:    []string{"attached photo", `"foodItems"`, `"totalMacros"`},
			wantNotIn: []string{`"suggestion"`, "The user says"},
		},
		{
			name:      "text mode",
			input:     Input{Mode: nutrition.ModeText, Description: "  two eggs and toast "},
			wantIn:    []string{`"two eggs and toast"`},
			wantNotIn: []string{"attached photo"},
		},
		{
			name:   "food name and quantity",
			input:  Input{Mode: nutrition.ModeImage, FoodName: "lasagna", Quantity: "300g"},
			wantIn: []string{`food is "lasagna"`, `quantity is "300g"`},
		},
		{
			name: "analysis context",
			input: Input{
				Mode: nutrition.ModeImage,
				Context: &nutrition.AnalysisContext{
					UserInfo:       "30 year old cyclist",
					TotalMacros:    nutrition.MacroSet{Calories: 2500, Protein: 150, Carbs: 300, Fat: 80},
					ConsumedMacros: nutrition.MacroSet{Calories: 1000, Protein: 60, Carbs: 120, Fat: 30},
				},
			},
			wantIn: []string{
				`"suggestion"`,
				`"complementaryFoods"`,
				"About the user: 30 year old cyclist",
				"Daily target: 2500 kcal",
				"Remaining: 1500 kcal, 90.0 g protein, 180.0 g carbs, 50.0 g fat",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.input)
			for _, want := range tt.wantIn {
				if !strings.Contains(got, want) {
					t.Errorf("prompt missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.wantNotIn {
				if strings.Contains(got, unwanted) {
					t.Errorf("prompt should not contain %q:\n%s", unwanted, got)
				}
			}
		})
	}
}
