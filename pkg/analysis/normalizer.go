package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"NutriSnap-Backend/domain"
)

// NormalizeAnalysis turns the raw completion text into validated food items.
// A code-fence wrapper anchored at the start/end of the text is stripped,
// the remainder must parse as a JSON object with a "foods" array, malformed
// entries are dropped silently, and macro values are clamped to >= 0 and
// rounded to one decimal place. An empty result is not an error.
func NormalizeAnalysis(raw string) ([]domain.FoodItem, error) {
	cleaned := stripCodeFence(raw)

	var payload struct {
		Foods *json.RawMessage `json:"foods"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedAIResponse, err)
	}

	if payload.Foods == nil {
		return nil, domain.ErrMissingFoodsField
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(*payload.Foods, &entries); err != nil {
		return nil, domain.ErrMissingFoodsField
	}

	foods := make([]domain.FoodItem, 0, len(entries))
	for _, entry := range entries {
		item, ok := validateEntry(entry)
		if !ok {
			continue
		}
		foods = append(foods, item)
	}

	return foods, nil
}

// validateEntry accepts only objects whose name/quantity are strings and
// whose four macro fields are numbers, matching the prompt's instruction to
// omit items that cannot be identified clearly.
func validateEntry(entry json.RawMessage) (domain.FoodItem, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(entry, &fields); err != nil {
		return domain.FoodItem{}, false
	}

	name, ok := fields["name"].(string)
	if !ok {
		return domain.FoodItem{}, false
	}
	quantity, ok := fields["quantity"].(string)
	if !ok {
		return domain.FoodItem{}, false
	}

	macros := make(map[string]float64, 4)
	for _, key := range []string{"calories", "protein", "carbs", "fats"} {
		value, ok := fields[key].(float64)
		if !ok {
			return domain.FoodItem{}, false
		}
		macros[key] = clampRound(value)
	}

	return domain.FoodItem{
		Name:     name,
		Quantity: quantity,
		Calories: macros["calories"],
		Protein:  macros["protein"],
		Carbs:    macros["carbs"],
		Fats:     macros["fats"],
	}, true
}

func clampRound(v float64) float64 {
	return math.Round(math.Max(0, v)*10) / 10
}

// stripCodeFence removes one ```json ... ``` or ``` ... ``` wrapper anchored
// at the very start and end of the trimmed text. Fences elsewhere stay put;
// leading prose before a fenced block is deliberately not recovered.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}

	return strings.TrimSpace(cleaned)
}
