// Package nutrition computes daily calorie and macro targets from a user
// profile using the Mifflin-St Jeor equation.
package nutrition

import (
	"math"
)

const minimumCalories = 1200

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very-active": 1.9,
}

var goalAdjustments = map[string]float64{
	"lose-weight":     -500,
	"maintain-weight": 0,
	"gain-weight":     300,
	"build-muscle":    300,
	"improve-health":  0,
}

type Profile struct {
	Age           int
	Gender        string
	Height        float64 // cm
	Weight        float64 // kg
	ActivityLevel string
	Goal          string
}

type Targets struct {
	Calories int
	Protein  int // grams
	Carbs    int // grams
	Fat      int // grams
}

// CalculateTargetCalories estimates daily calorie needs: BMR scaled by the
// activity multiplier, adjusted for the goal, floored at 1200 kcal.
func CalculateTargetCalories(age int, gender string, height, weight float64, activityLevel, goal string) int {
	// Mifflin-St Jeor: BMR = 10*weight + 6.25*height - 5*age + s
	genderFactor := -161.0
	if gender == "male" {
		genderFactor = 5
	}
	bmr := 10*weight + 6.25*height - 5*float64(age) + genderFactor

	multiplier, ok := activityMultipliers[activityLevel]
	if !ok {
		multiplier = 1.2
	}
	tdee := bmr * multiplier

	target := tdee + goalAdjustments[goal]

	return int(math.Max(math.Round(target), minimumCalories))
}

// CalculateTargetMacros splits the calorie target into protein/carbs/fat.
// Protein is weight-based (2.2 g/kg for muscle building, 1.8 otherwise), fat
// takes 25% of calories, carbs take the remainder; each has a floor.
func CalculateTargetMacros(targetCalories int, weight float64, goal string) (protein, carbs, fat int) {
	proteinPerKg := 1.8
	if goal == "build-muscle" {
		proteinPerKg = 2.2
	}
	protein = int(math.Round(weight * proteinPerKg))

	fat = int(math.Round(float64(targetCalories) * 0.25 / 9))

	// Protein 4 kcal/g, fat 9 kcal/g, carbs get the leftover at 4 kcal/g.
	carbCalories := targetCalories - protein*4 - fat*9
	carbs = int(math.Round(float64(carbCalories) / 4))

	if protein < 50 {
		protein = 50
	}
	if carbs < 100 {
		carbs = 100
	}
	if fat < 30 {
		fat = 30
	}
	return protein, carbs, fat
}

// CalculateTargets computes the full daily target set for a profile.
func CalculateTargets(profile Profile) Targets {
	calories := CalculateTargetCalories(
		profile.Age,
		profile.Gender,
		profile.Height,
		profile.Weight,
		profile.ActivityLevel,
		profile.Goal,
	)
	protein, carbs, fat := CalculateTargetMacros(calories, profile.Weight, profile.Goal)

	return Targets{
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
}
