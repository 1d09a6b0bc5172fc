package service

import (
	"math"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

// CalorieGoals carries the user's metabolic baseline. Values are rounded for
// display; the underlying math stays in floating point until here.
type CalorieGoals struct {
	BMR    int `json:"bmr"`
	TDEE   int `json:"tdee"`
	Target int `json:"target"`
}

type MacroGoals struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

var activityFactors = map[string]float64{
	internal.ActivitySedentary: 1.2,
	internal.ActivityLight:     1.375,
	internal.ActivityModerate:  1.55,
	internal.ActivityIntense:   1.725,
	internal.ActivityExtreme:   1.9,
}

// CalculateBMR uses Mifflin-St Jeor. An incomplete profile (missing weight,
// height, age or sex) yields 0 rather than an error so summary views can
// render before onboarding finishes.
func CalculateBMR(user *internal.User) float64 {
	if user == nil || user.Weight <= 0 || user.Height <= 0 || user.Age <= 0 || user.Sex == "" {
		return 0
	}
	base := 10*user.Weight + 6.25*user.Height - 5*float64(user.Age)
	if user.Sex == internal.SexMale {
		return base + 5
	}
	return base - 161
}

func CalculateTDEE(user *internal.User) float64 {
	factor, ok := activityFactors[user.ActivityLevel]
	if !ok {
		factor = activityFactors[internal.ActivitySedentary]
	}
	return CalculateBMR(user) * factor
}

func CalculateCalorieGoals(user *internal.User) CalorieGoals {
	bmr := CalculateBMR(user)
	tdee := CalculateTDEE(user)

	target := tdee
	switch user.Goal {
	case internal.GoalLose:
		target = tdee - 500
	case internal.GoalGain:
		target = tdee + 300
	}

	return CalorieGoals{
		BMR:    int(math.Round(bmr)),
		TDEE:   int(math.Round(tdee)),
		Target: int(math.Round(target)),
	}
}

// CalculateMacroGoals splits the calorie target into grams of protein, fat
// and carbs using the 4/9/4 kcal-per-gram rule. Carbs take whatever calories
// remain after protein and fat, which can go negative on aggressive deficits;
// that is reported as-is so the identity protein*4+fat*9+carbs*4 ~= target
// keeps holding.
func CalculateMacroGoals(user *internal.User) MacroGoals {
	target := CalculateCalorieGoals(user).Target

	proteinMultiplier := 2.0
	fatPercent := 0.25
	switch user.Goal {
	case internal.GoalGain:
		proteinMultiplier = 2.2
		fatPercent = 0.30
	case internal.GoalLose:
		proteinMultiplier = 2.4
		fatPercent = 0.25
	}

	protein := int(math.Round(user.Weight * proteinMultiplier))
	fat := int(math.Round(float64(target) * fatPercent / 9))
	carbs := int(math.Round(float64(target-(protein*4+fat*9)) / 4))

	return MacroGoals{Protein: protein, Carbs: carbs, Fat: fat}
}
