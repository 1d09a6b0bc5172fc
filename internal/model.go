package internal

import "time"

// Enum values are stored as plain strings, matching what the client sends.
// Unknown values are tolerated by the calculators (they fall back to the
// neutral option) so legacy rows never break a read path.
const (
	SexMale   = "masculino"
	SexFemale = "feminino"

	GoalLose     = "perder"
	GoalMaintain = "manter"
	GoalGain     = "ganhar"

	ActivitySedentary = "sedentario"
	ActivityLight     = "leve"
	ActivityModerate  = "moderado"
	ActivityIntense   = "intenso"
	ActivityExtreme   = "muito_intenso"

	MealBreakfast = "cafe"
	MealLunch     = "almoco"
	MealDinner    = "jantar"
	MealSnacks    = "lanches"
)

// GuestUserID marks the shared profile used for unauthenticated requests.
// Nothing durable is ever written under it.
const GuestUserID = "guest"

func ValidMeal(meal string) bool {
	switch meal {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks:
		return true
	}
	return false
}

type User struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"-"`
	Age           int     `json:"age"`
	Sex           string  `json:"sex"`
	Weight        float64 `json:"weight"` // kg
	Height        float64 `json:"height"` // cm
	Goal          string  `json:"goal"`
	ActivityLevel string  `json:"activityLevel"`
}

// Food is the canonical nutrition record. Values are per ServingSize of
// ServingUnit, not necessarily per 100g; rows created from AI estimation are
// normalized to a 100g serving before they reach storage.
type Food struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize float64 `json:"servingSize"`
	ServingUnit string  `json:"servingUnit"`
}

type FoodLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FoodID    string    `json:"foodId"`
	Portion   float64   `json:"portion"` // same unit as the food's serving unit
	Meal      string    `json:"meal"`
	Timestamp time.Time `json:"timestamp"`
}

// FoodLogEntry is a FoodLog joined with its Food for summary views. Food is
// nil when the referenced row no longer resolves; aggregation skips those.
type FoodLogEntry struct {
	FoodLog
	Food *Food `json:"food,omitempty"`
}

type Exercise struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration"`
	Intensity       int       `json:"intensity"` // 1-5
	CaloriesBurned  float64   `json:"caloriesBurned"`
	Timestamp       time.Time `json:"timestamp"`
}

type Alarm struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Time    string `json:"time"` // "HH:MM"
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Sound   string `json:"sound"`
}
