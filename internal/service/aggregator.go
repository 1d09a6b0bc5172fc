package service

import (
	"math"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

// DailyStats is a fold over one user/day. It is recomputed on every read and
// never stored.
type DailyStats struct {
	Consumed int `json:"consumed"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Burned   int `json:"burned"`
}

// ComputeDailyStats folds food logs and exercises into consumed/burned
// totals. Entries whose food did not resolve are skipped. Accumulation stays
// in floating point; rounding happens once on the returned struct so many
// small logs do not compound rounding error.
func ComputeDailyStats(logs []internal.FoodLogEntry, exercises []internal.Exercise) DailyStats {
	var calories, protein, carbs, fat float64

	for _, entry := range logs {
		if entry.Food == nil || entry.Food.ServingSize <= 0 {
			continue
		}
		multiplier := entry.Portion / entry.Food.ServingSize
		calories += entry.Food.Calories * multiplier
		protein += entry.Food.Protein * multiplier
		carbs += entry.Food.Carbs * multiplier
		fat += entry.Food.Fat * multiplier
	}

	var burned float64
	for _, ex := range exercises {
		burned += ex.CaloriesBurned
	}

	return DailyStats{
		Consumed: int(math.Round(calories)),
		Protein:  int(math.Round(protein)),
		Carbs:    int(math.Round(carbs)),
		Fat:      int(math.Round(fat)),
		Burned:   int(math.Round(burned)),
	}
}
