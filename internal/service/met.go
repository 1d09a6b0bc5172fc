package service

import "strings"

// MET values per activity. Configuration data rather than logic: the burn
// formula depends on these exact keys, so they live next to the calculator.
var metTable = map[string]float64{
	"musculacao": 5.0,
	"corrida":    8.0,
	"cardio":     7.0,
	"caminhada":  3.5,
	"ciclismo":   7.5,
	"natacao":    6.0,
	"futebol":    8.0,
	"yoga":       3.0,
}

const defaultMET = 5.0

// METFor resolves an activity name to a MET value. Matching is lowercase and
// accent-insensitive enough for the common Portuguese spellings; anything
// unrecognized gets the default.
func METFor(activity string) float64 {
	name := normalizeActivity(activity)
	if met, ok := metTable[name]; ok {
		return met
	}
	for key, met := range metTable {
		if strings.Contains(name, key) {
			return met
		}
	}
	return defaultMET
}

// CalorieBurn computes calories burned as MET x weight(kg) x hours. The
// result is frozen into the Exercise row at creation time and never
// recomputed.
func CalorieBurn(activity string, weightKg float64, durationMinutes int) float64 {
	return METFor(activity) * weightKg * float64(durationMinutes) / 60
}

var activityAccents = strings.NewReplacer(
	"ç", "c", "ã", "a", "á", "a", "â", "a",
	"é", "e", "ê", "e", "í", "i",
	"ó", "o", "ô", "o", "õ", "o", "ú", "u",
)

func normalizeActivity(activity string) string {
	return activityAccents.Replace(strings.ToLower(strings.TrimSpace(activity)))
}
