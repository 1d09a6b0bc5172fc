package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

func entry(portion float64, food *internal.Food) internal.FoodLogEntry {
	return internal.FoodLogEntry{
		FoodLog: internal.FoodLog{Portion: portion},
		Food:    food,
	}
}

func TestComputeDailyStats_ScalesByPortion(t *testing.T) {
	chicken := &internal.Food{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6, ServingSize: 100}
	rice := &internal.Food{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3, ServingSize: 100}

	stats := ComputeDailyStats([]internal.FoodLogEntry{
		entry(200, chicken),
		entry(150, rice),
	}, nil)

	assert.Equal(t, 525, stats.Consumed) // 330 + 195
	assert.Equal(t, 66, stats.Protein)   // 62 + 4.05
	assert.Equal(t, 42, stats.Carbs)
	assert.Equal(t, 8, stats.Fat) // 7.2 + 0.45
	assert.Equal(t, 0, stats.Burned)
}

func TestComputeDailyStats_SkipsUnresolvedFood(t *testing.T) {
	valid := &internal.Food{Calories: 100, ServingSize: 100}
	stats := ComputeDailyStats([]internal.FoodLogEntry{
		entry(150, nil),
		entry(200, valid),
	}, nil)
	assert.Equal(t, 200, stats.Consumed)
}

func TestComputeDailyStats_SumsBurned(t *testing.T) {
	stats := ComputeDailyStats(nil, []internal.Exercise{
		{CaloriesBurned: 314},
		{CaloriesBurned: 120.4},
	})
	assert.Equal(t, 434, stats.Burned)
}

func TestComputeDailyStats_OrderIndependent(t *testing.T) {
	food := &internal.Food{Calories: 95.3, Protein: 7.1, Carbs: 12.9, Fat: 2.2, ServingSize: 100}
	var logs []internal.FoodLogEntry
	var exercises []internal.Exercise
	for i := 1; i <= 20; i++ {
		logs = append(logs, entry(float64(i)*17, food))
		exercises = append(exercises, internal.Exercise{CaloriesBurned: float64(i) * 3.3})
	}
	want := ComputeDailyStats(logs, exercises)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		rng.Shuffle(len(logs), func(a, b int) { logs[a], logs[b] = logs[b], logs[a] })
		rng.Shuffle(len(exercises), func(a, b int) { exercises[a], exercises[b] = exercises[b], exercises[a] })
		assert.Equal(t, want, ComputeDailyStats(logs, exercises))
	}
}

func TestComputeDailyStats_RoundsOnceAtTheEnd(t *testing.T) {
	// 30 logs of 0.4 kcal each: rounding per-log would give 0, rounding the
	// accumulated 12.0 gives 12.
	small := &internal.Food{Calories: 0.4, ServingSize: 100}
	var logs []internal.FoodLogEntry
	for i := 0; i < 30; i++ {
		logs = append(logs, entry(100, small))
	}
	assert.Equal(t, 12, ComputeDailyStats(logs, nil).Consumed)
}
