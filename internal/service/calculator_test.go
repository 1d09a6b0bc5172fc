package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

func baseUser() *internal.User {
	return &internal.User{
		ID:            "u1",
		Age:           28,
		Sex:           internal.SexMale,
		Weight:        78.5,
		Height:        175,
		Goal:          internal.GoalMaintain,
		ActivityLevel: internal.ActivityModerate,
	}
}

func TestCalculateBMR_Male(t *testing.T) {
	user := baseUser()
	// 10*78.5 + 6.25*175 - 5*28 + 5
	assert.InDelta(t, 1743.75, CalculateBMR(user), 0.001)
}

func TestCalculateBMR_FemaleOffset(t *testing.T) {
	user := baseUser()
	user.Sex = internal.SexFemale
	female := CalculateBMR(user)
	user.Sex = internal.SexMale
	male := CalculateBMR(user)
	assert.InDelta(t, male-166, female, 0.001) // +5 vs -161

	// Any non-masculino value uses the female offset.
	user.Sex = "outro"
	assert.InDelta(t, female, CalculateBMR(user), 0.001)
}

func TestCalculateBMR_IncompleteProfile(t *testing.T) {
	for _, mutate := range []func(*internal.User){
		func(u *internal.User) { u.Weight = 0 },
		func(u *internal.User) { u.Height = 0 },
		func(u *internal.User) { u.Age = 0 },
		func(u *internal.User) { u.Sex = "" },
	} {
		user := baseUser()
		mutate(user)
		assert.Zero(t, CalculateBMR(user))
	}
	assert.Zero(t, CalculateBMR(nil))
}

func TestCalculateTDEE_UnknownActivityIsSedentary(t *testing.T) {
	user := baseUser()
	user.ActivityLevel = "parkour"
	unknown := CalculateTDEE(user)
	user.ActivityLevel = internal.ActivitySedentary
	sedentary := CalculateTDEE(user)
	assert.InDelta(t, sedentary, unknown, 0.001)
	assert.InDelta(t, CalculateBMR(user)*1.2, sedentary, 0.001)
}

func TestCalculateCalorieGoals_GoalAdjustments(t *testing.T) {
	user := baseUser()

	user.Goal = internal.GoalLose
	lose := CalculateCalorieGoals(user)
	assert.Equal(t, lose.TDEE-500, lose.Target)

	user.Goal = internal.GoalGain
	gain := CalculateCalorieGoals(user)
	assert.Equal(t, gain.TDEE+300, gain.Target)

	user.Goal = internal.GoalMaintain
	maintain := CalculateCalorieGoals(user)
	assert.Equal(t, maintain.TDEE, maintain.Target)

	user.Goal = "perder_gordura" // legacy value degrades to maintain
	legacy := CalculateCalorieGoals(user)
	assert.Equal(t, legacy.TDEE, legacy.Target)
}

func TestCalculateMacroGoals_EnergyIdentity(t *testing.T) {
	for _, goal := range []string{internal.GoalLose, internal.GoalMaintain, internal.GoalGain} {
		user := baseUser()
		user.Goal = goal
		target := CalculateCalorieGoals(user).Target
		macros := CalculateMacroGoals(user)
		total := macros.Protein*4 + macros.Fat*9 + macros.Carbs*4
		assert.InDelta(t, target, total, 4, "goal=%s", goal)
	}
}

func TestCalculateMacroGoals_ProteinMultipliers(t *testing.T) {
	user := baseUser()
	user.Weight = 70

	user.Goal = internal.GoalMaintain
	assert.Equal(t, 140, CalculateMacroGoals(user).Protein)

	user.Goal = internal.GoalGain
	assert.Equal(t, 154, CalculateMacroGoals(user).Protein)

	user.Goal = internal.GoalLose
	assert.Equal(t, 168, CalculateMacroGoals(user).Protein)
}

func TestCalculateMacroGoals_CarbsCanGoNegative(t *testing.T) {
	// A heavy profile on a deficit: protein+fat allocations exceed the
	// calorie target and the remainder is reported as-is.
	user := &internal.User{
		Age:           60,
		Sex:           internal.SexFemale,
		Weight:        120,
		Height:        150,
		Goal:          internal.GoalLose,
		ActivityLevel: internal.ActivitySedentary,
	}
	macros := CalculateMacroGoals(user)
	assert.Negative(t, macros.Carbs)

	target := CalculateCalorieGoals(user).Target
	total := macros.Protein*4 + macros.Fat*9 + macros.Carbs*4
	assert.InDelta(t, target, total, 4)
}
