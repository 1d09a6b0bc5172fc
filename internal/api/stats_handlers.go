package api

import (
	"github.com/gin-gonic/gin"

	"github.com/WesleyFreitsz/FitMindAI/internal/service"
)

// GetDailyStats folds the day's food logs and exercises into consumed/burned
// totals. Nothing is cached; every read recomputes.
func GetDailyStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		day, err := queryDate(c, "date")
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid 'date'")
			return
		}

		logs, err := app.FoodLogs().ListFoodLogs(c.Request.Context(), user.ID, day)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch food logs")
			return
		}
		exercises, err := app.Exercises().ListExercises(c.Request.Context(), user.ID, day)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch exercises")
			return
		}

		stats := service.ComputeDailyStats(enrichLogs(c, app, logs), exercises)
		HandleSuccess(c, app.Logger(), stats, map[string]any{"date": day.Format(dateLayout)})
	}
}

// GetGoals returns the metabolic baseline and macro targets derived from the
// user's profile.
func GetGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		HandleSuccess(c, app.Logger(), gin.H{
			"calorieGoals": service.CalculateCalorieGoals(user),
			"macroGoals":   service.CalculateMacroGoals(user),
		}, nil)
	}
}
