package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/service"
)

type ExerciseRequest struct {
	Type            string `json:"type" validate:"required"`
	DurationMinutes int    `json:"duration" validate:"required,gt=0"`
	Intensity       int    `json:"intensity" validate:"omitempty,gte=1,lte=5"`
}

func PostExercise(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req ExerciseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		intensity := req.Intensity
		if intensity == 0 {
			intensity = 3
		}

		// Burn is computed once here and frozen into the row.
		exercise := internal.Exercise{
			ID:              uuid.NewString(),
			UserID:          user.ID,
			Type:            req.Type,
			DurationMinutes: req.DurationMinutes,
			Intensity:       intensity,
			CaloriesBurned:  service.CalorieBurn(req.Type, user.Weight, req.DurationMinutes),
			Timestamp:       time.Now(),
		}
		if err := app.Exercises().CreateExercise(c.Request.Context(), &exercise); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save exercise")
			return
		}
		HandleSuccess(c, app.Logger(), exercise, nil)
	}
}

func GetExercises(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		day, err := queryDate(c, "date")
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid 'date'")
			return
		}

		exercises, err := app.Exercises().ListExercises(c.Request.Context(), user.ID, day)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch exercises")
			return
		}
		HandleSuccess(c, app.Logger(), exercises, nil)
	}
}

func GetExerciseRange(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		start, end, err := queryRange(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid range")
			return
		}

		result := map[string][]internal.Exercise{}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			exercises, err := app.Exercises().ListExercises(c.Request.Context(), user.ID, day)
			if err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to fetch exercises")
				return
			}
			result[day.Format(dateLayout)] = exercises
		}
		HandleSuccess(c, app.Logger(), result, nil)
	}
}
