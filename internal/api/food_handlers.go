package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/service"
)

// FoodDataRequest is AI-estimated nutrition for the exact portion the user
// mentioned. It is normalized to the canonical 100g serving before a Food
// row is created from it.
type FoodDataRequest struct {
	Name     string  `json:"name" validate:"required"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Portion  float64 `json:"portion"`
}

type FoodLogRequest struct {
	FoodID   string           `json:"foodId"`
	FoodData *FoodDataRequest `json:"foodData"`
	Portion  float64          `json:"portion" validate:"required,gt=0"`
	Meal     string           `json:"meal" validate:"required,oneof=cafe almoco jantar lanches"`
}

func GetFoods(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		var (
			foods []internal.Food
			err   error
		)
		if query != "" {
			foods, err = app.Foods().SearchFoods(c.Request.Context(), query)
		} else {
			foods, err = app.Foods().ListFoods(c.Request.Context())
		}
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch foods")
			return
		}
		HandleSuccess(c, app.Logger(), foods, nil)
	}
}

func PostFoodLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req FoodLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		foodID := req.FoodID
		var food *internal.Food
		if foodID == "" && req.FoodData != nil {
			food = service.NormalizeFood(req.FoodData.Name, req.FoodData.Calories,
				req.FoodData.Protein, req.FoodData.Carbs, req.FoodData.Fat, req.FoodData.Portion)
			if err := app.Foods().CreateFood(c.Request.Context(), food); err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to create food")
				return
			}
			foodID = food.ID
		}
		if foodID == "" {
			HandleError(c, app.Logger(), errors.New("missing food reference"), 400, "foodId or foodData is required")
			return
		}
		if food == nil {
			var err error
			food, err = app.Foods().GetFoodByID(c.Request.Context(), foodID)
			if err != nil {
				HandleError(c, app.Logger(), err, 404, "Food not found")
				return
			}
		}

		log := internal.FoodLog{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			FoodID:    foodID,
			Portion:   req.Portion,
			Meal:      req.Meal,
			Timestamp: time.Now(),
		}
		if err := app.FoodLogs().CreateFoodLog(c.Request.Context(), &log); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save food log")
			return
		}
		HandleSuccess(c, app.Logger(), internal.FoodLogEntry{FoodLog: log, Food: food}, nil)
	}
}

func GetFoodLogs(app App) gin.HandlerFunc {
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
		HandleSuccess(c, app.Logger(), enrichLogs(c, app, logs), nil)
	}
}

func DeleteFoodLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id := c.Param("id")

		deleted, err := app.FoodLogs().DeleteFoodLog(c.Request.Context(), id, user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to delete food log")
			return
		}
		if !deleted {
			HandleError(c, app.Logger(), errors.New(id), 404, "Log de alimento não encontrado")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"message": "Log de alimento deletado com sucesso."}, nil)
	}
}

// GetFoodLogRange returns one entry list per calendar day, keyed by date,
// for the progress charts. Each day is computed independently.
func GetFoodLogRange(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		start, end, err := queryRange(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid range")
			return
		}

		result := map[string][]internal.FoodLogEntry{}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			logs, err := app.FoodLogs().ListFoodLogs(c.Request.Context(), user.ID, day)
			if err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to fetch food logs")
				return
			}
			result[day.Format(dateLayout)] = enrichLogs(c, app, logs)
		}
		HandleSuccess(c, app.Logger(), result, nil)
	}
}
