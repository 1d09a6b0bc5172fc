package api

import (
	"github.com/gin-gonic/gin"
)

type UpdateUserRequest struct {
	Name          string  `json:"name" validate:"omitempty,min=2"`
	Age           int     `json:"age" validate:"omitempty,gt=0"`
	Sex           string  `json:"sex" validate:"omitempty,oneof=masculino feminino"`
	Weight        float64 `json:"weight" validate:"omitempty,gt=0"`
	Height        float64 `json:"height" validate:"omitempty,gt=0"`
	Goal          string  `json:"goal" validate:"omitempty,oneof=perder manter ganhar"`
	ActivityLevel string  `json:"activityLevel" validate:"omitempty,oneof=sedentario leve moderado intenso muito_intenso"`
}

func GetUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), currentUser(c), nil)
	}
}

func PutUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		updated := *user
		if req.Name != "" {
			updated.Name = req.Name
		}
		if req.Age > 0 {
			updated.Age = req.Age
		}
		if req.Sex != "" {
			updated.Sex = req.Sex
		}
		if req.Weight > 0 {
			updated.Weight = req.Weight
		}
		if req.Height > 0 {
			updated.Height = req.Height
		}
		if req.Goal != "" {
			updated.Goal = req.Goal
		}
		if req.ActivityLevel != "" {
			updated.ActivityLevel = req.ActivityLevel
		}

		if err := app.Users().UpdateUser(c.Request.Context(), &updated); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to update user")
			return
		}
		HandleSuccess(c, app.Logger(), &updated, nil)
	}
}
