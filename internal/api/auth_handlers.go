package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/auth"
	"github.com/WesleyFreitsz/FitMindAI/internal/storage"
)

type RegisterRequest struct {
	Name          string  `json:"name" validate:"required,min=2"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=6"`
	Age           int     `json:"age" validate:"required,gt=0"`
	Sex           string  `json:"sex" validate:"required"`
	Weight        float64 `json:"weight" validate:"required,gt=0"`
	Height        float64 `json:"height" validate:"required,gt=0"`
	Goal          string  `json:"goal" validate:"required"`
	ActivityLevel string  `json:"activityLevel" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func PostRegister(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		if _, err := app.Users().GetUserByEmail(c.Request.Context(), req.Email); err == nil {
			HandleError(c, app.Logger(), errors.New(req.Email), 400, "Este e-mail já está em uso")
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			HandleError(c, app.Logger(), err, 500, "Failed to check email")
			return
		}

		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to hash password")
			return
		}

		user := &internal.User{
			ID:            uuid.NewString(),
			Name:          req.Name,
			Email:         req.Email,
			Password:      hashed,
			Age:           req.Age,
			Sex:           req.Sex,
			Weight:        req.Weight,
			Height:        req.Height,
			Goal:          req.Goal,
			ActivityLevel: req.ActivityLevel,
		}
		if err := app.Users().CreateUser(c.Request.Context(), user); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to create user")
			return
		}

		token, err := app.Auth().IssueToken(user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to issue token")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"user": user, "token": token}, nil)
	}
}

func PostLogin(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		user, err := app.Users().GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil || !auth.CheckPassword(user.Password, req.Password) {
			HandleError(c, app.Logger(), errors.New("invalid credentials"), 401, "E-mail ou senha incorretos")
			return
		}

		token, err := app.Auth().IssueToken(user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to issue token")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"user": user, "token": token}, nil)
	}
}

func GetMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), currentUser(c), nil)
	}
}
