package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/ai"
	"github.com/WesleyFreitsz/FitMindAI/internal/service"
)

type ParseRequest struct {
	Text    string                  `json:"text" validate:"required"`
	Pending *service.PendingContext `json:"pending,omitempty"`
	History []ai.Message            `json:"history,omitempty"`
}

type ChatRequest struct {
	Messages []ai.Message `json:"messages" validate:"required,min=1"`
}

type CommitRequest struct {
	Meal  string                 `json:"meal" validate:"required"`
	Foods []service.ResolvedFood `json:"foods" validate:"required,min=1"`
}

// PostChatParse runs one intake turn: classify the text, resolve foods or
// compute workouts, and return either a finished result or a pending
// continuation the client echoes back on its next request.
func PostChatParse(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req ParseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		result := app.Intake().HandleTurn(c.Request.Context(), user, req.Text, req.Pending, req.History)
		HandleSuccess(c, app.Logger(), result, nil)
	}
}

// PostChatCommit persists the pending foods under the chosen meal. Requires
// authentication: guests can parse but not log.
func PostChatCommit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req CommitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		entries, err := app.Intake().CommitMeal(c.Request.Context(), user, req.Meal, req.Foods)
		if err != nil {
			var appErr *internal.AppError
			if errors.As(err, &appErr) {
				HandleError(c, app.Logger(), err, appErr.Code, "Commit rejected")
				return
			}
			// Partial failure: the error text reports how many logs landed.
			HandleError(c, app.Logger(), err, 500, "Failed to commit meal")
			return
		}
		HandleSuccess(c, app.Logger(), entries, map[string]any{"meal": req.Meal})
	}
}

// PostChat is the free-form conversation endpoint. The client sends the
// user/assistant turn history with the newest user message last.
func PostChat(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		last := req.Messages[len(req.Messages)-1]
		if last.Role != "user" {
			HandleError(c, app.Logger(), errors.New("last message must be from the user"), 400, "Invalid messages")
			return
		}
		history := req.Messages[:len(req.Messages)-1]

		answer := app.Intake().Chat(c.Request.Context(), user, history, last.Content)
		HandleSuccess(c, app.Logger(), gin.H{"message": answer}, nil)
	}
}
