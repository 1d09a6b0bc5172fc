package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

type AlarmRequest struct {
	Time    string `json:"time" validate:"required,len=5"`
	Label   string `json:"label" validate:"required"`
	Enabled *bool  `json:"enabled"`
	Sound   string `json:"sound"`
}

func (r *AlarmRequest) enabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

func PostAlarm(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req AlarmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		alarm := internal.Alarm{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			Time:    req.Time,
			Label:   req.Label,
			Enabled: req.enabled(),
			Sound:   req.Sound,
		}
		if err := app.Alarms().CreateAlarm(c.Request.Context(), &alarm); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save alarm")
			return
		}
		HandleSuccess(c, app.Logger(), alarm, nil)
	}
}

func GetAlarms(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		alarms, err := app.Alarms().ListAlarms(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch alarms")
			return
		}
		HandleSuccess(c, app.Logger(), alarms, nil)
	}
}

func PutAlarm(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id := c.Param("id")

		var req AlarmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := validate.Struct(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		alarm := internal.Alarm{
			ID:      id,
			UserID:  user.ID,
			Time:    req.Time,
			Label:   req.Label,
			Enabled: req.enabled(),
			Sound:   req.Sound,
		}
		updated, err := app.Alarms().UpdateAlarm(c.Request.Context(), &alarm)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to update alarm")
			return
		}
		if !updated {
			HandleError(c, app.Logger(), errors.New(id), 404, "Alarme não encontrado")
			return
		}
		HandleSuccess(c, app.Logger(), alarm, nil)
	}
}

func DeleteAlarm(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id := c.Param("id")

		deleted, err := app.Alarms().DeleteAlarm(c.Request.Context(), id, user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to delete alarm")
			return
		}
		if !deleted {
			HandleError(c, app.Logger(), errors.New(id), 404, "Alarme não encontrado")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"message": "Alarme removido."}, nil)
	}
}
