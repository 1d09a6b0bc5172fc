package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/response"
	"github.com/WesleyFreitsz/FitMindAI/internal/storage"
)

var validate = validator.New()

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 401:
		resp = response.Unauthorized(msg)
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(200, response.Success(data, meta))
}

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet("user").(*internal.User)
}

const dateLayout = "2006-01-02"

// queryDate reads a ?date=YYYY-MM-DD parameter, defaulting to today.
func queryDate(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation(dateLayout, raw, time.Local)
}

func queryRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, c.Query("start"), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid or missing 'start' date")
	}
	end, err := time.ParseInLocation(dateLayout, c.Query("end"), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid or missing 'end' date")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("'end' must not be before 'start'")
	}
	return start, end, nil
}

// enrichLogs joins each food log with its food row. A missing food leaves
// the entry with a nil Food; aggregation skips those.
func enrichLogs(c *gin.Context, app App, logs []internal.FoodLog) []internal.FoodLogEntry {
	entries := make([]internal.FoodLogEntry, 0, len(logs))
	for _, log := range logs {
		food, err := app.Foods().GetFoodByID(c.Request.Context(), log.FoodID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			app.Logger().Warnf("failed to resolve food %s: %v", log.FoodID, err)
		}
		entries = append(entries, internal.FoodLogEntry{FoodLog: log, Food: food})
	}
	return entries
}
