package storage

import (
	"context"
	"errors"
	"time"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

// ErrNotFound is returned by lookups that resolve nothing, regardless of
// backend.
var ErrNotFound = errors.New("storage: not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	GetUserByID(ctx context.Context, id string) (*internal.User, error)
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	UpdateUser(ctx context.Context, user *internal.User) error
}

type FoodRepository interface {
	CreateFood(ctx context.Context, food *internal.Food) error
	GetFoodByID(ctx context.Context, id string) (*internal.Food, error)
	ListFoods(ctx context.Context) ([]internal.Food, error)
	SearchFoods(ctx context.Context, query string) ([]internal.Food, error)
}

type FoodLogRepository interface {
	CreateFoodLog(ctx context.Context, log *internal.FoodLog) error
	DeleteFoodLog(ctx context.Context, id, userID string) (bool, error)
	// ListFoodLogs returns the user's logs whose timestamp falls on the same
	// calendar day as day.
	ListFoodLogs(ctx context.Context, userID string, day time.Time) ([]internal.FoodLog, error)
}

type ExerciseRepository interface {
	CreateExercise(ctx context.Context, exercise *internal.Exercise) error
	ListExercises(ctx context.Context, userID string, day time.Time) ([]internal.Exercise, error)
}

type AlarmRepository interface {
	CreateAlarm(ctx context.Context, alarm *internal.Alarm) error
	ListAlarms(ctx context.Context, userID string) ([]internal.Alarm, error)
	UpdateAlarm(ctx context.Context, alarm *internal.Alarm) (bool, error)
	DeleteAlarm(ctx context.Context, id, userID string) (bool, error)
}

// SameDay reports whether two timestamps fall on the same calendar day in
// the reference time's location.
func SameDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
