package api

import (
	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/auth"
	"github.com/WesleyFreitsz/FitMindAI/internal/service"
	"github.com/WesleyFreitsz/FitMindAI/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Users() storage.UserRepository
	Foods() storage.FoodRepository
	FoodLogs() storage.FoodLogRepository
	Exercises() storage.ExerciseRepository
	Alarms() storage.AlarmRepository
	Auth() auth.Provider
	Intake() *service.Intake
}

// Application is the concrete App wired up in main and in tests.
type Application struct {
	Log           internal.Logger
	Repos         *storage.Repositories
	AuthProvider  auth.Provider
	IntakeService *service.Intake
}

func (a *Application) Logger() internal.Logger                { return a.Log }
func (a *Application) Users() storage.UserRepository          { return a.Repos.Users }
func (a *Application) Foods() storage.FoodRepository          { return a.Repos.Foods }
func (a *Application) FoodLogs() storage.FoodLogRepository    { return a.Repos.FoodLogs }
func (a *Application) Exercises() storage.ExerciseRepository  { return a.Repos.Exercises }
func (a *Application) Alarms() storage.AlarmRepository        { return a.Repos.Alarms }
func (a *Application) Auth() auth.Provider                    { return a.AuthProvider }
func (a *Application) Intake() *service.Intake                { return a.IntakeService }

var _ App = (*Application)(nil)
