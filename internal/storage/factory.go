package storage

import (
	"fmt"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/config"
)

// Repositories bundles every repository the app needs, all served by the same
// backend instance.
type Repositories struct {
	Users     UserRepository
	Foods     FoodRepository
	FoodLogs  FoodLogRepository
	Exercises ExerciseRepository
	Alarms    AlarmRepository

	closer interface{ Close() error }
}

func (r *Repositories) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func New(cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.DBType {
	case "file":
		s, err := NewFileStorage(cfg.DataFile, logger)
		if err != nil {
			return nil, err
		}
		return bundle(s), nil
	case "sqlite":
		s, err := NewSQLiteStorage(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return bundle(s), nil
	case "postgres":
		s, err := NewPostgresStorage(cfg.DBDSN, logger)
		if err != nil {
			return nil, err
		}
		return bundle(s), nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
}

type backend interface {
	UserRepository
	FoodRepository
	FoodLogRepository
	ExerciseRepository
	AlarmRepository
	Close() error
}

func bundle(s backend) *Repositories {
	return &Repositories{
		Users:     s,
		Foods:     s,
		FoodLogs:  s,
		Exercises: s,
		Alarms:    s,
		closer:    s,
	}
}
