package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(path string, logger internal.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open sqlite database: %w", err)
	}

	s := &SQLiteStorage{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        email TEXT NOT NULL UNIQUE,
        password TEXT NOT NULL,
        age INTEGER NOT NULL,
        sex TEXT NOT NULL,
        weight REAL NOT NULL,
        height REAL NOT NULL,
        goal TEXT NOT NULL,
        activity_level TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS foods (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        calories REAL NOT NULL,
        protein REAL NOT NULL,
        carbs REAL NOT NULL,
        fat REAL NOT NULL,
        serving_size REAL NOT NULL,
        serving_unit TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS food_logs (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        food_id TEXT NOT NULL,
        portion REAL NOT NULL,
        meal TEXT NOT NULL,
        timestamp DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS exercises (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        type TEXT NOT NULL,
        duration INTEGER NOT NULL,
        intensity INTEGER NOT NULL,
        calories_burned REAL NOT NULL,
        timestamp DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS alarms (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        time TEXT NOT NULL,
        label TEXT NOT NULL,
        enabled INTEGER NOT NULL DEFAULT 1,
        sound TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_food_logs_user ON food_logs(user_id, timestamp);
    CREATE INDEX IF NOT EXISTS idx_exercises_user ON exercises(user_id, timestamp);
    CREATE INDEX IF NOT EXISTS idx_alarms_user ON alarms(user_id);
    `
	_, err := s.db.Exec(schema)
	return err
}

// dayBounds returns the [start, end) timestamps covering day's calendar day.
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// --- UserRepository ---

func (s *SQLiteStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password, age, sex, weight, height, goal, activity_level)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.Password, user.Age, user.Sex,
		user.Weight, user.Height, user.Goal, user.ActivityLevel)
	if err != nil {
		s.logger.Errorf("storage: failed to insert user: %v", err)
	}
	return err
}

func (s *SQLiteStorage) scanUser(row *sql.Row) (*internal.User, error) {
	var u internal.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Age, &u.Sex,
		&u.Weight, &u.Height, &u.Goal, &u.ActivityLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStorage) GetUserByID(ctx context.Context, id string) (*internal.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password, age, sex, weight, height, goal, activity_level FROM users WHERE id = ?`, id)
	return s.scanUser(row)
}

func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password, age, sex, weight, height, goal, activity_level FROM users WHERE email = ? COLLATE NOCASE`, email)
	return s.scanUser(row)
}

func (s *SQLiteStorage) UpdateUser(ctx context.Context, user *internal.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password = ?, age = ?, sex = ?, weight = ?, height = ?, goal = ?, activity_level = ? WHERE id = ?`,
		user.Name, user.Email, user.Password, user.Age, user.Sex,
		user.Weight, user.Height, user.Goal, user.ActivityLevel, user.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- FoodRepository ---

func (s *SQLiteStorage) CreateFood(ctx context.Context, food *internal.Food) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO foods (id, name, calories, protein, carbs, fat, serving_size, serving_unit)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		food.ID, food.Name, food.Calories, food.Protein, food.Carbs, food.Fat,
		food.ServingSize, food.ServingUnit)
	return err
}

func (s *SQLiteStorage) GetFoodByID(ctx context.Context, id string) (*internal.Food, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, calories, protein, carbs, fat, serving_size, serving_unit FROM foods WHERE id = ?`, id)
	var f internal.Food
	err := row.Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.ServingSize, &f.ServingUnit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *SQLiteStorage) queryFoods(ctx context.Context, query string, args ...any) ([]internal.Food, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []internal.Food
	for rows.Next() {
		var f internal.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.ServingSize, &f.ServingUnit); err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (s *SQLiteStorage) ListFoods(ctx context.Context) ([]internal.Food, error) {
	return s.queryFoods(ctx,
		`SELECT id, name, calories, protein, carbs, fat, serving_size, serving_unit FROM foods ORDER BY name`)
}

func (s *SQLiteStorage) SearchFoods(ctx context.Context, query string) ([]internal.Food, error) {
	return s.queryFoods(ctx,
		`SELECT id, name, calories, protein, carbs, fat, serving_size, serving_unit FROM foods WHERE name LIKE ? ORDER BY name`,
		"%"+query+"%")
}

// --- FoodLogRepository ---

func (s *SQLiteStorage) CreateFoodLog(ctx context.Context, log *internal.FoodLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO food_logs (id, user_id, food_id, portion, meal, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		log.ID, log.UserID, log.FoodID, log.Portion, log.Meal, log.Timestamp)
	return err
}

func (s *SQLiteStorage) DeleteFoodLog(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM food_logs WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteStorage) ListFoodLogs(ctx context.Context, userID string, day time.Time) ([]internal.FoodLog, error) {
	start, end := dayBounds(day)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, food_id, portion, meal, timestamp FROM food_logs
         WHERE user_id = ? AND timestamp >= ? AND timestamp < ? ORDER BY timestamp`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []internal.FoodLog
	for rows.Next() {
		var l internal.FoodLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.FoodID, &l.Portion, &l.Meal, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- ExerciseRepository ---

func (s *SQLiteStorage) CreateExercise(ctx context.Context, exercise *internal.Exercise) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercises (id, user_id, type, duration, intensity, calories_burned, timestamp)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		exercise.ID, exercise.UserID, exercise.Type, exercise.DurationMinutes,
		exercise.Intensity, exercise.CaloriesBurned, exercise.Timestamp)
	return err
}

func (s *SQLiteStorage) ListExercises(ctx context.Context, userID string, day time.Time) ([]internal.Exercise, error) {
	start, end := dayBounds(day)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, type, duration, intensity, calories_burned, timestamp FROM exercises
         WHERE user_id = ? AND timestamp >= ? AND timestamp < ? ORDER BY timestamp`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []internal.Exercise
	for rows.Next() {
		var e internal.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.DurationMinutes, &e.Intensity, &e.CaloriesBurned, &e.Timestamp); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// --- AlarmRepository ---

func (s *SQLiteStorage) CreateAlarm(ctx context.Context, alarm *internal.Alarm) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alarms (id, user_id, time, label, enabled, sound) VALUES (?, ?, ?, ?, ?, ?)`,
		alarm.ID, alarm.UserID, alarm.Time, alarm.Label, alarm.Enabled, alarm.Sound)
	return err
}

func (s *SQLiteStorage) ListAlarms(ctx context.Context, userID string) ([]internal.Alarm, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, time, label, enabled, sound FROM alarms WHERE user_id = ? ORDER BY time`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alarms []internal.Alarm
	for rows.Next() {
		var a internal.Alarm
		if err := rows.Scan(&a.ID, &a.UserID, &a.Time, &a.Label, &a.Enabled, &a.Sound); err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

func (s *SQLiteStorage) UpdateAlarm(ctx context.Context, alarm *internal.Alarm) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alarms SET time = ?, label = ?, enabled = ?, sound = ? WHERE id = ? AND user_id = ?`,
		alarm.Time, alarm.Label, alarm.Enabled, alarm.Sound, alarm.ID, alarm.UserID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteStorage) DeleteAlarm(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alarms WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*SQLiteStorage)(nil)
var _ FoodRepository = (*SQLiteStorage)(nil)
var _ FoodLogRepository = (*SQLiteStorage)(nil)
var _ ExerciseRepository = (*SQLiteStorage)(nil)
var _ AlarmRepository = (*SQLiteStorage)(nil)
