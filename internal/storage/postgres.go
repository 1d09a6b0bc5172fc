package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("storage: failed to connect to postgres: %v", err)
		return nil, err
	}
	s := &PostgresStorage{pool: pool, logger: logger}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		logger.Errorf("storage: failed to initialize postgres schema: %v", err)
		return nil, err
	}
	return s, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) initSchema(ctx context.Context) error {
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
        timestamp TIMESTAMPTZ NOT NULL
    );
    CREATE TABLE IF NOT EXISTS exercises (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        type TEXT NOT NULL,
        duration INTEGER NOT NULL,
        intensity INTEGER NOT NULL,
        calories_burned REAL NOT NULL,
        timestamp TIMESTAMPTZ NOT NULL
    );
    CREATE TABLE IF NOT EXISTS alarms (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        time TEXT NOT NULL,
        label TEXT NOT NULL,
        enabled BOOLEAN NOT NULL DEFAULT TRUE,
        sound TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_food_logs_user ON food_logs(user_id, timestamp);
    CREATE INDEX IF NOT EXISTS idx_exercises_user ON exercises(user_id, timestamp);
    `
	_, err := p.pool.Exec(ctx, schema)
	return err
}

// --- UserRepository ---

func (p *PostgresStorage) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password, age, sex, weight, height, goal, activity_level)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Name, user.Email, user.Password, user.Age, user.Sex,
		user.Weight, user.Height, user.Goal, user.ActivityLevel)
	if err != nil {
		p.logger.Errorf("storage: failed to insert user: %v", err)
	}
	return err
}

func (p *PostgresStorage) scanUser(row pgx.Row) (*internal.User, error) {
	var u internal.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Age, &u.Sex,
		&u.Weight, &u.Height, &u.Goal, &u.ActivityLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) GetUserByID(ctx context.Context, id string) (*internal.User, error) {
	return p.scanUser(p.pool.QueryRow(ctx,
		`SELECT id, name, email, password, age, sex, weight, height, goal, activity_level FROM users WHERE id = $1`, id))
}

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	return p.scanUser(p.pool.QueryRow(ctx,
		`SELECT id, name, email, password, age, sex, weight, height, goal, activity_level FROM users WHERE lower(email) = lower($1)`, email))
}

func (p *PostgresStorage) UpdateUser(ctx context.Context, user *internal.User) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, password = $3, age = $4, sex = $5, weight = $6, height = $7, goal = $8, activity_level = $9 WHERE id = $10`,
		user.Name, user.Email, user.Password, user.Age, user.Sex,
		user.Weight, user.Height, user.Goal, user.ActivityLevel, user.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- FoodRepository ---

func (p *PostgresStorage) CreateFood(ctx context.Context, food *internal.Food) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO foods (id, name, calories, protein, carbs, fat, serving_size, serving_unit)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		food.ID, food.Name, food.Calories, food.Protein, food.Carbs, food.Fat,
		food.ServingSize, food.ServingUnit)
	return err
}

func (p *PostgresStorage) GetFoodByID(ctx context.Context, id string) (*internal.Food, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, name, calories, protein, carbs, fat, serving_size, serving_unit FROM foods WHERE id = $1`, id)
	var f internal.Food
	err := row.Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat, &f.ServingSize, &f.ServingUnit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (p *PostgresStorage) queryFoods(ctx context.Context, query string, args ...any) ([]internal.Food, error) {
	rows, err := p.pool.Query(ctx, query, args...)
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

func (p *PostgresStorage) ListFoods(ctx context.Context) ([]internal.Food, error) {
	return p.queryFoods(ctx,
		`SELECT id, name, calories, protein, carbs, fat, serving_size, serving_unit FROM foods ORDER BY name`)
}

func (p *PostgresStorage) SearchFoods(ctx context.Context, query string) ([]internal.Food, error) {
	return p.queryFoods(ctx,
		`SELECT id, name, calories, protein, carbs, fat, serving_size, serving_unit FROM foods WHERE name ILIKE $1 ORDER BY name`,
		"%"+query+"%")
}

// --- FoodLogRepository ---

func (p *PostgresStorage) CreateFoodLog(ctx context.Context, log *internal.FoodLog) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO food_logs (id, user_id, food_id, portion, meal, timestamp) VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.UserID, log.FoodID, log.Portion, log.Meal, log.Timestamp)
	return err
}

func (p *PostgresStorage) DeleteFoodLog(ctx context.Context, id, userID string) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM food_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (p *PostgresStorage) ListFoodLogs(ctx context.Context, userID string, day time.Time) ([]internal.FoodLog, error) {
	start, end := dayBounds(day)
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, food_id, portion, meal, timestamp FROM food_logs
         WHERE user_id = $1 AND timestamp >= $2 AND timestamp < $3 ORDER BY timestamp`,
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

func (p *PostgresStorage) CreateExercise(ctx context.Context, exercise *internal.Exercise) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO exercises (id, user_id, type, duration, intensity, calories_burned, timestamp)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		exercise.ID, exercise.UserID, exercise.Type, exercise.DurationMinutes,
		exercise.Intensity, exercise.CaloriesBurned, exercise.Timestamp)
	return err
}

func (p *PostgresStorage) ListExercises(ctx context.Context, userID string, day time.Time) ([]internal.Exercise, error) {
	start, end := dayBounds(day)
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, type, duration, intensity, calories_burned, timestamp FROM exercises
         WHERE user_id = $1 AND timestamp >= $2 AND timestamp < $3 ORDER BY timestamp`,
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

func (p *PostgresStorage) CreateAlarm(ctx context.Context, alarm *internal.Alarm) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO alarms (id, user_id, time, label, enabled, sound) VALUES ($1, $2, $3, $4, $5, $6)`,
		alarm.ID, alarm.UserID, alarm.Time, alarm.Label, alarm.Enabled, alarm.Sound)
	return err
}

func (p *PostgresStorage) ListAlarms(ctx context.Context, userID string) ([]internal.Alarm, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, time, label, enabled, sound FROM alarms WHERE user_id = $1 ORDER BY time`, userID)
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

func (p *PostgresStorage) UpdateAlarm(ctx context.Context, alarm *internal.Alarm) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`UPDATE alarms SET time = $1, label = $2, enabled = $3, sound = $4 WHERE id = $5 AND user_id = $6`,
		alarm.Time, alarm.Label, alarm.Enabled, alarm.Sound, alarm.ID, alarm.UserID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (p *PostgresStorage) DeleteAlarm(ctx context.Context, id, userID string) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM alarms WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*PostgresStorage)(nil)
var _ FoodRepository = (*PostgresStorage)(nil)
var _ FoodLogRepository = (*PostgresStorage)(nil)
var _ ExerciseRepository = (*PostgresStorage)(nil)
var _ AlarmRepository = (*PostgresStorage)(nil)
