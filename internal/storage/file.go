package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

// fileData is the on-disk shape: one JSON document holding every table.
type fileData struct {
	Users     []*internal.User     `json:"users"`
	Foods     []*internal.Food     `json:"foods"`
	FoodLogs  []*internal.FoodLog  `json:"foodLogs"`
	Exercises []*internal.Exercise `json:"exercises"`
	Alarms    []*internal.Alarm    `json:"alarms"`
}

// FileStorage keeps everything in memory, indexed per user, and flushes to a
// single JSON file through a debounced save worker with atomic writes.
type FileStorage struct {
	mu sync.RWMutex

	users      map[string]*internal.User
	emailIndex map[string]string // lowercase email -> user id
	foods      map[string]*internal.Food
	foodLogs   map[string]*internal.FoodLog
	userLogs   map[string][]*internal.FoodLog
	exercises  map[string][]*internal.Exercise
	alarms     map[string][]*internal.Alarm

	path         string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(path string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:        make(map[string]*internal.User),
		emailIndex:   make(map[string]string),
		foods:        make(map[string]*internal.Food),
		foodLogs:     make(map[string]*internal.FoodLog),
		userLogs:     make(map[string][]*internal.FoodLog),
		exercises:    make(map[string][]*internal.Exercise),
		alarms:       make(map[string][]*internal.Alarm),
		path:         path,
		saveChan:     make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load %s: %v", path, err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func (s *FileStorage) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var data fileData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range data.Users {
		s.users[u.ID] = u
		s.emailIndex[strings.ToLower(u.Email)] = u.ID
	}
	for _, f := range data.Foods {
		s.foods[f.ID] = f
	}
	for _, l := range data.FoodLogs {
		s.foodLogs[l.ID] = l
		s.userLogs[l.UserID] = append(s.userLogs[l.UserID], l)
	}
	for _, e := range data.Exercises {
		s.exercises[e.UserID] = append(s.exercises[e.UserID], e)
	}
	for _, a := range data.Alarms {
		s.alarms[a.UserID] = append(s.alarms[a.UserID], a)
	}
	for userID := range s.userLogs {
		logs := s.userLogs[userID]
		sort.Slice(logs, func(i, j int) bool {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		})
	}
	return nil
}

func (s *FileStorage) snapshot() fileData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data fileData
	for _, u := range s.users {
		data.Users = append(data.Users, u)
	}
	for _, f := range s.foods {
		data.Foods = append(data.Foods, f)
	}
	for _, l := range s.foodLogs {
		data.FoodLogs = append(data.FoodLogs, l)
	}
	for _, list := range s.exercises {
		data.Exercises = append(data.Exercises, list...)
	}
	for _, list := range s.alarms {
		data.Alarms = append(data.Alarms, list...)
	}
	return data
}

func (s *FileStorage) save() error {
	data := s.snapshot()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tempFile := s.path + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}
	return os.Rename(tempFile, s.path)
}

func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving data: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) markDirty() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStorage) Close() error {
	close(s.shutdownChan)
	return s.save()
}

// --- UserRepository ---

func (s *FileStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, exists := s.emailIndex[key]; exists {
		return errors.New("storage: email already registered")
	}
	s.users[user.ID] = user
	s.emailIndex[key] = user.ID
	s.markDirty()
	return nil
}

func (s *FileStorage) GetUserByID(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *FileStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *FileStorage) UpdateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	delete(s.emailIndex, strings.ToLower(existing.Email))
	s.users[user.ID] = user
	s.emailIndex[strings.ToLower(user.Email)] = user.ID
	s.markDirty()
	return nil
}

// --- FoodRepository ---

func (s *FileStorage) CreateFood(ctx context.Context, food *internal.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods[food.ID] = food
	s.markDirty()
	return nil
}

func (s *FileStorage) GetFoodByID(ctx context.Context, id string) (*internal.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	food, ok := s.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *food
	return &copied, nil
}

func (s *FileStorage) ListFoods(ctx context.Context) ([]internal.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	foods := make([]internal.Food, 0, len(s.foods))
	for _, f := range s.foods {
		foods = append(foods, *f)
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].Name < foods[j].Name })
	return foods, nil
}

func (s *FileStorage) SearchFoods(ctx context.Context, query string) ([]internal.Food, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var foods []internal.Food
	for _, f := range s.foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			foods = append(foods, *f)
		}
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].Name < foods[j].Name })
	return foods, nil
}

// --- FoodLogRepository ---

func (s *FileStorage) CreateFoodLog(ctx context.Context, log *internal.FoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foodLogs[log.ID] = log
	s.userLogs[log.UserID] = append(s.userLogs[log.UserID], log)
	s.markDirty()
	return nil
}

func (s *FileStorage) DeleteFoodLog(ctx context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.foodLogs[id]
	if !ok || log.UserID != userID {
		return false, nil
	}
	delete(s.foodLogs, id)
	logs := s.userLogs[userID]
	for i, l := range logs {
		if l.ID == id {
			s.userLogs[userID] = append(logs[:i], logs[i+1:]...)
			break
		}
	}
	s.markDirty()
	return true, nil
}

func (s *FileStorage) ListFoodLogs(ctx context.Context, userID string, day time.Time) ([]internal.FoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var logs []internal.FoodLog
	for _, l := range s.userLogs[userID] {
		if SameDay(l.Timestamp, day) {
			logs = append(logs, *l)
		}
	}
	return logs, nil
}

// --- ExerciseRepository ---

func (s *FileStorage) CreateExercise(ctx context.Context, exercise *internal.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises[exercise.UserID] = append(s.exercises[exercise.UserID], exercise)
	s.markDirty()
	return nil
}

func (s *FileStorage) ListExercises(ctx context.Context, userID string, day time.Time) ([]internal.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var exercises []internal.Exercise
	for _, e := range s.exercises[userID] {
		if SameDay(e.Timestamp, day) {
			exercises = append(exercises, *e)
		}
	}
	return exercises, nil
}

// --- AlarmRepository ---

func (s *FileStorage) CreateAlarm(ctx context.Context, alarm *internal.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms[alarm.UserID] = append(s.alarms[alarm.UserID], alarm)
	s.markDirty()
	return nil
}

func (s *FileStorage) ListAlarms(ctx context.Context, userID string) ([]internal.Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alarms := make([]internal.Alarm, 0, len(s.alarms[userID]))
	for _, a := range s.alarms[userID] {
		alarms = append(alarms, *a)
	}
	sort.Slice(alarms, func(i, j int) bool { return alarms[i].Time < alarms[j].Time })
	return alarms, nil
}

func (s *FileStorage) UpdateAlarm(ctx context.Context, alarm *internal.Alarm) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alarms[alarm.UserID] {
		if a.ID == alarm.ID {
			s.alarms[alarm.UserID][i] = alarm
			s.markDirty()
			return true, nil
		}
	}
	return false, nil
}

func (s *FileStorage) DeleteAlarm(ctx context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alarms := s.alarms[userID]
	for i, a := range alarms {
		if a.ID == id {
			s.alarms[userID] = append(alarms[:i], alarms[i+1:]...)
			s.markDirty()
			return true, nil
		}
	}
	return false, nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*FileStorage)(nil)
var _ FoodRepository = (*FileStorage)(nil)
var _ FoodLogRepository = (*FileStorage)(nil)
var _ ExerciseRepository = (*FileStorage)(nil)
var _ AlarmRepository = (*FileStorage)(nil)
