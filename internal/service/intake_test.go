package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/ai"
	"github.com/WesleyFreitsz/FitMindAI/internal/auth"
	"github.com/WesleyFreitsz/FitMindAI/internal/storage"
)

// routingCompleter dispatches on the system prompt so a single stub can stand
// in for the classifier, estimator and responder backends at once.
type routingCompleter struct {
	classify func(prompt string) (string, error)
	estimate func(prompt string) (string, error)
	respond  func(prompt string) (string, error)
}

func (r *routingCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	switch {
	case strings.Contains(req.System, "analisador"):
		return r.classify(req.Prompt)
	case strings.Contains(req.System, "especialista em nutrição"):
		return r.estimate(req.Prompt)
	default:
		return r.respond(req.Prompt)
	}
}

func intakeUser() *internal.User {
	return &internal.User{
		ID:            "u1",
		Age:           25,
		Sex:           internal.SexMale,
		Weight:        70,
		Height:        175,
		Goal:          internal.GoalMaintain,
		ActivityLevel: internal.ActivityModerate,
	}
}

func newTestIntake(t *testing.T, completer ai.Completer) (*Intake, *storage.FileStorage) {
	t.Helper()
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	store, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "data.json"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewIntake(
		ai.NewClassifier(completer, logger),
		ai.NewEstimator(completer, logger),
		ai.NewResponder(completer, logger),
		store, store, store,
		logger,
	), store
}

func TestHandleTurn_FoodSuspendsOnMealSelection(t *testing.T) {
	completer := &routingCompleter{
		classify: func(string) (string, error) {
			return `{"type":"food","foods":[{"name":"frango","portion":200,"unit":"g"}]}`, nil
		},
		estimate: func(string) (string, error) {
			return `{"name":"frango grelhado","calories":330,"protein":62,"carbs":0,"fat":7.2,"portion":200,"unit":"g"}`, nil
		},
	}
	intake, _ := newTestIntake(t, completer)

	result := intake.HandleTurn(context.Background(), intakeUser(), "comi 200g de frango", nil, nil)
	assert.Equal(t, ai.IntentFood, result.Type)
	require.Len(t, result.Foods, 1)
	assert.Equal(t, "frango grelhado", result.Foods[0].Name)
	assert.Equal(t, 330.0, result.Foods[0].Calories)

	require.NotNil(t, result.Pending)
	assert.Equal(t, PendingMealSelection, result.Pending.Kind)
	assert.Equal(t, result.Foods, result.Pending.Foods)
	assert.Empty(t, result.Exercises, "nothing persists before the meal is chosen")
}

func TestCommitMeal_PersistsNormalizedFood(t *testing.T) {
	intake, store := newTestIntake(t, &routingCompleter{})
	user := intakeUser()

	entries, err := intake.CommitMeal(context.Background(), user, internal.MealLunch, []ResolvedFood{
		{Name: "frango grelhado", Calories: 330, Protein: 62, Carbs: 0, Fat: 7.2, Portion: 200, Unit: "g"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Stored food is per-100g regardless of the mentioned portion.
	food := entries[0].Food
	require.NotNil(t, food)
	assert.Equal(t, 165.0, food.Calories)
	assert.Equal(t, 31.0, food.Protein)
	assert.Equal(t, 3.6, food.Fat)
	assert.Equal(t, 100.0, food.ServingSize)
	assert.Equal(t, "g", food.ServingUnit)

	// The log keeps the original portion so the multiplier reconstructs the
	// mentioned amount.
	assert.Equal(t, 200.0, entries[0].Portion)
	assert.Equal(t, internal.MealLunch, entries[0].Meal)

	logs, err := store.ListFoodLogs(context.Background(), user.ID, entries[0].Timestamp)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestCommitMeal_RejectsUnknownMeal(t *testing.T) {
	intake, _ := newTestIntake(t, &routingCompleter{})

	_, err := intake.CommitMeal(context.Background(), intakeUser(), "brunch", []ResolvedFood{{Name: "ovo"}})
	require.Error(t, err)
	var appErr *internal.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestHandleTurn_WorkoutPersistsImmediately(t *testing.T) {
	completer := &routingCompleter{
		classify: func(string) (string, error) {
			return `{"type":"workout","workouts":[{"name":"corrida","duration":30,"intensity":"intenso"}]}`, nil
		},
	}
	intake, store := newTestIntake(t, completer)
	user := intakeUser()

	result := intake.HandleTurn(context.Background(), user, "corri 30 minutos", nil, nil)
	assert.Equal(t, ai.IntentWorkout, result.Type)
	require.Len(t, result.Exercises, 1)
	assert.Nil(t, result.Pending)

	ex := result.Exercises[0]
	assert.Equal(t, 30, ex.DurationMinutes)
	assert.Equal(t, 4, ex.Intensity)
	assert.InDelta(t, 280, ex.CaloriesBurned, 0.001) // 8.0 MET * 70kg * 0.5h

	saved, err := store.ListExercises(context.Background(), user.ID, ex.Timestamp)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestHandleTurn_WorkoutFollowUpRoundTrip(t *testing.T) {
	completer := &routingCompleter{
		classify: func(string) (string, error) {
			return `{"type":"workout","followUpQuestion":"Quantos minutos de musculação você fez?","activity":"musculação"}`, nil
		},
	}
	intake, _ := newTestIntake(t, completer)
	user := intakeUser()

	first := intake.HandleTurn(context.Background(), user, "fiz musculação", nil, nil)
	assert.Equal(t, ai.IntentWorkout, first.Type)
	assert.NotEmpty(t, first.FollowUpQuestion)
	require.NotNil(t, first.Pending)
	assert.Equal(t, PendingWorkoutFollowUp, first.Pending.Kind)
	require.NotNil(t, first.Pending.Workout)
	assert.Equal(t, "musculação", first.Pending.Workout.Name)

	// The reply is interpreted against the held workout, not reclassified.
	second := intake.HandleTurn(context.Background(), user, "foram 45 minutos", first.Pending, nil)
	assert.Equal(t, ai.IntentWorkout, second.Type)
	require.Len(t, second.Exercises, 1)
	assert.Equal(t, 45, second.Exercises[0].DurationMinutes)
	assert.InDelta(t, 262.5, second.Exercises[0].CaloriesBurned, 0.001) // 5.0 MET * 70kg * 0.75h
	assert.Nil(t, second.Pending)
}

func TestHandleTurn_FreeFormFollowUpKeepsActivityName(t *testing.T) {
	// The model may phrase the question however it likes; the activity that
	// ends up on the persisted row comes from the structured field, never
	// from the question text.
	completer := &routingCompleter{
		classify: func(string) (string, error) {
			return `{"type":"workout","followUpQuestion":"Por quanto tempo você praticou surfe?","activity":"surfe"}`, nil
		},
	}
	intake, store := newTestIntake(t, completer)
	user := intakeUser()

	first := intake.HandleTurn(context.Background(), user, "fui surfar hoje", nil, nil)
	require.NotNil(t, first.Pending)
	require.NotNil(t, first.Pending.Workout)
	assert.Equal(t, "surfe", first.Pending.Workout.Name)

	second := intake.HandleTurn(context.Background(), user, "45 minutos", first.Pending, nil)
	require.Len(t, second.Exercises, 1)
	assert.Equal(t, "surfe", second.Exercises[0].Type)

	saved, err := store.ListExercises(context.Background(), user.ID, second.Exercises[0].Timestamp)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "surfe", saved[0].Type)
}

func TestHandleTurn_FollowUpAnswerInHours(t *testing.T) {
	intake, _ := newTestIntake(t, &routingCompleter{})
	pending := &PendingContext{
		Kind:    PendingWorkoutFollowUp,
		Workout: &IncompleteWorkout{Name: "ciclismo"},
	}

	result := intake.HandleTurn(context.Background(), intakeUser(), "umas 2 horas", pending, nil)
	require.Len(t, result.Exercises, 1)
	assert.Equal(t, 120, result.Exercises[0].DurationMinutes)
}

func TestParseDurationMinutes(t *testing.T) {
	assert.Equal(t, 45, parseDurationMinutes("foram 45 minutos"))
	assert.Equal(t, 45, parseDurationMinutes("45"))
	assert.Equal(t, 30, parseDurationMinutes("30 min"))
	assert.Equal(t, 120, parseDurationMinutes("2 horas"))
	assert.Equal(t, 60, parseDurationMinutes("1 hora"))
	assert.Equal(t, 60, parseDurationMinutes("1h"))
	assert.Equal(t, 0, parseDurationMinutes("não lembro"))
}

func TestHandleTurn_GuestWorkoutIsNotPersisted(t *testing.T) {
	completer := &routingCompleter{
		classify: func(string) (string, error) {
			return `{"type":"workout","workouts":[{"name":"corrida","duration":30,"intensity":"moderado"}]}`, nil
		},
	}
	intake, store := newTestIntake(t, completer)
	guest := auth.GuestUser()

	result := intake.HandleTurn(context.Background(), guest, "corri 30 minutos", nil, nil)
	assert.Equal(t, ai.IntentWorkout, result.Type)
	require.Len(t, result.Exercises, 1)
	assert.InDelta(t, 280, result.Exercises[0].CaloriesBurned, 0.001) // computed, 70kg guest

	saved, err := store.ListExercises(context.Background(), guest.ID, result.Exercises[0].Timestamp)
	require.NoError(t, err)
	assert.Empty(t, saved, "guest turns must leave no durable rows")
}

func TestHandleTurn_FollowUpWithoutNumberReAsks(t *testing.T) {
	intake, _ := newTestIntake(t, &routingCompleter{})
	pending := &PendingContext{
		Kind:     PendingWorkoutFollowUp,
		Workout:  &IncompleteWorkout{Name: "corrida"},
		Question: "Quantos minutos de corrida você fez?",
	}

	result := intake.HandleTurn(context.Background(), intakeUser(), "não lembro", pending, nil)
	assert.Equal(t, ai.IntentWorkout, result.Type)
	assert.Equal(t, pending.Question, result.FollowUpQuestion)
	assert.Equal(t, pending, result.Pending)
	assert.Empty(t, result.Exercises)
}

type flakyLogRepo struct {
	storage.FoodLogRepository
	calls int
}

func (f *flakyLogRepo) CreateFoodLog(ctx context.Context, log *internal.FoodLog) error {
	f.calls++
	if f.calls > 1 {
		return errors.New("disk full")
	}
	return f.FoodLogRepository.CreateFoodLog(ctx, log)
}

func TestCommitMeal_PartialFailureReportsCommittedCount(t *testing.T) {
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	store, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "data.json"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	completer := &routingCompleter{}
	intake := NewIntake(
		ai.NewClassifier(completer, logger),
		ai.NewEstimator(completer, logger),
		ai.NewResponder(completer, logger),
		store, &flakyLogRepo{FoodLogRepository: store}, store,
		logger,
	)

	entries, err := intake.CommitMeal(context.Background(), intakeUser(), internal.MealDinner, []ResolvedFood{
		{Name: "frango", Calories: 330, Protein: 62, Portion: 200, Unit: "g"},
		{Name: "arroz", Calories: 130, Carbs: 28, Portion: 100, Unit: "g"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "committed 1 of 2")
	assert.Len(t, entries, 1, "the successful log is still reported to the caller")
}

func TestHandleTurn_PartialEstimationFailureKeepsRest(t *testing.T) {
	completer := &routingCompleter{
		classify: func(string) (string, error) {
			return `{"type":"food","foods":[{"name":"frango","portion":200,"unit":"g"},{"name":"arroz","portion":100,"unit":"g"}]}`, nil
		},
		estimate: func(prompt string) (string, error) {
			if strings.Contains(prompt, "arroz") {
				return "", errors.New("timeout")
			}
			return `{"name":"frango","calories":330,"protein":62,"carbs":0,"fat":7.2,"portion":200,"unit":"g"}`, nil
		},
	}
	intake, _ := newTestIntake(t, completer)

	result := intake.HandleTurn(context.Background(), intakeUser(), "frango e arroz", nil, nil)
	assert.Equal(t, ai.IntentFood, result.Type)
	require.Len(t, result.Foods, 1)
	assert.Equal(t, "frango", result.Foods[0].Name)
}

func TestHandleTurn_BackendDownDegradesToFallback(t *testing.T) {
	down := func(string) (string, error) { return "", errors.New("connection refused") }
	intake, _ := newTestIntake(t, &routingCompleter{classify: down, estimate: down, respond: down})

	result := intake.HandleTurn(context.Background(), intakeUser(), "comi 200g de frango", nil, nil)
	assert.Equal(t, ai.IntentQuestion, result.Type)
	assert.Equal(t, ai.FallbackMessage, result.Answer)
}

func TestHandleTurn_QuestionUsesResponder(t *testing.T) {
	completer := &routingCompleter{
		classify: func(string) (string, error) { return `{"type":"question"}`, nil },
		respond: func(prompt string) (string, error) {
			return fmt.Sprintf("Sobre %q: um ovo tem cerca de 70 kcal.", prompt), nil
		},
	}
	intake, _ := newTestIntake(t, completer)

	result := intake.HandleTurn(context.Background(), intakeUser(), "quantas calorias tem um ovo?", nil, nil)
	assert.Equal(t, ai.IntentQuestion, result.Type)
	assert.Contains(t, result.Answer, "70 kcal")
}

func TestNormalizeFood_RescalesTo100g(t *testing.T) {
	food := NormalizeFood("frango", 330, 62, 0, 7.2, 200)
	assert.Equal(t, 165.0, food.Calories)
	assert.Equal(t, 31.0, food.Protein)
	assert.Equal(t, 3.6, food.Fat)
	assert.Equal(t, 100.0, food.ServingSize)
	assert.Equal(t, "g", food.ServingUnit)
	assert.NotEmpty(t, food.ID)

	// A zero portion is treated as the canonical serving itself.
	assert.Equal(t, 89.0, NormalizeFood("banana", 89, 1.1, 23, 0.3, 0).Calories)
}

func TestWorkoutFromQuestion(t *testing.T) {
	assert.Equal(t, "musculação", workoutFromQuestion("Quantos minutos de musculação você fez?").Name)
	assert.Equal(t, "corrida", workoutFromQuestion("Quantos minutos de corrida você fez?").Name)
}
