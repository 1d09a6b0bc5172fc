package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/ai"
	"github.com/WesleyFreitsz/FitMindAI/internal/storage"
)

type PendingKind string

const (
	// PendingMealSelection holds resolved foods until the user picks a meal.
	PendingMealSelection PendingKind = "meal_selection"
	// PendingWorkoutFollowUp holds an incomplete workout until the user
	// answers the duration question.
	PendingWorkoutFollowUp PendingKind = "workout_followup"
)

// ResolvedFood is a food with nutrition estimated for the exact mentioned
// portion. Not yet persisted; persistence normalizes to the canonical 100g
// serving.
type ResolvedFood struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Portion  float64 `json:"portion"`
	Unit     string  `json:"unit"`
	FoodID   string  `json:"foodId,omitempty"`
}

type IncompleteWorkout struct {
	Name      string `json:"name"`
	Intensity string `json:"intensity,omitempty"`
}

// PendingContext is the continuation value for a suspended turn. It travels
// to the client inside the turn result and comes back with the next request,
// so no server process has to hold conversation state in memory. A stale
// pending value is simply replaced when the user starts over.
type PendingContext struct {
	Kind     PendingKind        `json:"kind"`
	Foods    []ResolvedFood     `json:"foods,omitempty"`
	Workout  *IncompleteWorkout `json:"workout,omitempty"`
	Question string             `json:"question,omitempty"`
}

// TurnResult is what one conversational turn produces. Type mirrors the
// classified intent; Pending is non-nil when the turn suspended waiting for
// the user.
type TurnResult struct {
	Type             ai.IntentType       `json:"type"`
	Foods            []ResolvedFood      `json:"foods,omitempty"`
	Exercises        []internal.Exercise `json:"exercises,omitempty"`
	FollowUpQuestion string              `json:"followUpQuestion,omitempty"`
	Answer           string              `json:"answer,omitempty"`
	Pending          *PendingContext     `json:"pending,omitempty"`
}

var intensityLevels = map[string]int{
	internal.ActivityLight:    2,
	internal.ActivityModerate: 3,
	internal.ActivityIntense:  4,
}

func intensityLevel(intensity string) int {
	if level, ok := intensityLevels[strings.ToLower(strings.TrimSpace(intensity))]; ok {
		return level
	}
	return 3
}

// Intake sequences one conversational turn: classify, resolve or compute,
// persist what is complete, and suspend on anything that needs the user.
type Intake struct {
	classifier *ai.Classifier
	estimator  *ai.Estimator
	responder  *ai.Responder
	foods      storage.FoodRepository
	foodLogs   storage.FoodLogRepository
	exercises  storage.ExerciseRepository
	logger     internal.Logger
}

func NewIntake(
	classifier *ai.Classifier,
	estimator *ai.Estimator,
	responder *ai.Responder,
	foods storage.FoodRepository,
	foodLogs storage.FoodLogRepository,
	exercises storage.ExerciseRepository,
	logger internal.Logger,
) *Intake {
	return &Intake{
		classifier: classifier,
		estimator:  estimator,
		responder:  responder,
		foods:      foods,
		foodLogs:   foodLogs,
		exercises:  exercises,
		logger:     logger,
	}
}

// HandleTurn runs one turn of the intake pipeline. A pending follow-up makes
// the text an answer to the held workout rather than a fresh utterance; any
// other pending state is discarded (last-write-wins) and the text classified
// from scratch.
func (s *Intake) HandleTurn(ctx context.Context, user *internal.User, text string, pending *PendingContext, history []ai.Message) *TurnResult {
	if pending != nil && pending.Kind == PendingWorkoutFollowUp && pending.Workout != nil {
		return s.answerFollowUp(ctx, user, text, pending)
	}

	intent := s.classifier.Classify(ctx, text, user)

	switch intent.Type {
	case ai.IntentFood:
		return s.resolveFoods(ctx, intent.Foods)

	case ai.IntentWorkout:
		if intent.FollowUpQuestion != "" {
			workout := &IncompleteWorkout{Name: intent.Activity}
			if workout.Name == "" {
				workout = workoutFromQuestion(intent.FollowUpQuestion)
			}
			return &TurnResult{
				Type:             ai.IntentWorkout,
				FollowUpQuestion: intent.FollowUpQuestion,
				Pending: &PendingContext{
					Kind:     PendingWorkoutFollowUp,
					Workout:  workout,
					Question: intent.FollowUpQuestion,
				},
			}
		}
		return s.logWorkouts(ctx, user, intent.Workouts)

	default:
		answer := s.responder.Respond(ctx, history, text, user)
		return &TurnResult{Type: ai.IntentQuestion, Answer: answer}
	}
}

// resolveFoods estimates nutrition for every mention concurrently. Mentions
// are independent and order among siblings is cosmetic, so results are just
// collected; a failed estimation drops that one mention.
func (s *Intake) resolveFoods(ctx context.Context, mentions []ai.FoodMention) *TurnResult {
	results := make([]*ai.Nutrition, len(mentions))
	var wg sync.WaitGroup
	for i, m := range mentions {
		wg.Add(1)
		go func(i int, m ai.FoodMention) {
			defer wg.Done()
			results[i] = s.estimator.Estimate(ctx, m.Name, m.Portion, m.Unit)
		}(i, m)
	}
	wg.Wait()

	var foods []ResolvedFood
	for _, n := range results {
		if n == nil {
			continue
		}
		foods = append(foods, ResolvedFood{
			Name:     n.Name,
			Calories: n.Calories,
			Protein:  n.Protein,
			Carbs:    n.Carbs,
			Fat:      n.Fat,
			Portion:  n.Portion,
			Unit:     n.Unit,
		})
	}

	if len(foods) == 0 {
		return &TurnResult{Type: ai.IntentQuestion, Answer: ai.FallbackMessage}
	}

	return &TurnResult{
		Type:    ai.IntentFood,
		Foods:   foods,
		Pending: &PendingContext{Kind: PendingMealSelection, Foods: foods},
	}
}

// logWorkouts computes the burn for each complete mention and persists the
// exercises immediately; workouts need no meal-style confirmation. Guest
// turns get the computed result only: nothing durable is ever written under
// the shared guest id.
func (s *Intake) logWorkouts(ctx context.Context, user *internal.User, mentions []ai.WorkoutMention) *TurnResult {
	persist := user.ID != internal.GuestUserID

	var exercises []internal.Exercise
	for _, w := range mentions {
		exercise := internal.Exercise{
			ID:              uuid.NewString(),
			UserID:          user.ID,
			Type:            w.Name,
			DurationMinutes: w.DurationMinutes,
			Intensity:       intensityLevel(w.Intensity),
			CaloriesBurned:  CalorieBurn(w.Name, user.Weight, w.DurationMinutes),
			Timestamp:       time.Now(),
		}
		if persist {
			if err := s.exercises.CreateExercise(ctx, &exercise); err != nil {
				s.logger.Errorf("intake: failed to persist exercise %q: %v", w.Name, err)
				continue
			}
		}
		exercises = append(exercises, exercise)
	}

	if len(exercises) == 0 {
		return &TurnResult{Type: ai.IntentQuestion, Answer: ai.FallbackMessage}
	}
	return &TurnResult{Type: ai.IntentWorkout, Exercises: exercises}
}

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(horas?|h\b|minutos?|min\b)?`)

// parseDurationMinutes reads a duration answer like "45", "45 minutos" or
// "2 horas". Minutes are the default unit; an hour suffix multiplies by 60.
func parseDurationMinutes(text string) int {
	match := durationPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	n, _ := strconv.Atoi(match[1])
	if strings.HasPrefix(strings.ToLower(match[2]), "h") {
		return n * 60
	}
	return n
}

// answerFollowUp interprets the user's reply against the held incomplete
// workout instead of reclassifying it as an unrelated utterance.
func (s *Intake) answerFollowUp(ctx context.Context, user *internal.User, text string, pending *PendingContext) *TurnResult {
	minutes := parseDurationMinutes(text)
	if minutes <= 0 {
		question := pending.Question
		if question == "" {
			question = fmt.Sprintf("Quantos minutos de %s você fez?", pending.Workout.Name)
		}
		return &TurnResult{
			Type:             ai.IntentWorkout,
			FollowUpQuestion: question,
			Pending:          pending,
		}
	}

	return s.logWorkouts(ctx, user, []ai.WorkoutMention{{
		Name:            pending.Workout.Name,
		DurationMinutes: minutes,
		Intensity:       pending.Workout.Intensity,
	}})
}

// workoutFromQuestion is the fallback when the model omitted the structured
// activity field: it recovers the name from the "Quantos minutos de X você
// fez?" template the classifier uses for its own synthesized questions.
func workoutFromQuestion(question string) *IncompleteWorkout {
	name := question
	if idx := strings.Index(question, " de "); idx != -1 {
		name = question[idx+4:]
	}
	name = strings.TrimSuffix(strings.TrimSpace(name), "?")
	for _, cut := range []string{" você", " voce"} {
		if idx := strings.Index(name, cut); idx != -1 {
			name = name[:idx]
		}
	}
	return &IncompleteWorkout{Name: strings.TrimSpace(name)}
}

// CommitMeal persists one FoodLog per pending food under the chosen meal,
// creating a canonical Food row first for foods that have no id yet. A
// failure partway is reported with how many logs were committed so the
// caller can surface the partial result instead of dropping it.
func (s *Intake) CommitMeal(ctx context.Context, user *internal.User, meal string, foods []ResolvedFood) ([]internal.FoodLogEntry, error) {
	if !internal.ValidMeal(meal) {
		return nil, internal.NewAppError(400, fmt.Sprintf("refeição inválida: %q", meal))
	}
	if len(foods) == 0 {
		return nil, internal.NewAppError(400, "nenhum alimento pendente para registrar")
	}

	var entries []internal.FoodLogEntry
	for i, rf := range foods {
		food, err := s.ensureFood(ctx, rf)
		if err != nil {
			return entries, fmt.Errorf("intake: committed %d of %d foods: %w", i, len(foods), err)
		}
		log := internal.FoodLog{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			FoodID:    food.ID,
			Portion:   rf.Portion,
			Meal:      meal,
			Timestamp: time.Now(),
		}
		if err := s.foodLogs.CreateFoodLog(ctx, &log); err != nil {
			return entries, fmt.Errorf("intake: committed %d of %d foods: %w", i, len(foods), err)
		}
		entries = append(entries, internal.FoodLogEntry{FoodLog: log, Food: food})
	}
	return entries, nil
}

// ensureFood returns an existing Food row or creates one normalized to the
// canonical 100g serving, so stored rows stay portion-independent.
func (s *Intake) ensureFood(ctx context.Context, rf ResolvedFood) (*internal.Food, error) {
	if rf.FoodID != "" {
		return s.foods.GetFoodByID(ctx, rf.FoodID)
	}
	food := NormalizeFood(rf.Name, rf.Calories, rf.Protein, rf.Carbs, rf.Fat, rf.Portion)
	if err := s.foods.CreateFood(ctx, food); err != nil {
		return nil, err
	}
	return food, nil
}

// NormalizeFood rescales per-portion nutrition to the canonical 100g serving
// and assigns the new row its id.
func NormalizeFood(name string, calories, protein, carbs, fat, portion float64) *internal.Food {
	if portion <= 0 {
		portion = 100
	}
	multiplier := 100 / portion
	return &internal.Food{
		ID:          uuid.NewString(),
		Name:        name,
		Calories:    round2(calories * multiplier),
		Protein:     round2(protein * multiplier),
		Carbs:       round2(carbs * multiplier),
		Fat:         round2(fat * multiplier),
		ServingSize: 100,
		ServingUnit: "g",
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Chat is the free-form Q&A surface; it shares the responder with the
// question branch of HandleTurn.
func (s *Intake) Chat(ctx context.Context, user *internal.User, history []ai.Message, text string) string {
	return s.responder.Respond(ctx, history, text, user)
}
