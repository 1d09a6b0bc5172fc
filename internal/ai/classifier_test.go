package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

type stubCompleter struct {
	fn func(req CompletionRequest) (string, error)
}

func (s *stubCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	return s.fn(req)
}

func testLogger() internal.Logger {
	return internal.NewZapLogger(zap.NewNop().Sugar())
}

func fixedCompleter(content string, err error) *stubCompleter {
	return &stubCompleter{fn: func(CompletionRequest) (string, error) { return content, err }}
}

func classifierUser() *internal.User {
	return &internal.User{ID: "u1", Age: 25, Sex: internal.SexMale, Weight: 70, Goal: internal.GoalMaintain}
}

func TestClassify_MultipleFoodMentions(t *testing.T) {
	c := NewClassifier(fixedCompleter(
		`{"type":"food","foods":[{"name":"frango","portion":200,"unit":"g"},{"name":"arroz","portion":100,"unit":"g"}]}`,
		nil), testLogger())

	intent := c.Classify(context.Background(), "200g de frango e 100g de arroz", classifierUser())
	assert.Equal(t, IntentFood, intent.Type)
	assert.Len(t, intent.Foods, 2)
	assert.Equal(t, "frango", intent.Foods[0].Name)
	assert.Equal(t, 200.0, intent.Foods[0].Portion)
	assert.Equal(t, "arroz", intent.Foods[1].Name)
}

func TestClassify_DefaultsPortionAndNormalizesUnit(t *testing.T) {
	c := NewClassifier(fixedCompleter(
		`{"type":"food","foods":[{"name":"banana"},{"name":"leite","portion":250,"unit":"mililitros"}]}`,
		nil), testLogger())

	intent := c.Classify(context.Background(), "banana e leite", classifierUser())
	assert.Equal(t, IntentFood, intent.Type)
	assert.Equal(t, 100.0, intent.Foods[0].Portion)
	assert.Equal(t, "g", intent.Foods[0].Unit)
	assert.Equal(t, "ml", intent.Foods[1].Unit)
}

func TestClassify_WorkoutWithDuration(t *testing.T) {
	c := NewClassifier(fixedCompleter(
		`{"type":"workout","workouts":[{"name":"corrida","duration":30,"intensity":"moderado"}]}`,
		nil), testLogger())

	intent := c.Classify(context.Background(), "corri 30 minutos", classifierUser())
	assert.Equal(t, IntentWorkout, intent.Type)
	assert.Len(t, intent.Workouts, 1)
	assert.Equal(t, 30, intent.Workouts[0].DurationMinutes)
	assert.Empty(t, intent.FollowUpQuestion)
}

func TestClassify_MissingDurationYieldsFollowUp(t *testing.T) {
	c := NewClassifier(fixedCompleter(
		`{"type":"workout","followUpQuestion":"Quantos minutos de musculação você fez?","activity":"musculação"}`,
		nil), testLogger())

	intent := c.Classify(context.Background(), "fiz musculação", classifierUser())
	assert.Equal(t, IntentWorkout, intent.Type)
	assert.NotEmpty(t, intent.FollowUpQuestion)
	assert.Equal(t, "musculação", intent.Activity)
	assert.Empty(t, intent.Workouts)
}

func TestClassify_FollowUpCarriesActivityRegardlessOfPhrasing(t *testing.T) {
	// The activity field is the contract; the question text is free-form and
	// must not need to be parsed downstream.
	c := NewClassifier(fixedCompleter(
		`{"type":"workout","followUpQuestion":"Por quanto tempo você praticou surfe?","activity":"surfe"}`,
		nil), testLogger())

	intent := c.Classify(context.Background(), "fui surfar hoje", classifierUser())
	assert.Equal(t, IntentWorkout, intent.Type)
	assert.Equal(t, "surfe", intent.Activity)
	assert.Equal(t, "Por quanto tempo você praticou surfe?", intent.FollowUpQuestion)
}

func TestClassify_ZeroDurationWorkoutBecomesFollowUp(t *testing.T) {
	// Even when the model forgets to ask, a missing duration must never turn
	// into a guessed burn.
	c := NewClassifier(fixedCompleter(
		`{"type":"workout","workouts":[{"name":"musculação","intensity":"intenso"}]}`,
		nil), testLogger())

	intent := c.Classify(context.Background(), "fiz musculação pesado", classifierUser())
	assert.Equal(t, IntentWorkout, intent.Type)
	assert.NotEmpty(t, intent.FollowUpQuestion)
	assert.Contains(t, intent.FollowUpQuestion, "musculação")
	assert.Equal(t, "musculação", intent.Activity)
	assert.Empty(t, intent.Workouts)
}

func TestClassify_BackendErrorFallsBackToQuestion(t *testing.T) {
	c := NewClassifier(fixedCompleter("", errors.New("connection refused")), testLogger())
	intent := c.Classify(context.Background(), "200g de frango", classifierUser())
	assert.Equal(t, IntentQuestion, intent.Type)
}

func TestClassify_MalformedOutputFallsBackToQuestion(t *testing.T) {
	for _, content := range []string{
		"claro! aqui está a resposta",
		`{"type":"banquete"}`,
		`{"type":"food","foods":[]}`,
		`{"type":"food","foods":[{"name":"   "}]}`,
	} {
		c := NewClassifier(fixedCompleter(content, nil), testLogger())
		intent := c.Classify(context.Background(), "qualquer coisa", classifierUser())
		assert.Equal(t, IntentQuestion, intent.Type, "content=%q", content)
	}
}

func TestClassify_ExtractsJSONFromProse(t *testing.T) {
	c := NewClassifier(fixedCompleter(
		"Aqui está:\n```json\n{\"type\":\"food\",\"foods\":[{\"name\":\"ovo\",\"portion\":2,\"unit\":\"unidades\"}]}\n```",
		nil), testLogger())

	intent := c.Classify(context.Background(), "comi 2 ovos", classifierUser())
	assert.Equal(t, IntentFood, intent.Type)
	assert.Len(t, intent.Foods, 1)
	assert.Equal(t, "unidade", intent.Foods[0].Unit)
}

func TestNormalizeUnit(t *testing.T) {
	assert.Equal(t, "g", normalizeUnit("gramas"))
	assert.Equal(t, "ml", normalizeUnit("L"))
	assert.Equal(t, "unidade", normalizeUnit("fatias"))
	assert.Equal(t, "g", normalizeUnit("punhado"))
}
