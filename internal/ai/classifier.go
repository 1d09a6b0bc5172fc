package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

type IntentType string

const (
	IntentFood     IntentType = "food"
	IntentWorkout  IntentType = "workout"
	IntentQuestion IntentType = "question"
)

// FoodMention is a food reference extracted from free text, before any
// nutrition resolution. Unit is always one of g, ml or unidade.
type FoodMention struct {
	Name    string  `json:"name"`
	Portion float64 `json:"portion"`
	Unit    string  `json:"unit"`
}

// WorkoutMention is an activity reference. DurationMinutes is 0 when the user
// did not say how long; the caller must ask instead of guessing.
type WorkoutMention struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration"`
	Intensity       string `json:"intensity"`
}

// Intent is the validated classification of one utterance. Exactly one of the
// payload fields is meaningful for a given Type. Activity names the incomplete
// workout alongside FollowUpQuestion, so the next turn does not have to parse
// the question text.
type Intent struct {
	Type             IntentType
	Foods            []FoodMention
	Workouts         []WorkoutMention
	FollowUpQuestion string
	Activity         string
}

// FallbackMessage is what the user sees whenever the completion backend is
// unreachable or returns something unusable.
const FallbackMessage = "Desculpe, ocorreu um erro ao processar sua mensagem. Tente novamente."

const classifierSystemPrompt = `Você é o analisador de entradas do FitMind, um app de nutrição e treino.
Classifique a mensagem do usuário e extraia os dados em JSON, usando exatamente um destes formatos:

1. Alimentos consumidos:
{"type":"food","foods":[{"name":"nome do alimento","portion":número,"unit":"g|ml|unidade"}]}
- Extraia TODOS os alimentos mencionados, não apenas o primeiro.
- Normalize unidades para g, ml ou unidade. Sem quantidade informada, use portion 100 e unit "g".

2. Treino com duração informada:
{"type":"workout","workouts":[{"name":"atividade","duration":minutos,"intensity":"leve|moderado|intenso"}]}

3. Treino SEM duração informada (nunca invente a duração):
{"type":"workout","followUpQuestion":"pergunta curta citando a atividade","activity":"nome da atividade"}

4. Qualquer outra coisa (perguntas, conversa):
{"type":"question"}

Responda somente com o JSON.`

// Classifier turns free text into a validated Intent. Any backend or shape
// failure degrades to a question intent; it never returns an error to the
// conversational layer.
type Classifier struct {
	completer Completer
	logger    internal.Logger
}

func NewClassifier(completer Completer, logger internal.Logger) *Classifier {
	return &Classifier{completer: completer, logger: logger}
}

// rawIntent mirrors the loosely-typed JSON the model emits. It is validated
// into an Intent before anything downstream sees it.
type rawIntent struct {
	Type             string           `json:"type"`
	Foods            []FoodMention    `json:"foods"`
	Workouts         []WorkoutMention `json:"workouts"`
	FollowUpQuestion string           `json:"followUpQuestion"`
	Activity         string           `json:"activity"`
}

func (c *Classifier) Classify(ctx context.Context, text string, user *internal.User) Intent {
	prompt := fmt.Sprintf("Contexto do usuário: sexo %s, %d anos, %.1fkg, objetivo %s.\nMensagem: %s",
		user.Sex, user.Age, user.Weight, user.Goal, text)

	content, err := c.completer.Complete(ctx, CompletionRequest{
		System:   classifierSystemPrompt,
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		c.logger.Errorf("classifier: completion failed: %v", err)
		return Intent{Type: IntentQuestion}
	}

	jsonStr, ok := extractJSON(content)
	if !ok {
		c.logger.Warnf("classifier: no JSON in model output: %q", content)
		return Intent{Type: IntentQuestion}
	}

	var raw rawIntent
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		c.logger.Warnf("classifier: unparseable model output: %v", err)
		return Intent{Type: IntentQuestion}
	}

	return validateIntent(raw)
}

// validateIntent enforces the output contract. A shape mismatch never crashes
// the pipeline; it collapses to a question intent instead.
func validateIntent(raw rawIntent) Intent {
	switch IntentType(raw.Type) {
	case IntentFood:
		foods := make([]FoodMention, 0, len(raw.Foods))
		for _, f := range raw.Foods {
			if strings.TrimSpace(f.Name) == "" {
				continue
			}
			if f.Portion <= 0 {
				f.Portion = 100
				f.Unit = "g"
			}
			f.Unit = normalizeUnit(f.Unit)
			foods = append(foods, f)
		}
		if len(foods) == 0 {
			return Intent{Type: IntentQuestion}
		}
		return Intent{Type: IntentFood, Foods: foods}

	case IntentWorkout:
		if q := strings.TrimSpace(raw.FollowUpQuestion); q != "" {
			return Intent{
				Type:             IntentWorkout,
				FollowUpQuestion: q,
				Activity:         strings.TrimSpace(raw.Activity),
			}
		}
		workouts := make([]WorkoutMention, 0, len(raw.Workouts))
		incomplete := ""
		for _, w := range raw.Workouts {
			if strings.TrimSpace(w.Name) == "" {
				continue
			}
			if w.DurationMinutes <= 0 {
				incomplete = w.Name
				continue
			}
			workouts = append(workouts, w)
		}
		// A model that forgot to ask still must not produce a guessed burn.
		if incomplete != "" && len(workouts) == 0 {
			return Intent{
				Type:             IntentWorkout,
				FollowUpQuestion: fmt.Sprintf("Quantos minutos de %s você fez?", incomplete),
				Activity:         incomplete,
			}
		}
		if len(workouts) == 0 {
			return Intent{Type: IntentQuestion}
		}
		return Intent{Type: IntentWorkout, Workouts: workouts}

	case IntentQuestion:
		return Intent{Type: IntentQuestion}
	}
	return Intent{Type: IntentQuestion}
}

// normalizeUnit maps ad-hoc phrasing onto the three recognized physical
// units. Anything unknown is treated as grams.
func normalizeUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "grama", "gramas", "gr":
		return "g"
	case "ml", "mililitro", "mililitros", "l", "litro", "litros":
		return "ml"
	case "unidade", "unidades", "un", "und", "fatia", "fatias":
		return "unidade"
	}
	return "g"
}
