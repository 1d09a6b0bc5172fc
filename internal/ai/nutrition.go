package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

// Nutrition is an AI estimate for one exact portion of one food. Values are
// scaled to the mentioned portion, not per-100g; normalization to the
// canonical serving happens only at persistence time.
type Nutrition struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Portion  float64 `json:"portion"`
	Unit     string  `json:"unit"`
}

const estimatorSystemPrompt = `Você é um especialista em nutrição. Estime os valores nutricionais do alimento solicitado para a porção exata informada.
Retorne somente um JSON: {"name":"nome","calories":número,"protein":número,"carbs":número,"fat":número,"portion":número,"unit":"unidade"}.
Macronutrientes em gramas. Seja preciso com as estimativas.`

// Estimator resolves a food mention to nutrition facts via the completion
// backend. A failed call returns nil rather than an error value worth
// surfacing: the caller drops the mention and keeps the rest of the batch.
type Estimator struct {
	completer Completer
	logger    internal.Logger
}

func NewEstimator(completer Completer, logger internal.Logger) *Estimator {
	return &Estimator{completer: completer, logger: logger}
}

func (e *Estimator) Estimate(ctx context.Context, name string, portion float64, unit string) *Nutrition {
	prompt := fmt.Sprintf("Estime os valores nutricionais para: %.0f%s de %s", portion, unit, name)

	content, err := e.completer.Complete(ctx, CompletionRequest{
		System:   estimatorSystemPrompt,
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		e.logger.Errorf("estimator: completion failed for %q: %v", name, err)
		return nil
	}

	jsonStr, ok := extractJSON(content)
	if !ok {
		e.logger.Warnf("estimator: no JSON in model output for %q", name)
		return nil
	}

	var n Nutrition
	if err := json.Unmarshal([]byte(jsonStr), &n); err != nil {
		e.logger.Warnf("estimator: unparseable output for %q: %v", name, err)
		return nil
	}
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
		e.logger.Warnf("estimator: negative values for %q, dropping", name)
		return nil
	}
	if strings.TrimSpace(n.Name) == "" {
		n.Name = name
	}
	if n.Portion <= 0 {
		n.Portion = portion
	}
	if n.Unit == "" {
		n.Unit = unit
	}
	return &n
}
