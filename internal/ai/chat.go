package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

// Responder is the free-form Q&A fallback for anything that is not a loggable
// food or workout.
type Responder struct {
	completer Completer
	logger    internal.Logger
}

func NewResponder(completer Completer, logger internal.Logger) *Responder {
	return &Responder{completer: completer, logger: logger}
}

// Respond answers the latest user message given the prior user/assistant
// turns. Backend failures degrade to the fixed fallback string, never an
// error.
func (r *Responder) Respond(ctx context.Context, history []Message, text string, user *internal.User) string {
	system := fmt.Sprintf(`Você é o FitMind AI, um assistente inteligente de nutrição e fitness.
Ajude o usuário com perguntas sobre alimentação, treino, calorias e saúde.
Seja amigável, preciso e motivador. Responda em português.
Perfil do usuário: sexo %s, %d anos, %.1fkg, %.0fcm, objetivo %s, nível de atividade %s.`,
		user.Sex, user.Age, user.Weight, user.Height, user.Goal, user.ActivityLevel)

	// Only genuine conversation reaches the model; meal prompts and other
	// system-generated turns are filtered out by the caller, but guard here
	// as well.
	filtered := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Role == "user" || m.Role == "assistant" {
			filtered = append(filtered, m)
		}
	}

	content, err := r.completer.Complete(ctx, CompletionRequest{
		System:  system,
		History: filtered,
		Prompt:  text,
	})
	if err != nil {
		r.logger.Errorf("responder: completion failed: %v", err)
		return FallbackMessage
	}
	if strings.TrimSpace(content) == "" {
		return FallbackMessage
	}
	return content
}
