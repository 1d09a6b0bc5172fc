package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

type Message struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// CompletionRequest is the contract every AI-backed feature speaks. JSONMode
// asks the backend for a machine-parseable response; callers still validate
// the shape themselves.
type CompletionRequest struct {
	System   string
	History  []Message
	Prompt   string
	JSONMode bool
}

// Completer is the text-completion boundary. Tests swap in a stub; the
// production implementation is Client below.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     internal.Logger
}

func NewClient(apiKey, baseURL, model string, logger internal.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("ai: no API key configured")
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.History {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.1,
	}
	if req.JSONMode {
		body.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("ai: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ai: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Errorf("ai: completion backend returned %d: %s", resp.StatusCode, string(raw))
		return "", fmt.Errorf("ai: completion backend returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ai: failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("ai: completion backend returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON pulls the first balanced-looking JSON object out of a model
// reply. Models occasionally wrap the payload in prose or code fences.
func extractJSON(content string) (string, bool) {
	start := -1
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return "", false
	}
	end := -1
	for i := len(content) - 1; i > start; i-- {
		if content[i] == '}' {
			end = i
			break
		}
	}
	if end == -1 {
		return "", false
	}
	return content[start : end+1], true
}
