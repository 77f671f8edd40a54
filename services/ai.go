package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"skydeal/config"
	"skydeal/logging"
)

// CompletionClient is the outbound AI text-completion capability. Accepting
// the interface keeps every AI-backed step stubbable and leaves room to wrap
// the real client with retry or rate-limit policy later.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AIClient talks to an OpenAI-compatible chat-completions endpoint.
type AIClient struct {
	baseURL     string
	apiKey      string
	model       string
	callTimeout time.Duration
	httpClient  *http.Client
}

func NewAIClient(cfg config.Config) *AIClient {
	c := &AIClient{
		baseURL:     cfg.AIBaseURL,
		apiKey:      cfg.AIAPIKey,
		model:       cfg.AIModel,
		callTimeout: cfg.CallTimeout(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	log := logging.GetLogger()
	if c.apiKey != "" {
		log.Info("AI client initialized", zap.String("model", c.model))
	} else {
		log.Warn("AI_API_KEY not set — every AI-backed step will use its fallback default")
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues a single chat-completions request and returns the raw reply
// text. One attempt, no retry; the per-call timeout bounds the round-trip.
func (c *AIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("AI API key not configured")
	}

	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	jsonBody, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse AI response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from AI")
	}
	return parsed.Choices[0].Message.Content, nil
}
