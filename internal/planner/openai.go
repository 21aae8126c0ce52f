// Package planner implements the meal-plan Planner port against an
// OpenAI-compatible chat completions API.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/smartmeal/pantry-service/pkg/apperr"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-4o-mini"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OpenAIClient struct {
	cfg    Config
	client *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", apperr.New(apperr.CodeInternal, "planner API key not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "marshal planner request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "create planner request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "call planner API", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "read planner response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var decoded chatError
		if json.Unmarshal(respBody, &decoded) == nil && decoded.Error.Message != "" {
			return "", apperr.Newf(apperr.CodeInternal, "planner API error (%d): %s", resp.StatusCode, decoded.Error.Message)
		}
		return "", apperr.Newf(apperr.CodeInternal, "planner API error (%d)", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "parse planner response", err)
	}
	if len(decoded.Choices) == 0 {
		return "", apperr.New(apperr.CodeInternal, "planner returned no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}
