package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"schedulai/core/constants"
	"schedulai/core/errors"
	"schedulai/core/logger"
)

const openRouterCompletionsURL = "https://openrouter.ai/api/v1/chat/completions"

// LLMClient is the boundary to the language model. The pipeline only
// consumes the raw text response; prompt construction lives with the client
// caller.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt string, examples []PromptMessage, userText string) (string, error)
}

// OpenRouterClient calls the OpenRouter chat-completions API.
type OpenRouterClient struct {
	apiKey string
	model  string
	client *http.Client
}

func NewOpenRouterClient(apiKey, model string) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: constants.LLMCallTimeout},
	}
}

func (c *OpenRouterClient) Complete(ctx context.Context, system string, examples []PromptMessage, userText string) (string, error) {
	messages := make([]PromptMessage, 0, len(examples)+2)
	messages = append(messages, PromptMessage{Role: "system", Content: system})
	messages = append(messages, examples...)
	messages = append(messages, PromptMessage{Role: "user", Content: userText})

	payload := map[string]any{
		"model":    c.model,
		"messages": messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to encode LLM request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to create LLM request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("OpenRouterClient:Complete:DoRequest:Error", "error", err, "model", c.model)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to fetch from LLM API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		logger.Error("OpenRouterClient:Complete:APIError", "status", resp.StatusCode, "body", string(raw))
		return "", errors.New(errors.ErrInternalServer, fmt.Sprintf("LLM API error: %d", resp.StatusCode))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to parse LLM response", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New(errors.ErrInternalServer, "LLM response missing choices")
	}

	return completion.Choices[0].Message.Content, nil
}
