package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Reasoning models interleave their chain of thought in <think> blocks;
// users only get the final answer.
var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Client proxies chat completions to an OpenAI-compatible endpoint.
type Client struct {
	http   *resty.Client
	model  string
	logger *zap.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)
	return &Client{http: httpClient, model: model, logger: logger}
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
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (*domain.Completion, error) {
	var payload chatResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "user", Content: prompt},
			},
		}).
		SetResult(&payload).
		Post("/chat/completions")
	if err != nil {
		c.logger.Error("ai request failed", zap.Error(err))
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ai error: status %d", resp.StatusCode())
	}
	if len(payload.Choices) == 0 {
		return nil, fmt.Errorf("ai response has no choices")
	}

	text := strings.TrimSpace(thinkBlock.ReplaceAllString(payload.Choices[0].Message.Content, ""))

	c.logger.Debug(
		"ai request complete",
		zap.Int("total_tokens", payload.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)

	return &domain.Completion{
		Text:             text,
		PromptTokens:     payload.Usage.PromptTokens,
		CompletionTokens: payload.Usage.CompletionTokens,
		TotalTokens:      payload.Usage.TotalTokens,
	}, nil
}
