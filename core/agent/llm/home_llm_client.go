// Package llm wraps the chat-completion API used for region advice.
package llm

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"ruralhome_server/pkg/httputil"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = "gpt-4o-mini"

// ErrEmptyCompletion is returned when the API answers without choices.
var ErrEmptyCompletion = errors.New("llm: empty completion")

type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	usage       *UsageTracker
}

type ClientConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // 테스트나 프록시용
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(ClientConfig{APIKey: apiKey})
}

func NewClientWithConfig(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 512
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = httputil.NewClient(httputil.OpenAIClientConfig(cfg.Timeout))

	return &Client{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
		usage:       NewUsageTracker(),
	}
}

func (c *Client) Model() string { return c.model }

// Usage returns the client's token accounting.
func (c *Client) Usage() *UsageTracker { return c.usage }

func (c *Client) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, systemPrompt, userPrompt, nil)
}

// CompleteJSON asks for a JSON object response. Models may still wrap it in
// markdown fences, so callers must not assume a bare object.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, systemPrompt, userPrompt, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, format *openai.ChatCompletionResponseFormat) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
		ResponseFormat: format,
	})
	if err != nil {
		c.usage.failure()
		return "", err
	}
	c.usage.track(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// UsageTracker counts requests and tokens.
type UsageTracker struct {
	mu               sync.RWMutex
	requests         int64
	failures         int64
	promptTokens     int64
	completionTokens int64
}

func NewUsageTracker() *UsageTracker {
	return &UsageTracker{}
}

func (t *UsageTracker) track(prompt, completion int) {
	t.mu.Lock()
	t.requests++
	t.promptTokens += int64(prompt)
	t.completionTokens += int64(completion)
	t.mu.Unlock()
}

func (t *UsageTracker) failure() {
	t.mu.Lock()
	t.requests++
	t.failures++
	t.mu.Unlock()
}

type UsageStats struct {
	Requests         int64 `json:"requests"`
	Failures         int64 `json:"failures"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

func (t *UsageTracker) Stats() UsageStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return UsageStats{
		Requests:         t.requests,
		Failures:         t.failures,
		PromptTokens:     t.promptTokens,
		CompletionTokens: t.completionTokens,
	}
}

// TruncateText cuts s to maxRunes runes, appending "..." when cut.
func TruncateText(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
