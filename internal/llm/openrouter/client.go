// Package openrouter 通过 OpenRouter 的 chat completions 接口
// 调用大模型，作为意图未命中时的兜底回复来源。
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	xerrors "NeoLink/internal/errors"
	"NeoLink/internal/llm"
)

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultModel       = "anthropic/claude-3-haiku"
	defaultMaxTokens   = 300
	defaultTemperature = 0.7
	defaultTimeout     = 10 * time.Second
)

// Config 控制 OpenRouter 客户端的行为。
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client 是 llm.Client 的 OpenRouter 实现。
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建客户端，未显式配置的字段使用默认值。
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, xerrors.New(xerrors.CodeInitFailure, "openrouter: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete 实现 llm.Client，发起一次对话补全。
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserMessage})

	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "openrouter: marshal request")
	}

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "openrouter: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "openrouter: call api")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, xerrors.New(xerrors.CodeProviderUnavailable,
			fmt.Sprintf("openrouter: api returned status %d", resp.StatusCode))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "openrouter: decode response")
	}
	if decoded.Error != nil {
		return nil, xerrors.New(xerrors.CodeProviderUnavailable, "openrouter: "+decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return nil, xerrors.New(xerrors.CodeProviderUnavailable, "openrouter: empty choices")
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	return &llm.Response{Text: text, Model: c.cfg.Model}, nil
}

var _ llm.Client = (*Client)(nil)
