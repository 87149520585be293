// Package llm provides a client for interacting with Large Language Models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"village-go/internal/config"
)

// Client defines the interface for an LLM client.
type Client interface {
	// ChatCompletion 以 role-based 消息与可选生成参数调用聊天补全接口，
	// 返回首个 choice 的完整回复文本。
	ChatCompletion(ctx context.Context, messages []Message, gen *GenerationParams) (string, error)
}

// openrouterClient 通过 OpenRouter 的 OpenAI 兼容接口调用聊天补全。
type openrouterClient struct {
	cfg    config.ChatConfig
	client *http.Client
}

// NewClient creates a new LLM client based on the chat config.
// 供应商调用带有显式超时：慢响应按失败处理，由上层回退到 mock 路径。
func NewClient(cfg config.ChatConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &openrouterClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerationParams 控制生成行为
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
}

func (c *openrouterClient) ChatCompletion(ctx context.Context, messages []Message, gen *GenerationParams) (string, error) {
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}
	// 从配置或传参注入生成参数（传参优先生效）
	if gen != nil {
		reqBody.Temperature = gen.Temperature
		reqBody.MaxTokens = gen.MaxTokens
	} else {
		if c.cfg.Temperature != 0 {
			t := c.cfg.Temperature
			reqBody.Temperature = &t
		}
		if c.cfg.MaxTokens != 0 {
			m := c.cfg.MaxTokens
			reqBody.MaxTokens = &m
		}
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
