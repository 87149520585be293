package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"village-go/internal/config"
)

// 成功响应时返回首个 choice 的回复文本，并携带鉴权头和生成参数
func TestChatCompletionSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "That sounds really hard."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(config.ChatConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "openai/gpt-4o-mini",
		MaxTokens:   250,
		Temperature: 0.7,
	})

	reply, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "user", Content: "I feel alone"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "That sounds really hard.", reply)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "openai/gpt-4o-mini", gotReq.Model)
	assert.NotNil(t, gotReq.MaxTokens)
	assert.Equal(t, 250, *gotReq.MaxTokens)
	assert.NotNil(t, gotReq.Temperature)
	assert.InDelta(t, 0.7, *gotReq.Temperature, 1e-9)
}

// 非 200 状态码被当作错误返回
func TestChatCompletionNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(config.ChatConfig{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
}

// 空的 choices 列表被当作错误返回
func TestChatCompletionEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(config.ChatConfig{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	assert.Error(t, err)
}
