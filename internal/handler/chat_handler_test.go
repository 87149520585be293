package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"village-go/internal/model"
	"village-go/pkg/log"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.Init("error", "console", "")
	os.Exit(m.Run())
}

// fakeChatService 返回固定回复。
type fakeChatService struct {
	reply string
}

func (f *fakeChatService) Reply(_ context.Context, _ []model.ChatMessage) (string, error) {
	return f.reply, nil
}

func newChatRouter(reply string) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/chat", NewChatHandler(&fakeChatService{reply: reply}).Chat)
	return r
}

// 合法请求返回 200 和 {reply}
func TestChatReturnsReply(t *testing.T) {
	r := newChatRouter("I hear you, that sounds really hard.")

	body, _ := json.Marshal(ChatRequest{Messages: []model.ChatMessage{
		{Role: "user", Content: "I feel alone"},
	}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "I hear you, that sounds really hard.", resp["reply"])
}

// 无法解析的请求体返回 500 和 {error}
func TestChatMalformedBody(t *testing.T) {
	r := newChatRouter("unused")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to get response", resp["error"])
}
