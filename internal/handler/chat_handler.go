// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"village-go/internal/model"
	"village-go/internal/service"
	"village-go/pkg/log"
)

// ChatHandler 负责处理聊天代理的 API 请求。
// 聊天端点是匿名的：访客无需登录即可倾诉。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest 定义了聊天 API 的请求体结构：完整的对话 transcript。
type ChatRequest struct {
	Messages []model.ChatMessage `json:"messages"`
}

// Chat 处理一轮聊天请求，返回一条助手回复。
// 供应商失败已在 service 层被吸收，这里只有请求体解析会失败。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Chat: Invalid request payload, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response"})
		return
	}

	reply, err := h.chatService.Reply(c.Request.Context(), req.Messages)
	if err != nil {
		log.Error("Chat: Failed to produce reply", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
