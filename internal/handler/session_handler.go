package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"village-go/internal/model"
	"village-go/internal/service"
	"village-go/pkg/log"
	"village-go/pkg/token"
)

// SessionHandler 处理聊天会话历史的 API 请求。会话按用户隔离存储。
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler 创建一个新的 SessionHandler 实例。
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// ListSessions 返回当前用户的全部会话，最近的在前。
// 存储异常在 service 层被降级为空列表，不会让历史页面打不开。
func (h *SessionHandler) ListSessions(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)

	sessions, err := h.sessionService.Load(c.Request.Context(), claims.UserID)
	if err != nil {
		log.Error("ListSessions: Failed to load sessions", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to load chat sessions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    sessions,
	})
}

// SaveSessionRequest 定义了保存会话 API 的请求体结构。
type SaveSessionRequest struct {
	Messages       []model.ChatMessage  `json:"messages" binding:"required"`
	MatchedStories []model.MatchedStory `json:"matchedStories"`
}

// SaveSession 以路径参数中的会话 ID 为键 upsert 一次会话。
// 不满足持久化条件的会话（只有问候语、没有用户消息）会被静默忽略。
func (h *SessionHandler) SaveSession(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	sessionID := c.Param("id")

	var req SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SaveSession: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：messages 不能为空",
		})
		return
	}

	if err := h.sessionService.Save(c.Request.Context(), claims.UserID, sessionID, req.Messages, req.MatchedStories); err != nil {
		log.Error("SaveSession: Failed to save session", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to save chat session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}

// DeleteSession 按 ID 删除一次会话，删除不存在的 ID 同样返回成功。
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	sessionID := c.Param("id")

	if err := h.sessionService.Delete(c.Request.Context(), claims.UserID, sessionID); err != nil {
		log.Error("DeleteSession: Failed to delete session", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to delete chat session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}

// ClearSessions 删除当前用户的全部会话。
func (h *SessionHandler) ClearSessions(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)

	if err := h.sessionService.Clear(c.Request.Context(), claims.UserID); err != nil {
		log.Error("ClearSessions: Failed to clear sessions", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to clear chat sessions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}
