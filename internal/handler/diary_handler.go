package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"village-go/internal/service"
	"village-go/pkg/log"
	"village-go/pkg/token"
)

// DiaryHandler 处理私人日记的 API 请求。日记只对作者本人可见。
type DiaryHandler struct {
	diaryService service.DiaryService
}

// NewDiaryHandler 创建一个新的 DiaryHandler 实例。
func NewDiaryHandler(diaryService service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// DiaryEntryRequest 定义了创建和更新日记 API 的请求体结构。
type DiaryEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
	Mood    string `json:"mood"`
}

// CreateEntry 创建一篇日记。
func (h *DiaryHandler) CreateEntry(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)

	var req DiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateEntry: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：content 不能为空",
		})
		return
	}

	entry, err := h.diaryService.Create(claims.UserID, req.Title, req.Content, req.Mood)
	if err != nil {
		log.Error("CreateEntry: Failed to create diary entry", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to create diary entry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    entry,
	})
}

// ListEntries 返回当前用户的全部日记，最新的在前。
func (h *DiaryHandler) ListEntries(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)

	entries, err := h.diaryService.List(claims.UserID)
	if err != nil {
		log.Error("ListEntries: Failed to list diary entries", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list diary entries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    entries,
	})
}

// GetEntry 返回当前用户的一篇日记。
func (h *DiaryHandler) GetEntry(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	entryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.diaryService.Get(claims.UserID, entryID)
	if err != nil {
		writeDiaryError(c, "GetEntry", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    entry,
	})
}

// UpdateEntry 更新当前用户的一篇日记。
func (h *DiaryHandler) UpdateEntry(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	entryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req DiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateEntry: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：content 不能为空",
		})
		return
	}

	entry, err := h.diaryService.Update(claims.UserID, entryID, req.Title, req.Content, req.Mood)
	if err != nil {
		writeDiaryError(c, "UpdateEntry", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    entry,
	})
}

// DeleteEntry 删除当前用户的一篇日记。
func (h *DiaryHandler) DeleteEntry(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	entryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.diaryService.Delete(claims.UserID, entryID); err != nil {
		writeDiaryError(c, "DeleteEntry", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}

// writeDiaryError 将日记操作的错误映射到 HTTP 状态码。
// 他人的日记对当前用户表现为不存在，避免泄露日记 ID 的存在性。
func writeDiaryError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "日记不存在",
		})
	default:
		log.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "操作失败",
		})
	}
}
