package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"village-go/internal/service"
	"village-go/pkg/log"
	"village-go/pkg/token"
)

// StoryHandler 处理故事、评论与收藏相关的 API 请求。
// 列表与详情是公开的，所有写操作都要求认证。
type StoryHandler struct {
	storyService service.StoryService
}

// NewStoryHandler 创建一个新的 StoryHandler 实例。
func NewStoryHandler(storyService service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

// parseID 解析路径参数中的数字 ID。
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的 ID 参数",
		})
		return 0, false
	}
	return uint(id), true
}

// ListStories 返回故事列表，可选 ?tags=a,b 按标签重叠过滤。
func (h *StoryHandler) ListStories(c *gin.Context) {
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	stories, err := h.storyService.ListStories(tags)
	if err != nil {
		log.Error("ListStories: Failed to list stories", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list stories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    stories,
	})
}

// GetStory 返回一条故事的详情与评论树。
func (h *StoryHandler) GetStory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	story, comments, err := h.storyService.GetStory(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    http.StatusNotFound,
				"message": "故事不存在",
			})
			return
		}
		log.Error("GetStory: Failed to load story", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to load story",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"story":    story,
			"comments": comments,
		},
	})
}

// CreateStoryRequest 定义了发布故事 API 的请求体结构。
type CreateStoryRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// CreateStory 发布一条新故事。
func (h *StoryHandler) CreateStory(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)

	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateStory: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：content 不能为空",
		})
		return
	}

	story, err := h.storyService.CreateStory(claims.UserID, req.Title, req.Content, req.Tags)
	if err != nil {
		log.Error("CreateStory: Failed to create story", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to create story",
		})
		return
	}

	log.Infof("User %d created story %d", claims.UserID, story.ID)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    story,
	})
}

// AddCommentRequest 定义了发表评论 API 的请求体结构。
type AddCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *uint  `json:"parentCommentId"`
}

// AddComment 为一条故事发表评论或回复（回复只允许一层嵌套）。
func (h *StoryHandler) AddComment(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("AddComment: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：content 不能为空",
		})
		return
	}

	comment, err := h.storyService.AddComment(claims.UserID, postID, req.ParentCommentID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"code":    http.StatusNotFound,
				"message": "故事不存在",
			})
		case errors.Is(err, service.ErrInvalidParent):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "无效的父级评论",
			})
		default:
			log.Error("AddComment: Failed to create comment", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "Failed to create comment",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    comment,
	})
}

// UpdateCommentRequest 定义了编辑评论 API 的请求体结构。
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateComment 编辑自己发表的评论。
func (h *StoryHandler) UpdateComment(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateComment: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：content 不能为空",
		})
		return
	}

	if err := h.storyService.UpdateComment(claims.UserID, commentID, req.Content); err != nil {
		writeCommentError(c, "UpdateComment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}

// DeleteComment 删除自己发表的评论及其回复。
func (h *StoryHandler) DeleteComment(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.storyService.DeleteComment(claims.UserID, commentID); err != nil {
		writeCommentError(c, "DeleteComment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}

// writeCommentError 将评论写操作的错误映射到 HTTP 状态码。
func writeCommentError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "评论不存在",
		})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"code":    http.StatusForbidden,
			"message": "只有作者本人可以操作",
		})
	default:
		log.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "操作失败",
		})
	}
}

// ToggleFavorite 切换当前用户对一条故事的收藏状态。
// 未认证的请求在中间件处就被拒绝，不会走到这里。
func (h *StoryHandler) ToggleFavorite(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	favorited, count, err := h.storyService.ToggleFavorite(claims.UserID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    http.StatusNotFound,
				"message": "故事不存在",
			})
			return
		}
		log.Error("ToggleFavorite: Failed to toggle favorite", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to toggle favorite",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"favorited":     favorited,
			"favoriteCount": count,
		},
	})
}

// ListFavorites 返回当前用户收藏的全部故事，最近收藏的在前。
func (h *StoryHandler) ListFavorites(c *gin.Context) {
	claims := c.MustGet("claims").(*token.CustomClaims)

	stories, err := h.storyService.ListFavorites(claims.UserID)
	if err != nil {
		log.Error("ListFavorites: Failed to list favorites", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list favorites",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    stories,
	})
}
