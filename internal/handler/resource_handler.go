package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"village-go/internal/service"
	"village-go/pkg/log"
)

// ResourceHandler 处理支持资源目录的 API 请求，目录对所有访客公开。
type ResourceHandler struct {
	resourceService service.ResourceService
}

// NewResourceHandler 创建一个新的 ResourceHandler 实例。
func NewResourceHandler(resourceService service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// ListResources 返回目录中的全部资源。
func (h *ResourceHandler) ListResources(c *gin.Context) {
	resources, err := h.resourceService.List()
	if err != nil {
		log.Error("ListResources: Failed to list resources", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list resources",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    resources,
	})
}
