// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/zerosite/zerosite/internal/errors"
	"github.com/zerosite/zerosite/internal/models"
	"github.com/zerosite/zerosite/internal/services"
	"github.com/zerosite/zerosite/internal/utils"
)

// ZeroPages 提供文档内容页
type ZeroPages interface {
	DocumentPage(ctx context.Context) (*models.ZeroPage, error)
	ChapterPage(ctx context.Context, number int) (*models.ChapterPage, error)
	PrinciplePage(ctx context.Context, chapter, principle int) (*models.PrinciplePage, error)
}

// Handler 处理API请求
type Handler struct {
	ZeroService      ZeroPages                   // 文档内容服务
	BlogImageService services.BlogImageGenerator // 博客配图（占位）
	MenuService      services.MenuSuggester      // 菜单建议（占位）
	Metrics          *utils.APIMetrics
	Logger           *utils.Logger
	Narration        *NarrationHandler // 朗读流
	Response         *ResponseHelper   // 响应助手
}

// NewHandler 创建API处理器
func NewHandler(
	zeroService ZeroPages,
	blogImageService services.BlogImageGenerator,
	menuService services.MenuSuggester,
	metrics *utils.APIMetrics,
	logger *utils.Logger,
	narrationAckTimeout time.Duration,
) *Handler {
	return &Handler{
		ZeroService:      zeroService,
		BlogImageService: blogImageService,
		MenuService:      menuService,
		Metrics:          metrics,
		Logger:           logger,
		Narration:        NewNarrationHandler(zeroService, narrationAckTimeout, metrics, logger),
		Response:         NewResponseHelper(logger),
	}
}

// ========================================
// 内容处理器
// ========================================

// GetZero 返回完整文档及其元数据
func (h *Handler) GetZero(c *gin.Context) {
	page, err := h.ZeroService.DocumentPage(c.Request.Context())
	if err != nil {
		h.Response.FromError(c, err, "")
		return
	}
	h.Response.Success(c, page)
}

// GetChapter 返回单个章节及其元数据
func (h *Handler) GetChapter(c *gin.Context) {
	chapter, ok := h.numberParam(c, "chapter", ErrorInvalidChapter)
	if !ok {
		return
	}

	page, err := h.ZeroService.ChapterPage(c.Request.Context(), chapter)
	if err != nil {
		h.Response.FromError(c, err, ErrorChapterNotFound)
		return
	}
	h.Response.Success(c, page)
}

// GetPrinciple 返回单个原则及其元数据
func (h *Handler) GetPrinciple(c *gin.Context) {
	chapter, ok := h.numberParam(c, "chapter", ErrorInvalidChapter)
	if !ok {
		return
	}
	principle, ok := h.numberParam(c, "principle", ErrorInvalidPrinciple)
	if !ok {
		return
	}

	page, err := h.ZeroService.PrinciplePage(c.Request.Context(), chapter, principle)
	if err != nil {
		code := ErrorPrincipleNotFound
		if apperrors.IsNotFoundError(err) {
			if _, chErr := h.ZeroService.ChapterPage(c.Request.Context(), chapter); chErr != nil {
				code = ErrorChapterNotFound
			}
		}
		h.Response.FromError(c, err, code)
		return
	}
	h.Response.Success(c, page)
}

// numberParam 解析非负整数路径参数
func (h *Handler) numberParam(c *gin.Context, name, code string) (int, bool) {
	n, err := parseNumber(c.Param(name))
	if err != nil {
		h.Response.Error(c, http.StatusBadRequest, code, name+" 必须是非负整数", err.Error())
		return 0, false
	}
	return n, true
}

func parseNumber(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// ========================================
// 运维处理器
// ========================================

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetMetrics 返回指标快照
func (h *Handler) GetMetrics(c *gin.Context) {
	h.Response.Success(c, h.Metrics.Collector().GetMetrics())
}
