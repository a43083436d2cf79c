// internal/api/router.go
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zerosite/zerosite/internal/config"
	"github.com/zerosite/zerosite/internal/di"
	"github.com/zerosite/zerosite/internal/models"
	"github.com/zerosite/zerosite/internal/services"
	"github.com/zerosite/zerosite/internal/utils"
)

// SetupRouter 从容器取出已注册的服务并配置HTTP路由
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()
	container := di.GetContainer()

	zeroService, err := di.Lookup[ZeroPages](container, di.ServiceZero)
	if err != nil {
		return nil, fmt.Errorf("内容服务未正确初始化: %w", err)
	}

	blogImageService, err := di.Lookup[services.BlogImageGenerator](container, di.ServiceBlogImage)
	if err != nil {
		return nil, fmt.Errorf("配图服务未正确初始化: %w", err)
	}

	menuService, err := di.Lookup[services.MenuSuggester](container, di.ServiceMenu)
	if err != nil {
		return nil, fmt.Errorf("菜单服务未正确初始化: %w", err)
	}

	metrics, err := di.Lookup[*utils.APIMetrics](container, di.ServiceMetrics)
	if err != nil {
		return nil, fmt.Errorf("指标服务未正确初始化: %w", err)
	}

	logger := utils.GetLogger()
	handler := NewHandler(zeroService, blogImageService, menuService, metrics, logger, cfg.NarrationAckTimeout)

	return NewRouter(cfg, handler), nil
}

// NewRouter 使用给定的处理器构建路由
func NewRouter(cfg *config.AppConfig, handler *Handler) *gin.Engine {
	registerValidation()

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// 限流按客户端IP计算，只信任配置的代理转发的地址头
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		handler.Logger.Warn("可信代理配置无效，忽略转发头", map[string]interface{}{
			"trusted_proxies": cfg.TrustedProxies,
			"error":           err,
		})
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		handler.Logger.Error("处理请求时发生panic", map[string]interface{}{
			"path":      c.Request.URL.Path,
			"recovered": fmt.Sprint(recovered),
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.FunctionError{
			Error:   MessageInternalServerFail,
			Details: fmt.Sprint(recovered),
		})
	}))
	r.Use(requestIDMiddleware())
	r.Use(requestLogger(handler.Logger, handler.Metrics))
	r.Use(corsMiddleware())

	r.GET("/healthz", handler.Health)

	// ===============================
	// 占位函数（保持原有的函数路径）
	// ===============================
	limiter := NewRateLimiter()
	functions := r.Group("/", RateLimitByIP(limiter, cfg.RateLimitPerMinute, time.Minute))
	{
		functions.POST("/generateBlogImage", handler.GenerateBlogImage)
		functions.POST("/menuSuggestionFlow", handler.MenuSuggestionFlow)
	}

	// ===============================
	// 朗读流
	// ===============================
	r.GET("/ws/zero/narrate", handler.Narration.Narrate)

	// ===============================
	// API路由组
	// ===============================
	api := r.Group("/api")
	{
		zeroGroup := api.Group("/zero")
		{
			zeroGroup.GET("", handler.GetZero)
			zeroGroup.GET("/chapters/:chapter", handler.GetChapter)
			zeroGroup.GET("/chapters/:chapter/principles/:principle", handler.GetPrinciple)
		}

		api.GET("/metrics", handler.GetMetrics)
	}

	return r
}
