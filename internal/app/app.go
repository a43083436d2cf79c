// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/zerosite/zerosite/internal/api"
	"github.com/zerosite/zerosite/internal/config"
	"github.com/zerosite/zerosite/internal/di"
	"github.com/zerosite/zerosite/internal/services"
	"github.com/zerosite/zerosite/internal/utils"
)

const (
	shutdownTimeout = 30 * time.Second
	metricsInterval = 5 * time.Minute
)

// App 持有服务器运行所需的全部组件
type App struct {
	Config  *config.AppConfig
	Logger  *utils.Logger
	Metrics *utils.APIMetrics
	Router  *gin.Engine
}

// criticalServices 启动前必须已注册的服务
var criticalServices = []string{
	di.ServiceZero,
	di.ServiceBlogImage,
	di.ServiceMenu,
	di.ServiceMetrics,
}

// CreateDirectories 创建应用所需的目录结构
func CreateDirectories(cfg *config.AppConfig) error {
	dirs := []string{
		cfg.DataDir,
		cfg.LogDir,
		filepath.Dir(cfg.DocumentPath),
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录失败 %s: %w", dir, err)
		}
	}
	return nil
}

// InitServices 按依赖顺序创建服务并注册到容器
func InitServices(cfg *config.AppConfig, container *di.Container, logger *utils.Logger) error {
	metrics := utils.NewAPIMetricsWith(utils.GetMetricsCollector(), logger)
	container.Register(di.ServiceMetrics, metrics)

	container.Register(di.ServiceZero, services.NewZeroService(cfg, metrics, logger))
	container.Register(di.ServiceBlogImage, services.NewPlaceholderBlogImageService(cfg.PlaceholderImageURL, logger))
	container.Register(di.ServiceMenu, services.NewPlaceholderMenuService(logger))

	if err := container.Require(criticalServices...); err != nil {
		return fmt.Errorf("服务健康检查失败: %w", err)
	}

	logger.Info("所有服务初始化完成", map[string]interface{}{
		"services": container.GetNames(),
	})
	return nil
}

// New 初始化服务并构建路由
func New(cfg *config.AppConfig, logger *utils.Logger) (*App, error) {
	config.SetCurrentConfig(cfg)
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	container := di.GetContainer()
	if err := InitServices(cfg, container, logger); err != nil {
		return nil, err
	}

	router, err := api.SetupRouter()
	if err != nil {
		return nil, fmt.Errorf("设置路由失败: %w", err)
	}

	metrics, err := di.Lookup[*utils.APIMetrics](container, di.ServiceMetrics)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Router:  router,
	}, nil
}

// Run 启动HTTP服务器，ctx 结束后优雅关闭
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("服务器启动", map[string]interface{}{
			"port":     a.Config.Port,
			"document": a.Config.DocumentPath,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("启动服务器失败: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.Metrics.RunMetricsCollection(gctx, metricsInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("正在关闭服务器...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("服务器强制关闭: %w", err)
		}
		a.Logger.Info("服务器优雅关闭完成", nil)
		return nil
	})

	return g.Wait()
}
