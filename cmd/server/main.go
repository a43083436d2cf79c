// cmd/server/main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/zerosite/zerosite/internal/app"
	"github.com/zerosite/zerosite/internal/config"
	"github.com/zerosite/zerosite/internal/utils"
)

func main() {
	log.Println("🚀 启动 Zero 内容服务器...")

	// 1. 加载配置
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	log.Printf("✅ 配置加载完成，端口: %s", cfg.Port)

	// 2. 创建必要的目录
	if err := app.CreateDirectories(cfg); err != nil {
		log.Fatalf("%v", err)
	}

	// 3. 初始化日志
	if err := utils.InitLogger(filepath.Join(cfg.LogDir, "server.log"), cfg.DebugMode); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	// 4. 初始化服务与路由
	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("初始化应用失败", map[string]interface{}{"error": err})
	}

	// 5. 启动服务器，收到中断信号后优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("🔗 访问地址: http://localhost:%s/api/zero", cfg.Port)
	if err := application.Run(ctx); err != nil {
		logger.Fatal("服务器异常退出", map[string]interface{}{"error": err})
	}
	log.Println("✅ 服务器已退出")
}
