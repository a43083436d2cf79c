package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zerosite/zerosite/internal/config"
	"github.com/zerosite/zerosite/internal/di"
	"github.com/zerosite/zerosite/internal/utils"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Port = "0"
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.LogDir = filepath.Join(dir, "logs")
	cfg.DocumentPath = filepath.Join(cfg.DataDir, "zero.txt")
	return cfg
}

func TestCreateDirectories(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, CreateDirectories(cfg))
	for _, dir := range []string{cfg.DataDir, cfg.LogDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestInitServices_RegistersEverything(t *testing.T) {
	container := di.NewContainer()
	logger := utils.NewLogger(zap.NewNop())

	require.NoError(t, InitServices(testConfig(t), container, logger))
	assert.Equal(t, []string{di.ServiceBlogImage, di.ServiceMenu, di.ServiceMetrics, di.ServiceZero}, container.GetNames())
}

func TestNew_ServesContent(t *testing.T) {
	di.GetContainer().Clear()
	t.Cleanup(di.GetContainer().Clear)

	cfg := testConfig(t)
	require.NoError(t, CreateDirectories(cfg))
	require.NoError(t, os.WriteFile(cfg.DocumentPath, []byte("Chapter 1: Zero\nChapter 1: Zero\nPrinciple 1: Begin.\n"), 0644))

	a, err := New(cfg, utils.NewLogger(zap.NewNop()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/zero/chapters/1/principles/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"chapter-1-principle-1"`)
}

func TestRun_ShutsDownWhenContextEnds(t *testing.T) {
	di.GetContainer().Clear()
	t.Cleanup(di.GetContainer().Clear)

	a, err := New(testConfig(t), utils.NewLogger(zap.NewNop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run 未在超时时间内返回")
	}
}

func TestRun_ReturnsListenError(t *testing.T) {
	di.GetContainer().Clear()
	t.Cleanup(di.GetContainer().Clear)

	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	cfg.Port = port

	a, err := New(cfg, utils.NewLogger(zap.NewNop()))
	require.NoError(t, err)

	// 端口被占用时 Run 返回错误，同组的其他任务随之退出
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "启动服务器失败")
	case <-time.After(5 * time.Second):
		t.Fatal("Run 未在超时时间内返回")
	}
}
