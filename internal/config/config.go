// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 当前配置的单例实例
var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
)

// AppConfig 包含应用程序的所有配置
type AppConfig struct {
	// 基础配置
	Port      string `yaml:"port" json:"port"`
	DataDir   string `yaml:"data_dir" json:"data_dir"`
	LogDir    string `yaml:"log_dir" json:"log_dir"`
	DebugMode bool   `yaml:"debug_mode" json:"debug_mode"`

	// 内容相关配置
	DocumentPath string `yaml:"document_path" json:"document_path"`
	SiteURL      string `yaml:"site_url" json:"site_url"`
	SiteName     string `yaml:"site_name" json:"site_name"`

	// 占位函数配置
	PlaceholderImageURL string `yaml:"placeholder_image_url" json:"placeholder_image_url"`
	RateLimitPerMinute  int    `yaml:"rate_limit_per_minute" json:"rate_limit_per_minute"`

	// 可信代理（CIDR或IP），为空时只使用连接的对端地址识别客户端
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// 朗读流配置
	NarrationAckTimeout time.Duration `yaml:"narration_ack_timeout" json:"narration_ack_timeout"`
}

// Default 返回默认配置
func Default() *AppConfig {
	return &AppConfig{
		Port:                "8080",
		DataDir:             "data",
		LogDir:              "logs",
		DebugMode:           false,
		DocumentPath:        filepath.Join("data", "zero.txt"),
		SiteURL:             "http://localhost:8080",
		SiteName:            "Zero",
		PlaceholderImageURL: "https://via.placeholder.com/1200x630.png?text=Blog+Image",
		RateLimitPerMinute:  30,
		NarrationAckTimeout: 2 * time.Minute,
	}
}

// Load 依次从默认值、.env、环境变量和可选的YAML文件加载配置
func Load() (*AppConfig, error) {
	// 尝试加载.env文件（可选）
	_ = godotenv.Load()

	cfg := Default()
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.DebugMode = getEnvBool("DEBUG_MODE", cfg.DebugMode)
	cfg.DocumentPath = getEnv("DOCUMENT_PATH", filepath.Join(cfg.DataDir, "zero.txt"))
	cfg.SiteURL = getEnv("SITE_URL", cfg.SiteURL)
	cfg.SiteName = getEnv("SITE_NAME", cfg.SiteName)
	cfg.PlaceholderImageURL = getEnv("PLACEHOLDER_IMAGE_URL", cfg.PlaceholderImageURL)
	cfg.TrustedProxies = getEnvList("TRUSTED_PROXIES", cfg.TrustedProxies)

	var err error
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute); err != nil {
		return nil, err
	}
	if cfg.NarrationAckTimeout, err = getEnvDuration("NARRATION_ACK_TIMEOUT", cfg.NarrationAckTimeout); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile 用YAML文件中出现的字段覆盖当前配置
func (c *AppConfig) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("解析配置文件失败 %s: %w", path, err)
	}
	return nil
}

// Validate 检查配置是否可用
func (c *AppConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("端口不能为空")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("端口无效 %q: %w", c.Port, err)
	}
	if c.DocumentPath == "" {
		return fmt.Errorf("文档路径不能为空")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("限流值不能为负数: %d", c.RateLimitPerMinute)
	}
	if c.NarrationAckTimeout <= 0 {
		return fmt.Errorf("朗读确认超时必须大于0")
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	return nil
}

// getEnvList 获取逗号分隔的环境变量
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt 获取整数类型环境变量
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("环境变量 %s 不是整数: %w", key, err)
	}
	return n, nil
}

// getEnvDuration 获取时长类型环境变量，例如 "90s"
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("环境变量 %s 不是有效时长: %w", key, err)
	}
	return d, nil
}

// InitConfig 加载配置并设为当前配置
func InitConfig() (*AppConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	SetCurrentConfig(cfg)
	return cfg, nil
}

// SetCurrentConfig 替换当前配置
func SetCurrentConfig(cfg *AppConfig) {
	configMutex.Lock()
	defer configMutex.Unlock()
	currentConfig = cfg
}

// GetCurrentConfig 返回当前配置的副本
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		// 未初始化时返回默认配置
		return Default()
	}

	configCopy := *currentConfig
	configCopy.TrustedProxies = append([]string(nil), currentConfig.TrustedProxies...)
	return &configCopy
}
