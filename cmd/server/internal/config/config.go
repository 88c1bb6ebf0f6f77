package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config 统一配置结构
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Log    LogConfig
	AI     AIConfig
	Export ExportConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Env                string // dev, staging, production
	Port               string
	CORSAllowedOrigins []string
}

// DataConfig 数据目录与草稿存储配置
type DataConfig struct {
	Dir           string
	DraftBackend  string // file, sqlite
	DraftMaxBytes int
}

// LogConfig 日志配置
type LogConfig struct {
	Level     string // debug, info, warn, error
	Format    string // console, json
	File      string
	AuditFile string
}

// AIConfig 大模型配置
type AIConfig struct {
	Provider string // gemini, openai
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// ExportConfig PDF 导出配置
type ExportConfig struct {
	FontPath     string
	FontBoldPath string
	FileName     string
	ThemesFile   string
}

// GlobalConfig 全局配置实例
var GlobalConfig *Config

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	timeout, err := parseDuration(getEnv("AI_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}
	maxBytes, err := strconv.Atoi(getEnv("DRAFT_MAX_BYTES", "5242880"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRAFT_MAX_BYTES: %w", err)
	}

	dataDir := getEnv("DATA_DIR", "./data")
	cfg := &Config{
		Server: ServerConfig{
			Env:                getEnv("ENV", "dev"),
			Port:               getEnv("PORT", "8000"),
			CORSAllowedOrigins: parseStringList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Data: DataConfig{
			Dir:           dataDir,
			DraftBackend:  getEnv("DRAFT_BACKEND", "file"),
			DraftMaxBytes: maxBytes,
		},
		Log: LogConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "console"),
			File:      getEnv("LOG_FILE", ""),
			AuditFile: getEnv("AUDIT_LOG_FILE", filepath.Join(dataDir, "audit", "audit.log")),
		},
		AI: AIConfig{
			Provider: getEnv("AI_PROVIDER", "gemini"),
			APIKey:   getEnv("AI_API_KEY", ""),
			BaseURL:  getEnv("AI_BASE_URL", ""),
			Model:    getEnv("AI_MODEL", ""),
			Timeout:  timeout,
		},
		Export: ExportConfig{
			FontPath:     getEnv("EXPORT_FONT_PATH", ""),
			FontBoldPath: getEnv("EXPORT_FONT_BOLD_PATH", ""),
			FileName:     getEnv("EXPORT_FILENAME", "work_report.pdf"),
			ThemesFile:   getEnv("THEMES_FILE", ""),
		},
	}

	GlobalConfig = cfg
	return cfg, nil
}

// ValidateConfig 验证配置的有效性
func ValidateConfig(cfg *Config) error {
	var errors []string

	// 1. 端口验证
	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid PORT value: %s (must be 1-65535)", cfg.Server.Port))
	}

	// 2. 日志级别验证
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Log.Level] {
		errors = append(errors, fmt.Sprintf("invalid LOG_LEVEL: %s (must be: debug, info, warn, error)", cfg.Log.Level))
	}

	// 3. 日志格式验证
	validLogFormats := map[string]bool{"console": true, "json": true}
	if !validLogFormats[cfg.Log.Format] {
		errors = append(errors, fmt.Sprintf("invalid LOG_FORMAT: %s (must be: console, json)", cfg.Log.Format))
	}

	// 4. 环境验证
	validEnvs := map[string]bool{"dev": true, "development": true, "staging": true, "production": true}
	if !validEnvs[cfg.Server.Env] {
		errors = append(errors, fmt.Sprintf("invalid ENV: %s (must be: dev, development, staging, production)", cfg.Server.Env))
	}

	// 5. 草稿存储
	validBackends := map[string]bool{"file": true, "sqlite": true}
	if !validBackends[cfg.Data.DraftBackend] {
		errors = append(errors, fmt.Sprintf("invalid DRAFT_BACKEND: %s (must be: file, sqlite)", cfg.Data.DraftBackend))
	}
	if cfg.Data.DraftMaxBytes < 0 {
		errors = append(errors, "DRAFT_MAX_BYTES must not be negative")
	}
	if cfg.Data.Dir == "" {
		errors = append(errors, "DATA_DIR is required")
	}

	// 6. AI 配置
	validProviders := map[string]bool{"gemini": true, "openai": true}
	if !validProviders[cfg.AI.Provider] {
		errors = append(errors, fmt.Sprintf("invalid AI_PROVIDER: %s (must be: gemini, openai)", cfg.AI.Provider))
	}
	if cfg.AI.Timeout <= 0 {
		errors = append(errors, "AI_TIMEOUT must be positive")
	}
	if cfg.IsProduction() && cfg.AI.APIKey == "" {
		errors = append(errors, "AI_API_KEY is required in production environment")
	}

	// 7. 导出配置
	if cfg.Export.FileName == "" || !strings.HasSuffix(strings.ToLower(cfg.Export.FileName), ".pdf") {
		errors = append(errors, fmt.Sprintf("invalid EXPORT_FILENAME: %q (must end with .pdf)", cfg.Export.FileName))
	}
	if cfg.Export.FontBoldPath != "" && cfg.Export.FontPath == "" {
		errors = append(errors, "EXPORT_FONT_BOLD_PATH requires EXPORT_FONT_PATH")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// IsProduction 判断是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment 判断是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "dev" || c.Server.Env == "development"
}

// GetServerAddr 获取服务器监听地址
func (c *Config) GetServerAddr() string {
	return ":" + c.Server.Port
}

// LoggerFormat 转换为 logger 包使用的格式名
func (c *Config) LoggerFormat() string {
	if c.Log.Format == "json" {
		return "json"
	}
	return "text"
}

// PrintConfig 打印配置（脱敏）
func (c *Config) PrintConfig() string {
	return fmt.Sprintf(`Configuration Loaded:
  Environment: %s
  Server Port: %s
  Data:
    - Dir: %s
    - Draft Backend: %s
    - Draft Max Bytes: %d
  Logging:
    - Level: %s
    - Format: %s
    - File: %s
    - Audit File: %s
  AI:
    - Provider: %s
    - Model: %s
    - Base URL: %s
    - API Key: %s
    - Timeout: %s
  Export:
    - Font: %s
    - File Name: %s
    - Themes File: %s`,
		c.Server.Env,
		c.Server.Port,
		c.Data.Dir,
		c.Data.DraftBackend,
		c.Data.DraftMaxBytes,
		c.Log.Level,
		c.Log.Format,
		orNotSet(c.Log.File),
		orNotSet(c.Log.AuditFile),
		c.AI.Provider,
		orNotSet(c.AI.Model),
		orNotSet(c.AI.BaseURL),
		maskSecret(c.AI.APIKey),
		c.AI.Timeout,
		orNotSet(c.Export.FontPath),
		c.Export.FileName,
		orNotSet(c.Export.ThemesFile),
	)
}

// 辅助函数

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration 支持 "90s" 形式，也兼容纯数字秒数
func parseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(value)
}

// parseStringList 解析逗号分隔的字符串列表
func parseStringList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func orNotSet(v string) string {
	if v == "" {
		return "<not set>"
	}
	return v
}

// maskSecret 对敏感信息进行脱敏
func maskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}
