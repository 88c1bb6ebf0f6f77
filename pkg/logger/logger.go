package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 定义日志初始化配置
// Level 支持 debug/info/warn/error，Environment 支持 prod/dev 等
// Format 可强制指定 json/text，为空时 prod 使用 JSON，其余使用文本
// File 非空时同时写入按大小滚动的日志文件
type Config struct {
	Level       string
	Environment string
	Format      string
	File        string
	WithSource  bool
}

var (
	global *slog.Logger
	once   sync.Once
)

func levelFromString(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("invalid log level: " + level)
	}
}

func useJSON(cfg Config) bool {
	switch strings.ToLower(cfg.Format) {
	case "json":
		return true
	case "text":
		return false
	}
	return strings.ToLower(cfg.Environment) == "prod"
}

// RotatingWriter 返回按大小滚动的日志文件
func RotatingWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
}

// New 根据配置创建新的 slog.Logger，不设置全局实例
func New(cfg Config) (*slog.Logger, error) {
	lvl, err := levelFromString(cfg.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, RotatingWriter(cfg.File))
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl, AddSource: cfg.WithSource}
	var handler slog.Handler
	if useJSON(cfg) {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(handler), nil
}

// Init 初始化全局日志实例，重复调用将返回首次创建的 logger
func Init(cfg Config) (*slog.Logger, error) {
	var initErr error
	once.Do(func() {
		global, initErr = New(cfg)
	})
	return global, initErr
}

// L 返回已初始化的全局 logger，未初始化时 panic
func L() *slog.Logger {
	if global == nil {
		panic("logger.Init must be called before logger.L")
	}
	return global
}

// OrDefault 组件构造时使用：传入 nil 时退回 slog.Default()
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// LogReportEvent 记录周报流程事件的结构化日志
// operation: generate/refine/export/draft
// action: start/success/error/rejected
// durationMs: 处理耗时（毫秒）
// errorCode: 错误代码（可选）
func LogReportEvent(ctx context.Context, logger *slog.Logger, operation, action string, durationMs int64, errorCode string) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("action", action),
		slog.Int64("duration_ms", durationMs),
	}

	if errorCode != "" {
		attrs = append(attrs, slog.String("error_code", errorCode))
		logger.LogAttrs(ctx, slog.LevelError, "Report operation error", attrs...)
	} else {
		logger.LogAttrs(ctx, slog.LevelInfo, "Report operation event", attrs...)
	}
}
