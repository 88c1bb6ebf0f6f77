package main

import (
	// Standard library
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	// External dependencies
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/houzhh15/weekly-report/cmd/server/internal/api"
	"github.com/houzhh15/weekly-report/cmd/server/internal/audit"
	"github.com/houzhh15/weekly-report/cmd/server/internal/config"
	"github.com/houzhh15/weekly-report/cmd/server/internal/draft"
	"github.com/houzhh15/weekly-report/cmd/server/internal/export"
	"github.com/houzhh15/weekly-report/cmd/server/internal/llm"
	"github.com/houzhh15/weekly-report/cmd/server/internal/middleware"
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
	"github.com/houzhh15/weekly-report/cmd/server/internal/report"
	"github.com/houzhh15/weekly-report/cmd/server/internal/services"
	"github.com/houzhh15/weekly-report/cmd/server/internal/util"
	"github.com/houzhh15/weekly-report/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logInstance, err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		Format:      cfg.LoggerFormat(),
		File:        cfg.Log.File,
		WithSource:  !cfg.IsProduction(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	appLogger := logInstance.With("component", "web-server")

	// Validate configuration
	if err := config.ValidateConfig(cfg); err != nil {
		appLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	appLogger.Info("configuration loaded", "env", cfg.Server.Env, "port", cfg.Server.Port)
	appLogger.Debug(cfg.PrintConfig())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		appLogger.Error("failed to create data directory", "dir", cfg.Data.Dir, "error", err)
		os.Exit(1)
	}

	// Initialize draft store
	drafts, err := openDraftStore(cfg)
	if err != nil {
		appLogger.Error("draft store init failed", "backend", cfg.Data.DraftBackend, "error", err)
		os.Exit(1)
	}
	defer drafts.Close()
	appLogger.Info("draft store ready", "backend", cfg.Data.DraftBackend)

	// Initialize audit logger
	var auditLogger audit.AuditLogger = audit.Nop()
	if cfg.Log.AuditFile != "" {
		fileAudit := audit.NewFileAuditLogger(cfg.Log.AuditFile)
		defer fileAudit.Close()
		auditLogger = fileAudit
		appLogger.Info("audit logger ready", "file", cfg.Log.AuditFile)
	}

	// Initialize AI client
	ai, err := llm.NewClient(context.Background(), llm.Options{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		Timeout:  cfg.AI.Timeout,
	}, logInstance)
	if err != nil {
		appLogger.Warn("ai client unavailable, report generation disabled", "provider", cfg.AI.Provider, "error", err)
		ai = llm.Unavailable(err)
	} else {
		appLogger.Info("ai client ready", "provider", cfg.AI.Provider, "timeout", cfg.AI.Timeout)
	}

	// Initialize themes
	palette, err := loadPalette(cfg.Export.ThemesFile)
	if err != nil {
		appLogger.Error("failed to load themes", "file", cfg.Export.ThemesFile, "error", err)
		os.Exit(1)
	}
	presentation, err := render.NewPresentation()
	if err != nil {
		appLogger.Error("failed to parse report templates", "error", err)
		os.Exit(1)
	}

	// Initialize exporter
	rasterizer, err := export.NewFontRasterizer(cfg.Export.FontPath, cfg.Export.FontBoldPath)
	if err != nil {
		appLogger.Error("failed to load export fonts", "font", cfg.Export.FontPath, "error", err)
		os.Exit(1)
	}
	defer rasterizer.Close()
	if !rasterizer.Covers("工作周报星期一") {
		appLogger.Warn("export font has no Chinese glyphs, PDF export will fail until EXPORT_FONT_PATH points to a CJK font",
			"font", cfg.Export.FontPath)
	}
	exporter := export.NewExporter(rasterizer, filepath.Join(cfg.Data.Dir, "export"), logInstance)

	// Initialize services
	board := services.NewBoardService()
	reports := services.NewReportService(services.ReportServiceDeps{
		Board:    board,
		Store:    report.NewStore(models.DefaultReportMeta(util.WorkweekRange(time.Now()))),
		AI:       ai,
		Exporter: exporter,
		Drafts:   drafts,
		Palette:  palette,
		Audit:    auditLogger,
		Logger:   logInstance,
	})
	stats := services.NewStatisticsService(board, reports.Status)
	appLogger.Info("report services ready")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logInstance))
	r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	// Add health check endpoints
	startTime := time.Now()
	r.GET("/health", healthCheckHandler(cfg, startTime))
	r.GET("/api/v1/health", healthCheckHandler(cfg, startTime)) // Alternative API path
	r.GET("/readiness", readinessCheckHandler(cfg, drafts))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.RegisterRoutes(r, api.Deps{
		Board:          board,
		Stats:          stats,
		Reports:        reports,
		Palette:        palette,
		Presentation:   presentation,
		ExportFileName: cfg.Export.FileName,
	})

	// Create HTTP server with graceful shutdown
	serverAddr := cfg.GetServerAddr()
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("server starting", "addr", serverAddr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	appLogger.Info("shutdown signal received, shutting down server...")

	// AI 调用可能持续到超时，关停等待时间需覆盖它
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.Timeout+10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
		return
	}
	appLogger.Info("server shutdown complete")
}

// openDraftStore 按配置创建草稿存储并加上指标
func openDraftStore(cfg *config.Config) (draft.Store, error) {
	switch cfg.Data.DraftBackend {
	case "sqlite":
		s, err := draft.NewSQLiteStore(filepath.Join(cfg.Data.Dir, "drafts.db"), cfg.Data.DraftMaxBytes)
		if err != nil {
			return nil, err
		}
		return draft.Instrument(s, "sqlite"), nil
	default:
		s, err := draft.NewFileStore(filepath.Join(cfg.Data.Dir, "drafts"), cfg.Data.DraftMaxBytes)
		if err != nil {
			return nil, err
		}
		return draft.Instrument(s, "file"), nil
	}
}

// loadPalette 内置预设加上可选的主题文件
func loadPalette(themesFile string) (*render.Palette, error) {
	if strings.TrimSpace(themesFile) == "" {
		return render.NewPalette(), nil
	}
	extra, err := render.LoadThemes(themesFile)
	if err != nil {
		return nil, err
	}
	logger.L().Info("themes loaded", "file", themesFile, "count", len(extra))
	return render.NewPalette(extra...), nil
}

// HealthCheckResponse represents the response from the health check endpoint
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Env       string    `json:"env"`
}

// ReadinessCheckResponse represents the response from the readiness check endpoint
type ReadinessCheckResponse struct {
	Ready     bool             `json:"ready"`
	Checks    []ReadinessCheck `json:"checks"`
	Timestamp time.Time        `json:"timestamp"`
}

// ReadinessCheck represents a single readiness check
type ReadinessCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok" or "fail"
	Error  string `json:"error,omitempty"`
}

// healthCheckHandler returns the liveness probe handler
func healthCheckHandler(cfg *config.Config, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthCheckResponse{
			Status:    "healthy",
			Service:   "weekly-report-server",
			Version:   "1.0.0",
			Uptime:    time.Since(startTime).String(),
			Timestamp: time.Now(),
			Env:       cfg.Server.Env,
		}
		c.JSON(http.StatusOK, response)
	}
}

// readinessCheckHandler returns the readiness probe handler
func readinessCheckHandler(cfg *config.Config, drafts draft.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := []ReadinessCheck{}
		allReady := true

		// Check data directory
		dataCheck := ReadinessCheck{Name: "data_dir", Status: "ok"}
		if !checkDataDirAccessible(cfg.Data.Dir) {
			dataCheck.Status = "fail"
			dataCheck.Error = "data directory not accessible"
			allReady = false
		}
		checks = append(checks, dataCheck)

		// Check draft store
		draftCheck := ReadinessCheck{Name: "draft_store", Status: "ok"}
		if _, err := drafts.Exists(c.Request.Context()); err != nil {
			draftCheck.Status = "fail"
			draftCheck.Error = err.Error()
			allReady = false
		}
		checks = append(checks, draftCheck)

		response := ReadinessCheckResponse{
			Ready:     allReady,
			Checks:    checks,
			Timestamp: time.Now(),
		}

		httpStatus := http.StatusOK
		if !allReady {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, response)
	}
}

// checkDataDirAccessible checks if a directory is accessible
func checkDataDirAccessible(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil {
		return false
	}
	return info.IsDir()
}
