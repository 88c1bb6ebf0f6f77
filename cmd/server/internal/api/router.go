package api

import (
	"github.com/gin-gonic/gin"

	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
	"github.com/houzhh15/weekly-report/cmd/server/internal/services"
)

// Deps 路由依赖
type Deps struct {
	Board          services.BoardService
	Stats          services.StatisticsService
	Reports        services.ReportService
	Palette        *render.Palette
	Presentation   *render.Presentation
	ExportFileName string
}

// RegisterRoutes 注册 /api/v1 下的业务路由
func RegisterRoutes(r gin.IRouter, d Deps) {
	v1 := r.Group("/api/v1")

	// 任务看板
	v1.GET("/week", HandleGetWeek(d.Board))
	v1.DELETE("/week", HandleClearWeek(d.Reports))
	v1.POST("/week/:day/tasks", HandleAddTask(d.Board))
	v1.PATCH("/week/:day/tasks/:id", HandleUpdateTask(d.Board))
	v1.DELETE("/week/:day/tasks/:id", HandleDeleteTask(d.Board))
	v1.POST("/week/:day/tasks/:id/cycle", HandleCycleTaskStatus(d.Board))
	v1.POST("/week/:day/tasks/:id/refine", HandleRefineTask(d.Reports))

	// 统计
	v1.GET("/stats", HandleGetStatistics(d.Stats))

	// 草稿
	v1.GET("/draft", HandleDraftStatus(d.Reports))
	v1.POST("/draft", HandleSaveDraft(d.Reports))
	v1.POST("/draft/load", HandleLoadDraft(d.Reports))

	// 周报
	v1.GET("/report", HandleGetReport(d.Reports))
	v1.POST("/report/generate", HandleGenerateReport(d.Reports))
	v1.POST("/report/raw", HandleLoadRawReport(d.Reports))
	v1.PATCH("/report/field", HandleUpdateField(d.Reports))
	v1.PUT("/report/meta", HandleSetMeta(d.Reports))
	v1.GET("/report/sheet", HandleGetSheet(d.Reports))
	v1.GET("/report/html", HandleGetReportHTML(d.Reports, d.Presentation))
	v1.GET("/report/text", HandleGetReportText(d.Reports))
	v1.POST("/report/export", HandleExportPDF(d.Reports, d.ExportFileName))

	v1.GET("/themes", HandleListThemes(d.Palette))
}
