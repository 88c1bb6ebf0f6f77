package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
	"github.com/houzhh15/weekly-report/cmd/server/internal/report"
	"github.com/houzhh15/weekly-report/cmd/server/internal/services"
)

// RawReportRequest 外部 AI 文本
type RawReportRequest struct {
	Raw string `json:"raw"`
}

// UpdateFieldRequest 编辑单个字段
type UpdateFieldRequest struct {
	Section  string `json:"section" binding:"required"`
	Index    int    `json:"index"`
	SubField string `json:"sub_field"`
	Value    string `json:"value"`
}

// HandleGenerateReport POST /api/v1/report/generate
// 根据看板调用 AI 生成周报；同一时间只允许一个生成
func HandleGenerateReport(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := reports.Generate(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, data)
	}
}

// HandleLoadRawReport POST /api/v1/report/raw
// 解析 AI 原始文本（允许 ```json 包裹）；失败时保留原有周报
func HandleLoadRawReport(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RawReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestResponse(c, "invalid request body: "+err.Error())
			return
		}

		data, err := reports.LoadRaw(c.Request.Context(), req.Raw)
		if errors.Is(err, report.ErrParse) {
			errorResponse(c, http.StatusUnprocessableEntity, report.ErrParse.Error(), err.Error())
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, data)
	}
}

// HandleGetReport GET /api/v1/report
// 当前周报、表头和生成状态
func HandleGetReport(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		successResponse(c, reports.View())
	}
}

// HandleUpdateField PATCH /api/v1/report/field
// 编辑单个字段，section=meta 时修改表头
func HandleUpdateField(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateFieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestResponse(c, "invalid request body: "+err.Error())
			return
		}

		view, err := reports.UpdateField(c.Request.Context(), req.Section, req.Index, req.SubField, req.Value)
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, view)
	}
}

// HandleSetMeta PUT /api/v1/report/meta
// 整体替换表头信息
func HandleSetMeta(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var meta models.ReportMeta
		if err := c.ShouldBindJSON(&meta); err != nil {
			badRequestResponse(c, "invalid request body: "+err.Error())
			return
		}
		successResponse(c, reports.SetMeta(c.Request.Context(), meta))
	}
}

// HandleGetSheet GET /api/v1/report/sheet?theme=商务蓝&primary=%23rrggbb
// 带主题的表格模型
func HandleGetSheet(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sheet, styles, err := reports.Sheet(c.Query("theme"), c.Query("primary"))
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, gin.H{
			"sheet":  sheet,
			"styles": styles,
		})
	}
}

// HandleGetReportHTML GET /api/v1/report/html
// 周报 HTML 预览
func HandleGetReportHTML(reports services.ReportService, presentation *render.Presentation) gin.HandlerFunc {
	return func(c *gin.Context) {
		sheet, styles, err := reports.Sheet(c.Query("theme"), c.Query("primary"))
		if err != nil {
			respondError(c, err)
			return
		}

		var buf bytes.Buffer
		if err := presentation.RenderReport(&buf, sheet, styles); err != nil {
			respondError(c, fmt.Errorf("render report html: %w", err))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	}
}

// HandleGetReportText GET /api/v1/report/text
// 纯文本摘要：本周总结 + 下周计划
func HandleGetReportText(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reports.View().Data == nil {
			respondError(c, report.ErrNoReport)
			return
		}
		text := reports.PlainText()
		if c.Query("format") == "plain" {
			c.String(http.StatusOK, text)
			return
		}
		successResponse(c, gin.H{"text": text})
	}
}

// HandleExportPDF POST /api/v1/report/export?theme=…&primary=…
// 导出单页 PDF，返回文件下载
func HandleExportPDF(reports services.ReportService, fileName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pdf, err := reports.Export(c.Request.Context(), c.Query("theme"), c.Query("primary"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

// HandleListThemes GET /api/v1/themes
// 可用主题：四个预设加主题文件中的配置
func HandleListThemes(palette *render.Palette) gin.HandlerFunc {
	return func(c *gin.Context) {
		successResponse(c, palette.Themes())
	}
}
