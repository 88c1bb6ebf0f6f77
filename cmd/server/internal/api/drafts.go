package api

import (
	"github.com/gin-gonic/gin"

	"github.com/houzhh15/weekly-report/cmd/server/internal/services"
)

// HandleSaveDraft POST /api/v1/draft
// 保存当前看板为草稿（整体覆盖）
func HandleSaveDraft(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := reports.SaveDraft(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		successResponseWithMessage(c, "draft saved", nil)
	}
}

// HandleDraftStatus GET /api/v1/draft
// 是否存在已保存的草稿
func HandleDraftStatus(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		exists, err := reports.DraftExists(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, gin.H{"exists": exists})
	}
}

// HandleLoadDraft POST /api/v1/draft/load
// 读取草稿替换看板；草稿损坏时看板保持不变
func HandleLoadDraft(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		week, err := reports.LoadDraft(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		successResponseWithMessage(c, "draft loaded", week)
	}
}
