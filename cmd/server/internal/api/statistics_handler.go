package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/houzhh15/weekly-report/cmd/server/internal/services"
)

// HandleGetStatistics GET /api/v1/stats
// 看板统计；没有任务时返回 204
func HandleGetStatistics(statsService services.StatisticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := statsService.Calculate(c.Request.Context())
		if stats == nil {
			c.Status(http.StatusNoContent)
			return
		}
		successResponse(c, stats)
	}
}
