package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/services"
)

// HandleGetWeek GET /api/v1/week
// 获取整周任务看板
func HandleGetWeek(board services.BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		successResponse(c, board.Week(c.Request.Context()))
	}
}

// HandleAddTask POST /api/v1/week/:day/tasks
// 在指定工作日追加一条空任务（默认已完成 / Dev）
func HandleAddTask(board services.BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := dayParam(c)
		if !ok {
			return
		}

		task, err := board.AddTask(c.Request.Context(), day)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    task,
		})
	}
}

// HandleUpdateTask PATCH /api/v1/week/:day/tasks/:id
// 部分更新任务内容、状态或分类
func HandleUpdateTask(board services.BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := dayParam(c)
		if !ok {
			return
		}

		var patch models.TaskPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequestResponse(c, "invalid request body: "+err.Error())
			return
		}

		task, err := board.UpdateTask(c.Request.Context(), day, c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, task)
	}
}

// HandleCycleTaskStatus POST /api/v1/week/:day/tasks/:id/cycle
// 循环切换任务状态
func HandleCycleTaskStatus(board services.BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := dayParam(c)
		if !ok {
			return
		}

		task, err := board.CycleStatus(c.Request.Context(), day, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, task)
	}
}

// HandleRefineTask POST /api/v1/week/:day/tasks/:id/refine
// AI 润色任务内容，AI 不可用时原文不变
func HandleRefineTask(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := dayParam(c)
		if !ok {
			return
		}

		task, err := reports.Refine(c.Request.Context(), day, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		successResponse(c, task)
	}
}

// HandleDeleteTask DELETE /api/v1/week/:day/tasks/:id
func HandleDeleteTask(board services.BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := dayParam(c)
		if !ok {
			return
		}

		if err := board.DeleteTask(c.Request.Context(), day, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		successResponseWithMessage(c, "task deleted", nil)
	}
}

// HandleClearWeek DELETE /api/v1/week
// 清空看板并重置周报
func HandleClearWeek(reports services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reports.ClearAll(c.Request.Context())
		successResponseWithMessage(c, "week cleared", nil)
	}
}
