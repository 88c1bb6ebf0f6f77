package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/houzhh15/weekly-report/cmd/server/internal/apperrors"
	"github.com/houzhh15/weekly-report/cmd/server/internal/draft"
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
	"github.com/houzhh15/weekly-report/cmd/server/internal/report"
	"github.com/houzhh15/weekly-report/cmd/server/internal/services"
)

// errorResponse 返回错误响应
func errorResponse(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"code":    errCode,
		"error":   message,
	})
}

// successResponse 返回成功响应
func successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// successResponseWithMessage 返回带消息的成功响应
func successResponseWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// badRequestResponse 返回 400 响应
func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// sentinelStatus 哨兵错误到 HTTP 状态码的映射
var sentinelStatus = []struct {
	err    error
	status int
}{
	{services.ErrNoTasks, http.StatusBadRequest},
	{services.ErrInvalidDay, http.StatusBadRequest},
	{services.ErrInvalidStatus, http.StatusBadRequest},
	{services.ErrTaskNotFound, http.StatusNotFound},
	{services.ErrBusy, http.StatusConflict},
	{report.ErrParse, http.StatusBadGateway},
	{report.ErrNoReport, http.StatusNotFound},
	{report.ErrIndexOutOfRange, http.StatusBadRequest},
	{report.ErrUnknownSection, http.StatusBadRequest},
	{render.ErrInvalidColor, http.StatusBadRequest},
	{render.ErrUnknownTheme, http.StatusBadRequest},
	{draft.ErrDraftNotFound, http.StatusNotFound},
	{draft.ErrDraftCorrupt, http.StatusUnprocessableEntity},
	{draft.ErrStorageFull, http.StatusRequestEntityTooLarge},
}

// codeStatus 带错误码的 ReportError 到 HTTP 状态码的映射
var codeStatus = map[apperrors.ErrorCode]int{
	apperrors.AI_TIMEOUT:     http.StatusGatewayTimeout,
	apperrors.AI_UNAVAILABLE: http.StatusBadGateway,
	apperrors.AI_EMPTY:       http.StatusBadGateway,
	apperrors.LAYOUT_FAILED:  http.StatusInternalServerError,
	apperrors.RASTER_FAILED:  http.StatusInternalServerError,
	apperrors.ENCODE_FAILED:  http.StatusInternalServerError,
	apperrors.EXPORT_FAILED:  http.StatusInternalServerError,
}

// classifyError 返回 HTTP 状态码和错误码
func classifyError(err error) (int, string) {
	var re *apperrors.ReportError
	if errors.As(err, &re) {
		if status, ok := codeStatus[re.Code]; ok {
			return status, string(re.Code)
		}
		return http.StatusInternalServerError, string(re.Code)
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.status, s.err.Error()
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// respondError 按错误类型写出响应
func respondError(c *gin.Context, err error) {
	status, code := classifyError(err)
	message := err.Error()
	var re *apperrors.ReportError
	if errors.As(err, &re) {
		message = re.Message
	}
	_ = c.Error(err)
	errorResponse(c, status, code, message)
}

// dayParam 解析路径中的 :day
func dayParam(c *gin.Context) (models.DayKey, bool) {
	day, ok := models.ParseDayKey(c.Param("day"))
	if !ok {
		badRequestResponse(c, "invalid day: "+c.Param("day"))
		return "", false
	}
	return day, true
}
