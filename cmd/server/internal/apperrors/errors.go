package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode 表示周报流程中用户可见的失败类型
type ErrorCode string

const (
	// AI_UNAVAILABLE AI 服务不可达或返回错误
	AI_UNAVAILABLE ErrorCode = "AI_UNAVAILABLE"

	// AI_TIMEOUT AI 调用超过配置的截止时间
	AI_TIMEOUT ErrorCode = "AI_TIMEOUT"

	// AI_EMPTY AI 返回空内容
	AI_EMPTY ErrorCode = "AI_EMPTY"

	// LAYOUT_FAILED 导出前的离屏布局失败
	LAYOUT_FAILED ErrorCode = "LAYOUT_FAILED"

	// RASTER_FAILED 栅格化失败
	RASTER_FAILED ErrorCode = "RASTER_FAILED"

	// ENCODE_FAILED 图片或 PDF 编码失败
	ENCODE_FAILED ErrorCode = "ENCODE_FAILED"

	// EXPORT_FAILED 导出文件写入失败
	EXPORT_FAILED ErrorCode = "EXPORT_FAILED"
)

// ReportError 带错误码的周报错误
type ReportError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *ReportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现错误链支持
func (e *ReportError) Unwrap() error {
	return e.Cause
}

// ErrorCode 返回字符串形式的错误码
func (e *ReportError) ErrorCode() string {
	return string(e.Code)
}

// New 创建新的周报错误
func New(code ErrorCode, message string, cause error) *ReportError {
	return &ReportError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// CodeOf 提取错误链中的错误码，不是 ReportError 时返回空串
func CodeOf(err error) ErrorCode {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// NewAIUnavailableError AI 服务不可用
func NewAIUnavailableError(cause error) *ReportError {
	return New(AI_UNAVAILABLE, "无法连接到 AI 服务生成周报", cause)
}

// NewAITimeoutError AI 调用超时
func NewAITimeoutError(timeout time.Duration, cause error) *ReportError {
	return New(AI_TIMEOUT, fmt.Sprintf("AI 服务在 %s 内未响应", timeout), cause)
}

// NewAIEmptyError AI 返回空文本
func NewAIEmptyError() *ReportError {
	return New(AI_EMPTY, "AI 服务返回了空内容", nil)
}

// NewLayoutError 离屏布局失败
func NewLayoutError(cause error) *ReportError {
	return New(LAYOUT_FAILED, "周报布局失败", cause)
}

// NewRasterError 栅格化失败
func NewRasterError(cause error) *ReportError {
	return New(RASTER_FAILED, "周报图像渲染失败", cause)
}

// NewEncodeError 编码失败
func NewEncodeError(cause error) *ReportError {
	return New(ENCODE_FAILED, "PDF 编码失败", cause)
}

// NewExportError 导出写入失败
func NewExportError(cause error) *ReportError {
	return New(EXPORT_FAILED, "PDF 生成失败，请重试", cause)
}
