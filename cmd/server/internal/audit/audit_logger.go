package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditAction 审计日志操作类型
type AuditAction string

const (
	ActionGenerate   AuditAction = "generate"
	ActionRefine     AuditAction = "refine"
	ActionDraftSave  AuditAction = "draft_save"
	ActionDraftLoad  AuditAction = "draft_load"
	ActionFieldEdit  AuditAction = "field_edit"
	ActionExport     AuditAction = "export"
	ActionMetaUpdate AuditAction = "meta_update"
)

// 审计结果
const (
	ResultSuccess  = "success"
	ResultFailed   = "failed"
	ResultRejected = "rejected"
)

// AuditEntry 审计日志条目
type AuditEntry struct {
	Timestamp  time.Time   `json:"timestamp"`
	Action     AuditAction `json:"action"`
	Result     string      `json:"result"`
	ResourceID string      `json:"resource_id,omitempty"` // 任务 id / 字段路径 / 文件名
	DurationMs int64       `json:"duration_ms"`
	ErrorCode  string      `json:"error_code,omitempty"`
	Details    string      `json:"details,omitempty"`
}

// AuditLogger 审计日志记录器接口
type AuditLogger interface {
	// Record 记录一次操作，err 非空时结果记为 failed
	Record(action AuditAction, resourceID string, duration time.Duration, err error, details string)

	// Reject 记录被拒绝的请求（如同类操作进行中）
	Reject(action AuditAction, reason string)
}

// CodedError 带错误码的错误，审计时单独记录错误码
type CodedError interface {
	error
	ErrorCode() string
}

// FileAuditLogger 基于 lumberjack 滚动文件的 JSONL 审计日志
type FileAuditLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewFileAuditLogger 创建滚动审计日志，按大小和时间自动清理旧文件
func NewFileAuditLogger(logPath string) *FileAuditLogger {
	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     90, // days
		Compress:   true,
	}
	return newWriterAuditLogger(writer)
}

func newWriterAuditLogger(w io.Writer) *FileAuditLogger {
	return &FileAuditLogger{w: w, now: time.Now}
}

// Record 记录一次操作
func (f *FileAuditLogger) Record(action AuditAction, resourceID string, duration time.Duration, err error, details string) {
	entry := AuditEntry{
		Timestamp:  f.now().UTC(),
		Action:     action,
		Result:     ResultSuccess,
		ResourceID: resourceID,
		DurationMs: duration.Milliseconds(),
		Details:    details,
	}
	if err != nil {
		entry.Result = ResultFailed
		var coded CodedError
		if errors.As(err, &coded) {
			entry.ErrorCode = coded.ErrorCode()
		}
		if entry.Details == "" {
			entry.Details = err.Error()
		}
	}
	_ = f.writeEntry(entry)
}

// Reject 记录被拒绝的请求
func (f *FileAuditLogger) Reject(action AuditAction, reason string) {
	_ = f.writeEntry(AuditEntry{
		Timestamp: f.now().UTC(),
		Action:    action,
		Result:    ResultRejected,
		Details:   reason,
	})
}

// writeEntry 追加一行 JSON
func (f *FileAuditLogger) writeEntry(entry AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Close 关闭底层滚动文件
func (f *FileAuditLogger) Close() error {
	if c, ok := f.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// nopAuditLogger 未配置审计文件时使用
type nopAuditLogger struct{}

// Nop 返回丢弃所有记录的审计器
func Nop() AuditLogger { return nopAuditLogger{} }

func (nopAuditLogger) Record(AuditAction, string, time.Duration, error, string) {}
func (nopAuditLogger) Reject(AuditAction, string)                               {}
