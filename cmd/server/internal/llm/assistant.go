package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/houzhh15/weekly-report/cmd/server/internal/apperrors"
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/pkg/logger"
)

// DefaultTimeout AI 调用默认截止时间
const DefaultTimeout = 60 * time.Second

// Model 底层大模型调用，jsonMode 要求模型只输出 JSON
type Model interface {
	Complete(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

// Client 周报助手使用的 AI 能力
type Client interface {
	// GenerateReport 返回结构化周报 JSON 文本，不保证符合结构
	GenerateReport(ctx context.Context, week models.WeekData) (string, error)
	// RefineTaskContent 润色单条任务；失败时返回原文和错误
	RefineTaskContent(ctx context.Context, content string) (string, error)
}

// Assistant 基于 Model 实现 Client，为每次调用加上超时
type Assistant struct {
	model   Model
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

// NewAssistant 创建 AI 助手，timeout <= 0 时使用 DefaultTimeout
func NewAssistant(model Model, timeout time.Duration, log *slog.Logger) *Assistant {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Assistant{
		model:   model,
		timeout: timeout,
		now:     time.Now,
		log:     logger.OrDefault(log).With("component", "llm"),
	}
}

// GenerateReport 调用模型生成周报 JSON
func (a *Assistant) GenerateReport(ctx context.Context, week models.WeekData) (string, error) {
	prompt, err := BuildReportPrompt(week, a.now())
	if err != nil {
		return "", apperrors.NewAIUnavailableError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.model.Complete(ctx, prompt, true)
	if err != nil {
		return "", a.classify(ctx, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewAIEmptyError()
	}
	return text, nil
}

// RefineTaskContent 空白内容直接返回；模型出错或返回空时返回原文
func (a *Assistant) RefineTaskContent(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return content, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.model.Complete(ctx, BuildRefinePrompt(content), false)
	if err != nil {
		err = a.classify(ctx, err)
		a.log.Warn("task refine failed, keeping original", "error", err)
		return content, err
	}

	refined := cleanRefined(text)
	if refined == "" {
		return content, apperrors.NewAIEmptyError()
	}
	return refined, nil
}

// classify 区分超时和其他调用失败
func (a *Assistant) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewAITimeoutError(a.timeout, err)
	}
	return apperrors.NewAIUnavailableError(err)
}
