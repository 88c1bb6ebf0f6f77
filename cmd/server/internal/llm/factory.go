package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/houzhh15/weekly-report/cmd/server/internal/apperrors"
	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// 支持的模型提供方
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Options 构造 AI 客户端的参数
type Options struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// NewClient 按提供方创建 AI 助手
func NewClient(ctx context.Context, opts Options, log *slog.Logger) (Client, error) {
	var (
		model Model
		err   error
	)
	switch opts.Provider {
	case ProviderGemini, "":
		model, err = NewGeminiModel(ctx, opts.APIKey, opts.BaseURL, opts.Model)
	case ProviderOpenAI:
		model, err = NewOpenAIModel(opts.APIKey, opts.BaseURL, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewAssistant(model, opts.Timeout, log), nil
}

// unavailableClient AI 客户端初始化失败时使用，生成报错，润色保持原文
type unavailableClient struct {
	cause error
}

// Unavailable 返回始终不可用的 Client，看板和草稿功能不受影响
func Unavailable(cause error) Client {
	return unavailableClient{cause: cause}
}

func (u unavailableClient) GenerateReport(context.Context, models.WeekData) (string, error) {
	return "", apperrors.NewAIUnavailableError(u.cause)
}

func (u unavailableClient) RefineTaskContent(_ context.Context, content string) (string, error) {
	return content, apperrors.NewAIUnavailableError(u.cause)
}
