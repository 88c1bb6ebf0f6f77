package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel OpenAI 兼容接口默认模型
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIModel 基于 OpenAI 兼容 Chat Completions 接口的 Model 实现
type OpenAIModel struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIModel 创建客户端，baseURL 为空时使用官方地址
func NewOpenAIModel(apiKey, baseURL, modelName string) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key must be set")
	}
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIModel{client: openai.NewClientWithConfig(cfg), modelName: modelName}, nil
}

// Complete 发送单轮对话，jsonMode 时要求返回 JSON 对象
func (o *OpenAIModel) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
