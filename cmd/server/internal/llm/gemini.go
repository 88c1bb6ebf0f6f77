package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel Gemini 默认模型
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModel 基于 Gemini API 的 Model 实现
type GeminiModel struct {
	client    *genai.Client
	modelName string
}

// NewGeminiModel 创建 Gemini 客户端，baseURL 为空时使用官方地址
func NewGeminiModel(ctx context.Context, apiKey, baseURL, modelName string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key must be set")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiModel{client: client, modelName: modelName}, nil
}

// Complete 调用 GenerateContent 并只返回文本部分
func (g *GeminiModel) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if jsonMode {
		cfg.ResponseMIMEType = "application/json"
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return res.Text(), nil
}
