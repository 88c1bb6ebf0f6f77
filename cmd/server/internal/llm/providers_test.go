package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/weekly-report/cmd/server/internal/apperrors"
)

func TestOpenAIModel_Complete(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"finalSummary\":\"ok\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	m, err := NewOpenAIModel("test-key", srv.URL+"/v1", "")
	require.NoError(t, err)

	text, err := m.Complete(context.Background(), "hello", true)
	require.NoError(t, err)
	assert.Equal(t, `{"finalSummary":"ok"}`, text)

	assert.Equal(t, DefaultOpenAIModel, gotBody["model"])
	format, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAIModel_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	m, err := NewOpenAIModel("k", srv.URL+"/v1", "gpt-test")
	require.NoError(t, err)
	_, err = m.Complete(context.Background(), "hello", false)
	assert.Error(t, err)
}

func TestOpenAIModel_TimeoutThroughAssistant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	m, err := NewOpenAIModel("k", srv.URL+"/v1", "")
	require.NoError(t, err)

	_, err = NewAssistant(m, 50*time.Millisecond, nil).GenerateReport(context.Background(), sampleWeek())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI_TIMEOUT")
}

func TestGeminiModel_Complete(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"finalSummary\":\"ok\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	m, err := NewGeminiModel(context.Background(), "test-key", srv.URL, "")
	require.NoError(t, err)

	text, err := m.Complete(context.Background(), "hello", true)
	require.NoError(t, err)
	assert.Equal(t, `{"finalSummary":"ok"}`, text)
	assert.Contains(t, gotPath, DefaultGeminiModel)
}

func TestNewGeminiModel_RequiresKey(t *testing.T) {
	_, err := NewGeminiModel(context.Background(), "", "", "")
	assert.Error(t, err)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), Options{Provider: "claude"}, nil)
	assert.Error(t, err)
}

func TestNewClient_OpenAI(t *testing.T) {
	c, err := NewClient(context.Background(), Options{Provider: ProviderOpenAI, APIKey: "sk-test", Timeout: time.Second}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestUnavailable(t *testing.T) {
	c := Unavailable(assert.AnError)

	_, err := c.GenerateReport(context.Background(), sampleWeek())
	assert.Equal(t, apperrors.AI_UNAVAILABLE, apperrors.CodeOf(err))

	text, err := c.RefineTaskContent(context.Background(), "原文")
	assert.Error(t, err)
	assert.Equal(t, "原文", text)
}
