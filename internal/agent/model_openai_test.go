package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompletionServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req["model"])

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}

		resp := map[string]interface{}{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  req["model"],
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"message":       map[string]interface{}{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestNewOpenAIChatModelRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIChatModel("", "m", "http://example.com")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	server := newCompletionServer(t, "Detailed feedback here.", http.StatusOK)
	defer server.Close()

	m, err := NewOpenAIChatModel("test-key", "test-model", server.URL)
	require.NoError(t, err)

	resp, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("review my resume")})
	require.NoError(t, err)
	assert.Equal(t, schema.Assistant, resp.Role)
	assert.Equal(t, "Detailed feedback here.", resp.Content)
}

func TestGenerateWithOptions(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"42"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	m, err := NewOpenAIChatModel("test-key", "default-model", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("rate this")},
		model.WithModel("rating-model"),
		model.WithTemperature(0.3),
		model.WithMaxTokens(16),
	)
	require.NoError(t, err)

	assert.Equal(t, "rating-model", captured["model"])
	assert.InDelta(t, 0.3, captured["temperature"], 0.001)
	assert.Equal(t, float64(16), captured["max_tokens"])
}

func TestGenerateServerError(t *testing.T) {
	server := newCompletionServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	m, err := NewOpenAIChatModel("test-key", "test-model", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestStreamUnsupported(t *testing.T) {
	m, err := NewOpenAIChatModel("test-key", "", "")
	require.NoError(t, err)

	_, err = m.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.Error(t, err)
}

func TestMockChatModelSequence(t *testing.T) {
	mock := NewMockChatModel("first", "second")

	resp, err := mock.Generate(context.Background(), []*schema.Message{schema.UserMessage("a")})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)

	resp, err = mock.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Content)

	// 响应用尽后持续返回最后一条
	resp, err = mock.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Content)
	assert.Equal(t, 3, mock.CallCount)
}
