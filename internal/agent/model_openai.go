package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	// Groq的OpenAI兼容chat/completions地址（原型部署所用的默认后端）
	defaultOpenAICompatibleAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultModelName              = "llama-3.3-70b-versatile"
)

// OpenAIChatModel 通过OpenAI兼容的HTTP接口实现 model.ToolCallingChatModel，
// 用于与Groq等兼容后端的补全服务交互。
// 单次调用无内部状态，可在顺序请求间复用；并发在途调用未经验证。
type OpenAIChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
	limiter    *RateLimiter
}

// OpenAIOption 是 OpenAIChatModel 的配置选项
type OpenAIOption func(*OpenAIChatModel)

// WithHTTPClient 设置自定义HTTP客户端
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(m *OpenAIChatModel) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithRateLimiter 设置调用限流器，未设置时不限流
func WithRateLimiter(limiter *RateLimiter) OpenAIOption {
	return func(m *OpenAIChatModel) {
		m.limiter = limiter
	}
}

// NewOpenAIChatModel 创建一个新的 OpenAIChatModel 实例
func NewOpenAIChatModel(apiKey string, modelName string, apiURL string, options ...OpenAIOption) (*OpenAIChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = defaultOpenAICompatibleAPIURL
	}

	m := &OpenAIChatModel{
		apiKey:     apiKey,
		modelName:  mn,
		apiURL:     url,
		httpClient: &http.Client{},
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// --- OpenAI Compatible Request/Response Structures ---

type openAIChatCompletionRequest struct {
	Model    string            `json:"model"`
	Messages []*schema.Message `json:"messages"` // Eino schema.Message is compatible enough for role/content
	// 采样温度与输出上限由调用方通过 model.Option 按任务设置
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type openAIChatChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAICompletionResponse struct {
	Id      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate 实现 model.BaseChatModel 接口
func (m *OpenAIChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	commonOpts := model.GetCommonOptions(&model.Options{}, options...)

	reqPayload := openAIChatCompletionRequest{
		Model:       m.modelName,
		Messages:    messages,
		Temperature: commonOpts.Temperature,
		MaxTokens:   commonOpts.MaxTokens,
	}
	if commonOpts.Model != nil && *commonOpts.Model != "" {
		reqPayload.Model = *commonOpts.Model
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	var bodyBytes []byte
	doOnce := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("创建 HTTP 请求失败: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := m.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("发送 HTTP 请求失败: %w", err)
		}
		defer httpResp.Body.Close()

		bodyBytes, err = io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("读取响应体失败: %w", err)
		}

		if httpResp.StatusCode != http.StatusOK {
			var apiErr openAIErrorResponse
			if jsonErr := json.Unmarshal(bodyBytes, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
				return fmt.Errorf("补全服务返回错误 (status %d): %s", httpResp.StatusCode, apiErr.Error.Message)
			}
			return fmt.Errorf("补全服务返回错误 (status %d): %s", httpResp.StatusCode, string(bodyBytes))
		}
		return nil
	}

	// 限流器存在时在限流与退避重试下执行，否则直接调用
	if m.limiter != nil {
		err = m.limiter.Do(ctx, doOnce)
	} else {
		err = doOnce()
	}
	if err != nil {
		return nil, err
	}

	var completion openAICompletionResponse
	if err := json.Unmarshal(bodyBytes, &completion); err != nil {
		return nil, fmt.Errorf("解析补全响应失败: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("补全响应中没有choices")
	}

	var content string
	if completion.Choices[0].Message.Content != nil {
		content = *completion.Choices[0].Message.Content
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: content,
	}, nil
}

// Stream 实现 model.BaseChatModel 接口；本服务不使用流式响应
func (m *OpenAIChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenAIChatModel 不支持流式响应")
}

// WithTools 实现 model.ToolCallingChatModel 接口；本服务不使用工具调用
func (m *OpenAIChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}
