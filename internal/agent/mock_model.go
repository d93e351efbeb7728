package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// MockChatModel 测试用的模型实现，按顺序返回预设响应。
// 当 Responses 用尽后持续返回最后一条。
type MockChatModel struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	CallCount int
	// LastMessages 记录最近一次 Generate 收到的消息，便于断言提示词
	LastMessages []*schema.Message
}

// NewMockChatModel 创建返回固定内容的 mock 模型
func NewMockChatModel(responses ...string) *MockChatModel {
	return &MockChatModel{Responses: responses}
}

func (m *MockChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastMessages = messages

	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return &schema.Message{Role: schema.Assistant, Content: ""}, nil
	}

	idx := m.CallCount - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return &schema.Message{Role: schema.Assistant, Content: m.Responses[idx]}, nil
}

func (m *MockChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("mock 模型不支持流式响应")
}

func (m *MockChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}
