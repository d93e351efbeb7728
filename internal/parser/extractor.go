package parser

import (
	"context"
	"io"
)

// Extractor 文档文本提取器接口
// 不同解析策略（逐页、整篇、DOCX）都实现该接口，由配置选择
type Extractor interface {
	// ExtractTextFromReader 从io.Reader提取文本
	// 返回: 提取的文本, 解析器元数据(页数、耗时等), 错误
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节数组提取文本
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error)
}
