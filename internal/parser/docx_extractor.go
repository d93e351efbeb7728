package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/nguyenthenguyen/docx"
)

// DocxExtractor 提取DOCX文档的文本内容
type DocxExtractor struct {
	logger *log.Logger
}

// NewDocxExtractor 初始化DOCX文本提取器
func NewDocxExtractor(logger *log.Logger) *DocxExtractor {
	if logger == nil {
		logger = log.New(os.Stderr, "[DOCX解析器] ", log.LstdFlags)
	}
	return &DocxExtractor{logger: logger}
}

// ExtractTextFromReader 从io.Reader提取文本
func (e *DocxExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("读取DOCX内容失败: %w", err)
	}
	return e.ExtractTextFromBytes(ctx, data, uri)
}

// ExtractTextFromBytes 从字节数组提取文本
func (e *DocxExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("解析DOCX失败 (URI: %s): %w", uri, err)
	}
	defer doc.Close()

	text := doc.Editable().GetContent()
	duration := time.Since(startTime)

	metadata := map[string]interface{}{
		"text_length":            len(text),
		"processing_duration_ms": duration.Milliseconds(),
	}

	e.logger.Printf("DOCX提取完成: 提取了%d个字符 (用时 %.2f秒)", len(text), duration.Seconds())
	return text, metadata, nil
}
