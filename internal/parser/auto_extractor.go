package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedFileType 文件扩展名不在支持范围内
var ErrUnsupportedFileType = errors.New("不支持的文件类型")

// AutoExtractor 按文件扩展名分发到具体的提取器
// .pdf 走配置的PDF策略，.docx 走DOCX提取器，.txt 及无扩展名按纯文本处理
type AutoExtractor struct {
	pdfExtractor  Extractor
	docxExtractor Extractor
}

// NewAutoExtractor 创建分发提取器
func NewAutoExtractor(pdfExtractor, docxExtractor Extractor) *AutoExtractor {
	return &AutoExtractor{
		pdfExtractor:  pdfExtractor,
		docxExtractor: docxExtractor,
	}
}

// ExtractTextFromBytes 根据filename的扩展名提取文本
func (e *AutoExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, filename string) (string, map[string]interface{}, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		if e.pdfExtractor == nil {
			return "", nil, fmt.Errorf("PDF提取器未配置")
		}
		return e.pdfExtractor.ExtractTextFromBytes(ctx, data, filename)
	case ".docx":
		if e.docxExtractor == nil {
			return "", nil, fmt.Errorf("DOCX提取器未配置")
		}
		return e.docxExtractor.ExtractTextFromBytes(ctx, data, filename)
	case ".txt", "":
		text := string(data)
		metadata := map[string]interface{}{
			"text_length":            len(text),
			"processing_duration_ms": time.Duration(0).Milliseconds(),
		}
		return text, metadata, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}
