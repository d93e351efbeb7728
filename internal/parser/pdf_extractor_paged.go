package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// PagedPDFExtractor 逐页提取PDF文本
// 单页解析失败不会使整个文档失败：该页贡献空字符串并计入failed_pages
type PagedPDFExtractor struct {
	logger *log.Logger
}

// PagedPDFOption 逐页提取器的配置选项
type PagedPDFOption func(*PagedPDFExtractor)

// WithPagedLogger 配置自定义日志记录器
func WithPagedLogger(logger *log.Logger) PagedPDFOption {
	return func(e *PagedPDFExtractor) {
		e.logger = logger
	}
}

// NewPagedPDFExtractor 初始化逐页PDF文本提取器
func NewPagedPDFExtractor(options ...PagedPDFOption) *PagedPDFExtractor {
	extractor := &PagedPDFExtractor{
		logger: log.New(os.Stderr, "[PDF解析器] ", log.LstdFlags),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// ExtractTextFromReader 从io.Reader提取文本
// ledongthuc/pdf 需要随机访问，因此先整体读入内存（上层已做10MB限制）
func (e *PagedPDFExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("读取PDF内容失败: %w", err)
	}
	return e.ExtractTextFromBytes(ctx, data, uri)
}

// ExtractTextFromBytes 从字节数组提取文本
func (e *PagedPDFExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()
	e.logger.Printf("开始逐页提取PDF文本 (URI: %s, 大小: %.2f MB)", uri, float64(len(data))/1024/1024)

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("打开PDF失败 (URI: %s): %w", uri, err)
	}

	numPages := pdfReader.NumPage()
	fullText, failedPages, err := collectPages(ctx, numPages, func(pageNum int) (string, bool) {
		text, ok := extractPage(pdfReader, pageNum)
		if !ok {
			e.logger.Printf("第%d页提取失败，按空文本处理 (URI: %s)", pageNum, uri)
		}
		return text, ok
	})
	if err != nil {
		return "", nil, err
	}

	duration := time.Since(startTime)

	metadata := map[string]interface{}{
		"page_count":             numPages,
		"failed_pages":           failedPages,
		"text_length":            len(fullText),
		"processing_duration_ms": duration.Milliseconds(),
	}

	e.logger.Printf("PDF提取完成: %d页(失败%d页)，提取了%d个字符 (用时 %.2f秒)",
		numPages, failedPages, len(fullText), duration.Seconds())
	return fullText, metadata, nil
}

// collectPages 按页号顺序收集各页文本并以换行拼接。
// 单页失败只计数，该页贡献空字符串，不会中断整个文档
func collectPages(ctx context.Context, numPages int, getText func(pageNum int) (string, bool)) (string, int, error) {
	pages := make([]string, 0, numPages)
	failedPages := 0

	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return "", 0, ctx.Err()
		default:
		}

		text, ok := getText(i)
		if !ok {
			failedPages++
			text = ""
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), failedPages, nil
}

// extractPage 提取单页文本，页内任何panic或错误都转化为失败标记
func extractPage(reader *pdf.Reader, pageNum int) (text string, ok bool) {
	// ledongthuc/pdf 在内容流损坏时可能panic，这里必须兜住
	defer func() {
		if r := recover(); r != nil {
			text = ""
			ok = false
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", false
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return text, true
}
