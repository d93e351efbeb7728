package processor

import (
	"context"
)

// TextExtractor 文档文本提取接口，由 parser 包的各提取器实现
type TextExtractor interface {
	// ExtractTextFromBytes 从字节内容中提取文本，uri用于根据扩展名选择解析方式
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error)
}

// ResumeReviewer 简历AI评审接口，由 reviewer 包的 LLMReviewer 实现
type ResumeReviewer interface {
	// ReviewResume 生成整篇简历的点评
	ReviewResume(ctx context.Context, resumeText string, jobDescription string) (string, error)

	// ReviewSection 生成单个小节的点评
	ReviewSection(ctx context.Context, sectionName string, sectionText string, jobDescription string) (string, error)

	// RewriteSection 面向岗位描述改写单个小节
	RewriteSection(ctx context.Context, sectionName string, sectionText string, jobDescription string) (string, error)

	// RateRelevance 评估某一维度的相关度(0-100)，失败时返回0而非错误
	RateRelevance(ctx context.Context, dimension string, resumeText string, jobDescription string) int
}
