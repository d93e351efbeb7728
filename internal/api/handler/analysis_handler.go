package handler

import (
	"context"
	"errors"
	"strings"

	"resume-enhancer-go/internal/config"
	"resume-enhancer-go/internal/processor"
	"resume-enhancer-go/internal/types"
)

// AnalysisHandler 分析请求处理器，负责把传输层输入转交给分析流水线。
// 与具体HTTP框架解耦，路由层只做参数搬运和状态码映射。
type AnalysisHandler struct {
	cfg     *config.Config
	service *processor.AnalysisService
}

// NewAnalysisHandler 创建一个新的分析处理器
func NewAnalysisHandler(cfg *config.Config, service *processor.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		cfg:     cfg,
		service: service,
	}
}

// MaxUploadBytes 返回流水线配置的上传大小上限，路由层据此限制请求体读取量，
// 避免传输层按另一个上限截断后被流水线当作完整文件
func (h *AnalysisHandler) MaxUploadBytes() int64 {
	return h.service.Settings.MaxUploadBytes
}

// ResolveResumeText 统一两种输入形式：上传文件优先，其次为表单纯文本
func (h *AnalysisHandler) ResolveResumeText(ctx context.Context, fileBytes []byte, filename string, resumeText string) (string, error) {
	if len(fileBytes) > 0 {
		return h.service.ExtractResumeText(ctx, fileBytes, filename)
	}
	return strings.TrimSpace(resumeText), nil
}

// HandleAnalyze 执行完整分析
func (h *AnalysisHandler) HandleAnalyze(ctx context.Context, fileBytes []byte, filename string, resumeText string, jobDescription string) (*types.AnalysisReport, error) {
	if len(fileBytes) > 0 {
		return h.service.AnalyzeDocument(ctx, fileBytes, filename, jobDescription)
	}
	return h.service.AnalyzeText(ctx, resumeText, jobDescription)
}

// HandleEnhance 执行逐小节增强
func (h *AnalysisHandler) HandleEnhance(ctx context.Context, fileBytes []byte, filename string, resumeText string, jobDescription string) (*types.EnhanceResult, error) {
	text, err := h.ResolveResumeText(ctx, fileBytes, filename, resumeText)
	if err != nil {
		return nil, err
	}
	return h.service.Enhance(ctx, text, jobDescription)
}

// HandleExport 执行增强并返回可下载的Markdown文档内容
func (h *AnalysisHandler) HandleExport(ctx context.Context, fileBytes []byte, filename string, resumeText string, jobDescription string) (string, error) {
	result, err := h.HandleEnhance(ctx, fileBytes, filename, resumeText, jobDescription)
	if err != nil {
		return "", err
	}
	return result.Markdown, nil
}

// StatusForError 把分级错误映射为HTTP状态码：
// 输入错误400，文件超限413，提取失败422，其余按服务内部错误处理
func StatusForError(err error) int {
	switch {
	case errors.Is(err, processor.ErrMissingInput), errors.Is(err, processor.ErrUnsupportedFile):
		return 400
	case errors.Is(err, processor.ErrFileTooLarge):
		return 413
	case errors.Is(err, processor.ErrEmptyExtraction):
		return 422
	default:
		return 500
	}
}
