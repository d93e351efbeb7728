package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"resume-enhancer-go/internal/analyzer"
	"resume-enhancer-go/internal/constants"
	"resume-enhancer-go/internal/parser"
	"resume-enhancer-go/internal/reviewer"
	"resume-enhancer-go/internal/types"

	"github.com/gofrs/uuid/v5"
)

// Components 聚合分析流水线的功能组件依赖，便于集中管理和测试替换
type Components struct {
	Extractor TextExtractor  // 文档文本提取接口
	Reviewer  ResumeReviewer // AI评审接口
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	Tokenizer      analyzer.ExtractorConfig // 关键词提取策略
	MaxUploadBytes int64                    // 上传文件大小上限
	Debug          bool                     // 是否开启调试模式
	Logger         *log.Logger              // 日志记录器
}

// AnalysisService 一次分析请求的完整流水线：
// 提取文本 -> 关键词匹配 -> 综合/ATS评分 -> 小节划分 -> AI反馈。
// 所有中间结果都是请求内临时数据，跨请求不共享任何可变状态。
type AnalysisService struct {
	Components Components
	Settings   Settings
}

// NewAnalysisService 创建分析服务实例
func NewAnalysisService(compOpts []ComponentOpt, setOpts []SettingOpt) *AnalysisService {
	service := &AnalysisService{
		Settings: Settings{
			Tokenizer:      analyzer.DefaultExtractorConfig(),
			MaxUploadBytes: constants.MaxUploadSizeBytes,
			Logger:         log.New(io.Discard, "", 0),
		},
	}

	for _, opt := range compOpts {
		opt(&service.Components)
	}
	for _, opt := range setOpts {
		opt(&service.Settings)
	}

	return service
}

// newAnalysisID 生成本次分析的标识（UUIDv7，时间有序便于日志排查）
func newAnalysisID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// 极少发生（随机源不可用），退回无序UUID
		return uuid.Must(uuid.NewV4()).String()
	}
	return id.String()
}

// ExtractResumeText 提取上传文件的文本，执行大小与类型校验。
// 文档完全无法产出文本时报分级错误；单页失败由提取器内部吞掉，不会到达这里。
func (s *AnalysisService) ExtractResumeText(ctx context.Context, data []byte, filename string) (string, error) {
	return s.extractResumeText(ctx, newAnalysisID(), data, filename)
}

// extractResumeText 带调用方分析标识的提取实现，保证提取日志与报告可关联
func (s *AnalysisService) extractResumeText(ctx context.Context, analysisID string, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", NewMissingInputError(analysisID, "简历文件为空")
	}
	if int64(len(data)) > s.Settings.MaxUploadBytes {
		return "", NewFileTooLargeError(analysisID, fmt.Sprintf("文件%d字节超过上限%d字节", len(data), s.Settings.MaxUploadBytes))
	}
	if s.Components.Extractor == nil {
		return "", NewEmptyExtractionError(analysisID, "文本提取器未配置")
	}

	text, metadata, err := s.Components.Extractor.ExtractTextFromBytes(ctx, data, filename)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedFileType) {
			return "", NewUnsupportedFileError(analysisID, err.Error())
		}
		return "", NewEmptyExtractionError(analysisID, err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return "", NewEmptyExtractionError(analysisID, "文档中没有可提取的文本")
	}

	s.logDebug("[提取 %s] 完成: %v", analysisID, metadata)

	return text, nil
}

// AnalyzeDocument 对上传的简历文件执行完整分析。
// 入参校验失败或文档无法产出文本时返回分级错误，供表现层映射为对应的HTTP状态。
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, data []byte, filename string, jobDescription string) (*types.AnalysisReport, error) {
	analysisID := newAnalysisID()

	if strings.TrimSpace(jobDescription) == "" {
		return nil, NewMissingInputError(analysisID, "岗位描述为空")
	}

	text, err := s.extractResumeText(ctx, analysisID, data, filename)
	if err != nil {
		return nil, err
	}

	return s.analyze(ctx, analysisID, text, jobDescription)
}

// AnalyzeText 对纯文本形式的简历执行完整分析
func (s *AnalysisService) AnalyzeText(ctx context.Context, resumeText string, jobDescription string) (*types.AnalysisReport, error) {
	analysisID := newAnalysisID()

	if strings.TrimSpace(resumeText) == "" {
		return nil, NewMissingInputError(analysisID, "简历文本为空")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, NewMissingInputError(analysisID, "岗位描述为空")
	}

	return s.analyze(ctx, analysisID, resumeText, jobDescription)
}

// analyze 纯文本入口之后的共同流水线。
// AI相关的失败（评分、点评）就地降级，不会中断本地计算部分。
func (s *AnalysisService) analyze(ctx context.Context, analysisID string, resumeText string, jobDescription string) (*types.AnalysisReport, error) {
	var warnings []string

	// 1. 关键词匹配
	resumeTokens := analyzer.Extract(resumeText, s.Settings.Tokenizer)
	jdTokens := analyzer.Extract(jobDescription, s.Settings.Tokenizer)
	match := analyzer.Match(resumeTokens, jdTokens)

	s.logDebug("[分析 %s] 关键词: 匹配%d个, 缺失%d个, 得分%d", analysisID, len(match.Matched), len(match.Missing), match.Score)

	// 2. 相关度评分（失败时各维度降级为0，由reviewer内部兜底）
	relevance := analyzer.Relevance{}
	if s.Components.Reviewer != nil {
		relevance.Experience = s.Components.Reviewer.RateRelevance(ctx, reviewer.DimensionExperience, resumeText, jobDescription)
		relevance.Skill = s.Components.Reviewer.RateRelevance(ctx, reviewer.DimensionSkill, resumeText, jobDescription)
	}

	// 3. 综合得分与ATS检查
	composite := analyzer.CompositeScoreOf(resumeText, jobDescription, relevance)
	ats := analyzer.ATSScore(resumeText, jobDescription)
	compatibility := analyzer.CheckCompatibility(resumeText)

	// 4. 小节划分
	sections := analyzer.SplitSections(resumeText)
	sectionTexts := make([]types.SectionText, 0, len(sections))
	for _, sec := range sections {
		sectionTexts = append(sectionTexts, types.SectionText{Name: sec.Name, Text: sec.RawText})
	}

	// 5. 整篇AI点评；失败时以错误说明替代反馈文本，其余结果照常返回
	feedback := ""
	if s.Components.Reviewer != nil {
		reviewText, err := s.Components.Reviewer.ReviewResume(ctx, resumeText, jobDescription)
		if err != nil {
			s.logWarn("[分析 %s] 整篇点评失败: %v", analysisID, err)
			feedback = "AI feedback is unavailable for this analysis. Please retry later."
			warnings = append(warnings, fmt.Sprintf("resume review failed: %v", err))
		} else {
			feedback = reviewText
		}
	}

	s.logInfo("[分析 %s] 完成: 综合%d, ATS %d", analysisID, composite.Overall, ats.Score)

	return &types.AnalysisReport{
		AnalysisID: analysisID,
		Keywords: types.KeywordMatch{
			Matched: match.Matched.Sorted(),
			Missing: match.Missing.Sorted(),
			Score:   match.Score,
		},
		Composite:     composite,
		ATS:           ats,
		Compatibility: compatibility,
		Sections:      sectionTexts,
		Feedback:      feedback,
		Warnings:      warnings,
	}, nil
}

// Enhance 对简历逐小节生成点评与改写，并拼装可下载的Markdown文档。
// 单个小节的AI失败只影响该小节（保留原文并附错误说明），不会中断其余小节。
func (s *AnalysisService) Enhance(ctx context.Context, resumeText string, jobDescription string) (*types.EnhanceResult, error) {
	analysisID := newAnalysisID()

	if strings.TrimSpace(resumeText) == "" {
		return nil, NewMissingInputError(analysisID, "简历文本为空")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, NewMissingInputError(analysisID, "岗位描述为空")
	}
	if s.Components.Reviewer == nil {
		return nil, NewServiceCallError(analysisID, "AI评审组件未配置")
	}

	var warnings []string
	sections := analyzer.SplitSections(resumeText)
	results := make([]types.SectionFeedback, 0, len(sections))

	for _, sec := range sections {
		if strings.TrimSpace(sec.RawText) == "" {
			continue
		}

		item := types.SectionFeedback{Name: sec.Name}

		feedback, err := s.Components.Reviewer.ReviewSection(ctx, sec.Name, sec.RawText, jobDescription)
		if err != nil {
			s.logWarn("[增强 %s] 小节点评失败(%s): %v", analysisID, sec.Name, err)
			item.Feedback = "AI feedback is unavailable for this section."
			warnings = append(warnings, fmt.Sprintf("section %q review failed: %v", sec.Name, err))
		} else {
			item.Feedback = feedback
		}

		rewritten, err := s.Components.Reviewer.RewriteSection(ctx, sec.Name, sec.RawText, jobDescription)
		if err != nil || strings.TrimSpace(rewritten) == "" {
			if err != nil {
				s.logWarn("[增强 %s] 小节改写失败(%s): %v", analysisID, sec.Name, err)
				warnings = append(warnings, fmt.Sprintf("section %q rewrite failed: %v", sec.Name, err))
			}
			// 改写失败保留原文
			item.Rewritten = sec.RawText
		} else {
			// 改写结果统一裁剪首尾空白，不依赖评审实现自律
			item.Rewritten = strings.TrimSpace(rewritten)
		}

		results = append(results, item)
	}

	return &types.EnhanceResult{
		AnalysisID: analysisID,
		Sections:   results,
		Markdown:   AssembleMarkdown(results),
		Warnings:   warnings,
	}, nil
}

// AssembleMarkdown 将增强后的各小节拼装为单个Markdown文档，
// 每个小节一个三级标题，顺序与小节在简历中的出现顺序一致
func AssembleMarkdown(sections []types.SectionFeedback) string {
	var sb strings.Builder
	for i, sec := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("### ")
		sb.WriteString(sec.Name)
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(sec.Rewritten))
		sb.WriteString("\n")
	}
	return sb.String()
}
