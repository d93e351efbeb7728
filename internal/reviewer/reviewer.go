package reviewer

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"resume-enhancer-go/internal/config"
	"resume-enhancer-go/internal/constants"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

// 相关度评分的维度名称，会被插入到评分提示词中
const (
	DimensionExperience = "work experience"
	DimensionSkill      = "technical skills"
)

// 默认提示词模板。占位符顺序固定：见各 build 函数。
const (
	defaultResumeReviewTemplate = `You are an expert resume reviewer. Analyze the following resume against the job description.
Identify matching skills, missing keywords, and suggest bullet point improvements.

Resume:
%s

Job Description:
%s

Give detailed feedback in points.`

	defaultSectionReviewTemplate = `You are an expert resume reviewer. Review the "%s" section of a resume against the job description below.
Point out weaknesses and missing keywords, and suggest concrete improvements as bullet points.

Section:
%s

Job Description:
%s`

	defaultSectionRewriteTemplate = `You are an expert resume writer. Rewrite the "%s" section of a resume so it better targets the job description below.
Keep all facts truthful, strengthen the wording with action verbs, and quantify results where the original text allows it.
Output only the rewritten section text with no commentary.

Section:
%s

Job Description:
%s`

	defaultRelevanceRatingTemplate = `Rate from 0 to 100 how relevant the candidate's %s is to the job description below.
Respond with a single integer only.

Resume:
%s

Job Description:
%s`
)

// firstIntPattern 从自由文本评分响应中取第一个整数
var firstIntPattern = regexp.MustCompile(`\d+`)

// LLMReviewer 封装针对简历的各类LLM调用（整篇点评、小节点评、小节改写、相关度评分）。
// 所有方法共用一份超时与温度配置，模型按任务名可单独覆盖。
type LLMReviewer struct {
	llmModel model.ToolCallingChatModel
	cfg      *config.Config
	logger   *log.Logger

	resumeReviewTemplate    string
	sectionReviewTemplate   string
	sectionRewriteTemplate  string
	relevanceRatingTemplate string

	timeout time.Duration
}

// LLMReviewerOption 是评审器的配置选项
type LLMReviewerOption func(*LLMReviewer)

// WithResumeReviewTemplate 覆盖整篇简历点评模板
func WithResumeReviewTemplate(template string) LLMReviewerOption {
	return func(r *LLMReviewer) {
		r.resumeReviewTemplate = template
	}
}

// WithSectionReviewTemplate 覆盖小节点评模板
func WithSectionReviewTemplate(template string) LLMReviewerOption {
	return func(r *LLMReviewer) {
		r.sectionReviewTemplate = template
	}
}

// WithSectionRewriteTemplate 覆盖小节改写模板
func WithSectionRewriteTemplate(template string) LLMReviewerOption {
	return func(r *LLMReviewer) {
		r.sectionRewriteTemplate = template
	}
}

// WithRequestTimeout 覆盖单次LLM调用超时
func WithRequestTimeout(timeout time.Duration) LLMReviewerOption {
	return func(r *LLMReviewer) {
		r.timeout = timeout
	}
}

// NewLLMReviewer 创建一个新的评审器实例
func NewLLMReviewer(llmModel model.ToolCallingChatModel, cfg *config.Config, logger *log.Logger, options ...LLMReviewerOption) *LLMReviewer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0) // 默认使用丢弃型记录器
	}

	reviewer := &LLMReviewer{
		llmModel:                llmModel,
		cfg:                     cfg,
		logger:                  logger,
		resumeReviewTemplate:    defaultResumeReviewTemplate,
		sectionReviewTemplate:   defaultSectionReviewTemplate,
		sectionRewriteTemplate:  defaultSectionRewriteTemplate,
		relevanceRatingTemplate: defaultRelevanceRatingTemplate,
		timeout:                 config.GetDuration(cfg.LLM.RequestTimeout, 30*time.Second),
	}

	for _, opt := range options {
		opt(reviewer)
	}

	return reviewer
}

// ReviewResume 生成整篇简历相对岗位描述的点评
func (r *LLMReviewer) ReviewResume(ctx context.Context, resumeText string, jobDescription string) (string, error) {
	prompt := fmt.Sprintf(r.resumeReviewTemplate, resumeText, jobDescription)
	return r.complete(ctx, constants.TaskResumeReview, prompt, r.cfg.LLM.ReviewTemperature, 0)
}

// ReviewSection 生成单个小节相对岗位描述的点评
func (r *LLMReviewer) ReviewSection(ctx context.Context, sectionName string, sectionText string, jobDescription string) (string, error) {
	prompt := fmt.Sprintf(r.sectionReviewTemplate, sectionName, sectionText, jobDescription)
	return r.complete(ctx, constants.TaskSectionReview, prompt, r.cfg.LLM.ReviewTemperature, 0)
}

// RewriteSection 改写单个小节的文本使其更贴合岗位描述。
// 返回值已去除首尾空白，直接作为新的小节内容使用。
func (r *LLMReviewer) RewriteSection(ctx context.Context, sectionName string, sectionText string, jobDescription string) (string, error) {
	prompt := fmt.Sprintf(r.sectionRewriteTemplate, sectionName, sectionText, jobDescription)
	content, err := r.complete(ctx, constants.TaskSectionRewrite, prompt, r.cfg.LLM.RewriteTemperature, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// RateRelevance 评估简历在给定维度上与岗位描述的相关度(0-100)。
// 解析响应中的第一个整数；调用失败或响应中没有整数时返回0，从不返回错误，
// 保证外层综合评分在LLM不可用时仍能完整产出。
func (r *LLMReviewer) RateRelevance(ctx context.Context, dimension string, resumeText string, jobDescription string) int {
	prompt := fmt.Sprintf(r.relevanceRatingTemplate, dimension, resumeText, jobDescription)

	content, err := r.complete(ctx, constants.TaskRelevanceRating, prompt, r.cfg.LLM.RatingTemperature, r.cfg.LLM.RatingMaxTokens)
	if err != nil {
		r.logger.Printf("[LLMReviewer] 相关度评分调用失败(维度=%s)，降级为0: %v", dimension, err)
		return 0
	}

	return parseRating(content)
}

// complete 向补全服务发送单条user消息并返回响应文本。
// maxTokens为0时不设置输出上限。
func (r *LLMReviewer) complete(ctx context.Context, taskName string, prompt string, temperature float64, maxTokens int) (string, error) {
	if r.llmModel == nil {
		return "", fmt.Errorf("LLMReviewer: llmModel is not initialized")
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	messages := []*einoschema.Message{
		einoschema.UserMessage(prompt),
	}

	opts := []model.Option{
		model.WithModel(r.cfg.GetModelForTask(taskName)),
		model.WithTemperature(float32(temperature)),
	}
	if maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxTokens))
	}

	r.logger.Printf("[LLMReviewer] 任务=%s 提示词(前300字符): %.300s", taskName, prompt)

	response, err := r.llmModel.Generate(callCtx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("LLMReviewer: LLM call failed (task=%s): %w", taskName, err)
	}
	if response == nil || response.Content == "" {
		return "", fmt.Errorf("LLMReviewer: LLM returned empty response (task=%s)", taskName)
	}

	// 去掉可能出现的BOM前缀
	return strings.TrimPrefix(response.Content, "\uFEFF"), nil
}

// parseRating 取出响应中的第一个整数并收敛到 [0, 100]，找不到时返回0
func parseRating(content string) int {
	match := firstIntPattern.FindString(content)
	if match == "" {
		return 0
	}

	value, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
