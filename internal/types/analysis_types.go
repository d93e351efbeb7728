package types

import "resume-enhancer-go/internal/analyzer"

// KeywordMatch 关键词匹配结果的展示形态（集合已排序为稳定的列表）
type KeywordMatch struct {
	// 简历与岗位描述共有的关键词
	Matched []string `json:"matched"`

	// 岗位描述中简历缺失的关键词
	Missing []string `json:"missing"`

	// 覆盖率得分 (0-100)
	Score int `json:"score"`
}

// SectionText 简历中一个带标签的小节
type SectionText struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// AnalysisReport 一次完整分析的输出，全部字段为本次请求内临时计算
type AnalysisReport struct {
	// 本次分析的标识，仅用于日志关联
	AnalysisID string `json:"analysis_id"`

	// 关键词匹配
	Keywords KeywordMatch `json:"keywords"`

	// 加权综合得分
	Composite analyzer.CompositeScore `json:"composite"`

	// ATS兼容性得分及明细
	ATS analyzer.ATSResult `json:"ats"`

	// 二值兼容性检查
	Compatibility analyzer.CompatibilityResult `json:"compatibility"`

	// 简历小节划分
	Sections []SectionText `json:"sections"`

	// 整篇简历的AI反馈（Markdown文本；补全服务失败时为错误说明）
	Feedback string `json:"feedback"`

	// 本次分析中被本地恢复的服务错误说明，正常时为空
	Warnings []string `json:"warnings,omitempty"`
}

// SectionFeedback 单个小节的AI反馈与改写结果
type SectionFeedback struct {
	Name string `json:"name"`

	// 针对该小节的评审意见
	Feedback string `json:"feedback"`

	// 面向岗位改写后的小节文本；改写失败时保留原文
	Rewritten string `json:"rewritten"`
}

// EnhanceResult 逐小节增强的输出
type EnhanceResult struct {
	AnalysisID string `json:"analysis_id"`

	Sections []SectionFeedback `json:"sections"`

	// 所有增强后小节拼装成的Markdown文档，可直接下载
	Markdown string `json:"markdown"`

	Warnings []string `json:"warnings,omitempty"`
}
