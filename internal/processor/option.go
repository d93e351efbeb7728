package processor

import (
	"io"
	"log"

	"resume-enhancer-go/internal/analyzer"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithcompExtractor 设置文档文本提取组件
func WithcompExtractor(extractor TextExtractor) ComponentOpt {
	return func(c *Components) {
		c.Extractor = extractor
	}
}

// WithcompReviewer 设置AI评审组件
func WithcompReviewer(reviewer ResumeReviewer) ComponentOpt {
	return func(c *Components) {
		c.Reviewer = reviewer
	}
}

// ----- 设置选项 -----

// WithsetTokenizer 设置关键词提取策略
func WithsetTokenizer(cfg analyzer.ExtractorConfig) SettingOpt {
	return func(s *Settings) {
		s.Tokenizer = cfg
	}
}

// WithsetMaxUploadBytes 设置文件大小上限(字节)
func WithsetMaxUploadBytes(limit int64) SettingOpt {
	return func(s *Settings) {
		if limit > 0 {
			s.MaxUploadBytes = limit
		}
	}
}

// WithsetDebug 设置调试模式
func WithsetDebug(debug bool) SettingOpt {
	return func(s *Settings) {
		s.Debug = debug
	}
}

// WithsetLogger 设置日志记录器
func WithsetLogger(logger *log.Logger) SettingOpt {
	return func(s *Settings) {
		if logger != nil {
			s.Logger = logger
		} else {
			// 提供一个 discard logger 以防万一
			s.Logger = log.New(io.Discard, "", 0)
		}
	}
}

// logDebug 记录调试级别日志
func (s *AnalysisService) logDebug(format string, args ...interface{}) {
	if s.Settings.Debug && s.Settings.Logger != nil {
		s.Settings.Logger.Printf(format, args...)
	}
}

// logInfo 记录信息级别日志
func (s *AnalysisService) logInfo(format string, args ...interface{}) {
	if s.Settings.Logger != nil {
		s.Settings.Logger.Printf(format, args...)
	}
}

// logWarn 记录警告级别日志
func (s *AnalysisService) logWarn(format string, args ...interface{}) {
	if s.Settings.Logger != nil {
		s.Settings.Logger.Printf("[WARN] "+format, args...)
	}
}
