package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LLMConfig 补全服务（OpenAI兼容接口）配置
type LLMConfig struct {
	APIKey     string            `yaml:"api_key"`
	BaseURL    string            `yaml:"base_url"` // OpenAI兼容的chat/completions地址
	Model      string            `yaml:"model"`
	TaskModels map[string]string `yaml:"task_models"` // 任务专用模型

	// 各类提示词的采样温度
	ReviewTemperature  float64 `yaml:"review_temperature"`  // 自由文本反馈
	RewriteTemperature float64 `yaml:"rewrite_temperature"` // 小节改写
	RatingTemperature  float64 `yaml:"rating_temperature"`  // 数值评分

	RatingMaxTokens int    `yaml:"rating_max_tokens"` // 评分提示词的输出token上限
	RequestTimeout  string `yaml:"request_timeout"`   // 单次调用超时，例如 "30s"

	RequestsPerMinute int `yaml:"requests_per_minute"` // 调用限频(QPM)，0表示不限
}

// ExtractorConfig 文档文本提取配置
type ExtractorConfig struct {
	Type           string `yaml:"type"`            // 解析器类型："paged"（逐页软失败）或 "eino"（整篇）
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 提取超时(秒)
}

// AnalyzerConfig 关键词/短语提取策略配置
type AnalyzerConfig struct {
	MinTokenLength int      `yaml:"min_token_length"` // 最短token长度，默认3
	NGramMax       int      `yaml:"ngram_max"`        // 短语最大词数，1表示仅单词
	MaxVocabulary  int      `yaml:"max_vocabulary"`   // 词表上限，0表示不限
	ExtraStopwords []string `yaml:"extra_stopwords"`  // 在内置停用词表之外追加
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080"
}

// UploadConfig 上传限制配置
type UploadConfig struct {
	MaxFileSizeMB int `yaml:"max_file_size_mb"` // 默认10
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// Config 应用程序配置
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Server    ServerConfig    `yaml:"server"`
	Upload    UploadConfig    `yaml:"upload"`
	Logger    LoggerConfig    `yaml:"logger"`
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果未指定配置文件路径，则尝试在默认位置查找
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-enhancer", "config.yaml"),
		}

		// 可执行文件所在目录
		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
			searchPaths = append(searchPaths, filepath.Join(execDir, "..", "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 仍找不到配置文件时：测试环境返回默认配置，否则使用默认路径
		if configPath == "" {
			if inTestEnv() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	// 检查文件是否存在
	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖配置（如果存在）
	if envKey := os.Getenv("LLM_API_KEY"); envKey != "" {
		config.LLM.APIKey = envKey
	}
	if envURL := os.Getenv("LLM_BASE_URL"); envURL != "" {
		config.LLM.BaseURL = envURL
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		config.LLM.Model = envModel
	}

	applyDefaults(&config)

	return &config, nil
}

// inTestEnv 根据命令行参数判断是否运行在 go test 下
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 补齐缺省值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "https://api.groq.com/openai/v1/chat/completions"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "llama-3.3-70b-versatile"
	}
	if config.LLM.ReviewTemperature == 0 {
		config.LLM.ReviewTemperature = 0.6
	}
	if config.LLM.RewriteTemperature == 0 {
		config.LLM.RewriteTemperature = 0.5
	}
	if config.LLM.RatingTemperature == 0 {
		config.LLM.RatingTemperature = 0.3
	}
	if config.LLM.RatingMaxTokens == 0 {
		config.LLM.RatingMaxTokens = 16
	}
	if config.LLM.RequestTimeout == "" {
		config.LLM.RequestTimeout = "30s"
	}
	if config.Extractor.Type == "" {
		config.Extractor.Type = "paged"
	}
	if config.Extractor.TimeoutSeconds == 0 {
		config.Extractor.TimeoutSeconds = 30
	}
	if config.Analyzer.MinTokenLength == 0 {
		config.Analyzer.MinTokenLength = 3
	}
	if config.Analyzer.NGramMax == 0 {
		config.Analyzer.NGramMax = 1
	}
	if config.Upload.MaxFileSizeMB == 0 {
		config.Upload.MaxFileSizeMB = 10
	}
}

// createDefaultConfig 创建默认配置，用于测试环境
func createDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	config.Logger.Level = "info"
	config.Logger.Format = "pretty" // 开发环境默认使用美化输出
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	if envKey := os.Getenv("LLM_API_KEY"); envKey != "" {
		config.LLM.APIKey = envKey
	} else {
		config.LLM.APIKey = "test_api_key"
	}

	return config
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	config := createDefaultConfig()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}

	fmt.Printf("示例配置文件已创建: %s\n", filePath)
	return nil
}

// GetModelForTask 根据任务名称获取合适的模型
// 如果任务专用模型存在则返回专用模型，否则返回默认模型
func (c *Config) GetModelForTask(taskName string) string {
	if c.LLM.TaskModels != nil {
		if model, ok := c.LLM.TaskModels[taskName]; ok && model != "" {
			return model
		}
	}
	return c.LLM.Model
}

// GetDuration utility to parse duration strings from config
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
