package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"resume-enhancer-go/internal/agent"
	"resume-enhancer-go/internal/analyzer"
	"resume-enhancer-go/internal/api/handler"
	"resume-enhancer-go/internal/api/router"
	"resume-enhancer-go/internal/config"
	appCoreLogger "resume-enhancer-go/internal/logger"
	"resume-enhancer-go/internal/parser"
	"resume-enhancer-go/internal/processor"
	"resume-enhancer-go/internal/reviewer"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	// .env用于本地开发时注入LLM_API_KEY等变量，缺失时忽略
	_ = godotenv.Load()

	var configPath string
	var genConfig bool
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.BoolVar(&genConfig, "gen-config", false, "Write a sample config.yaml and exit")
	pflag.Parse()

	if genConfig {
		if err := config.CreateSampleConfig("config.yaml"); err != nil {
			log.Fatalf("生成示例配置失败: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 文本提取器：逐页软失败策略为默认，整篇eino解析按配置启用
	extractorLogger := log.New(appCoreLogger.Logger, "[Extractor] ", log.LstdFlags)
	var pdfExtractor parser.Extractor
	switch cfg.Extractor.Type {
	case "eino":
		pdfExtractor, err = parser.NewEinoPDFExtractor(ctx, parser.WithEinoLogger(extractorLogger))
		if err != nil {
			glog.Fatalf("创建Eino PDF提取器失败: %v", err)
		}
		glog.Info("使用Eino PDF解析器")
	default:
		pdfExtractor = parser.NewPagedPDFExtractor(parser.WithPagedLogger(extractorLogger))
		glog.Info("使用逐页PDF解析器")
	}
	autoExtractor := parser.NewAutoExtractor(pdfExtractor, parser.NewDocxExtractor(extractorLogger))

	// 补全服务模型
	var modelOpts []agent.OpenAIOption
	if cfg.LLM.RequestsPerMinute > 0 {
		modelOpts = append(modelOpts, agent.WithRateLimiter(agent.NewRateLimiter(cfg.LLM.RequestsPerMinute)))
		glog.Infof("补全服务调用限频: %d QPM", cfg.LLM.RequestsPerMinute)
	}
	chatModel, err := agent.NewOpenAIChatModel(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL, modelOpts...)
	if err != nil {
		glog.Fatalf("初始化补全服务模型失败: %v", err)
	}
	glog.Infof("补全服务模型初始化成功: %s", cfg.LLM.Model)

	var reviewerLogger *log.Logger
	if cfg.Logger.Level == "debug" {
		reviewerLogger = log.New(appCoreLogger.Logger, "[Reviewer] ", log.LstdFlags)
	} else {
		reviewerLogger = log.New(io.Discard, "", 0)
	}
	resumeReviewer := reviewer.NewLLMReviewer(chatModel, cfg, reviewerLogger)
	glog.Info("简历评审器初始化成功")

	// 关键词提取策略来自配置
	tokenizerCfg := analyzer.ExtractorConfig{
		MinTokenLength: cfg.Analyzer.MinTokenLength,
		Stopwords:      analyzer.DefaultStopwords(cfg.Analyzer.ExtraStopwords...),
		NGramMax:       cfg.Analyzer.NGramMax,
		MaxVocabulary:  cfg.Analyzer.MaxVocabulary,
	}

	serviceLogger := log.New(appCoreLogger.Logger, "[Analysis] ", log.LstdFlags)
	analysisService := processor.NewAnalysisService(
		[]processor.ComponentOpt{
			processor.WithcompExtractor(autoExtractor),
			processor.WithcompReviewer(resumeReviewer),
		},
		[]processor.SettingOpt{
			processor.WithsetTokenizer(tokenizerCfg),
			processor.WithsetMaxUploadBytes(int64(cfg.Upload.MaxFileSizeMB) * 1024 * 1024),
			processor.WithsetDebug(cfg.Logger.Level == "debug"),
			processor.WithsetLogger(serviceLogger),
		},
	)
	glog.Info("分析服务初始化成功")

	analysisHandler := handler.NewAnalysisHandler(cfg, analysisService)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(cfg.Upload.MaxFileSizeMB*1024*1024+1024*1024),
	)
	router.RegisterRoutes(h, analysisHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化zerolog全局日志并接管hertz的hlog，控制台与文件双写
func initLogger(cfg *config.Config) {
	logFilePath := filepath.Join("logs", "app.log")
	var fileWriter io.Writer
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err == nil {
		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			fileWriter = f
		}
	}
	if fileWriter == nil {
		log.Printf("无法打开日志文件 %s，仅输出到控制台", logFilePath)
	}

	appCoreLogger.InitWithWriter(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	}, fileWriter)

	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
}
