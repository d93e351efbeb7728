package router

import (
	"context"
	"io"
	"time"

	"resume-enhancer-go/internal/api/handler"
	"resume-enhancer-go/internal/constants"
	"resume-enhancer-go/internal/logger"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// analyzeForm 从multipart表单中取出的分析输入
type analyzeForm struct {
	fileBytes      []byte
	filename       string
	resumeText     string
	jobDescription string
}

// readForm 读取分析类接口共用的表单字段。
// 文件字段可选，缺席时退回resume_text纯文本字段。
// maxUploadBytes来自流水线配置；多读1字节让超限文件保持超限，由流水线报413
func readForm(ctx *app.RequestContext, maxUploadBytes int64) (*analyzeForm, bool) {
	form := &analyzeForm{
		resumeText:     ctx.PostForm("resume_text"),
		jobDescription: ctx.PostForm("job_description"),
	}

	fileHeader, err := ctx.FormFile("file")
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开上传文件失败"})
			return nil, false
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取上传文件失败"})
			return nil, false
		}
		form.fileBytes = data
		form.filename = fileHeader.Filename
	}

	if len(form.fileBytes) == 0 && form.resumeText == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "缺少简历：请上传file或填写resume_text"})
		return nil, false
	}
	if form.jobDescription == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "缺少岗位描述job_description"})
		return nil, false
	}

	return form, true
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, analysisHandler *handler.AnalysisHandler) {
	h.Use(requestLogger())

	maxUploadBytes := analysisHandler.MaxUploadBytes()
	api := h.Group("/api/v1")

	api.POST("/resume/analyze", func(c context.Context, ctx *app.RequestContext) {
		form, ok := readForm(ctx, maxUploadBytes)
		if !ok {
			return
		}

		report, err := analysisHandler.HandleAnalyze(c, form.fileBytes, form.filename, form.resumeText, form.jobDescription)
		if err != nil {
			ctx.JSON(handler.StatusForError(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, report)
	})

	api.POST("/resume/enhance", func(c context.Context, ctx *app.RequestContext) {
		form, ok := readForm(ctx, maxUploadBytes)
		if !ok {
			return
		}

		result, err := analysisHandler.HandleEnhance(c, form.fileBytes, form.filename, form.resumeText, form.jobDescription)
		if err != nil {
			ctx.JSON(handler.StatusForError(err), utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	api.POST("/resume/export", func(c context.Context, ctx *app.RequestContext) {
		form, ok := readForm(ctx, maxUploadBytes)
		if !ok {
			return
		}

		markdown, err := analysisHandler.HandleExport(c, form.fileBytes, form.filename, form.resumeText, form.jobDescription)
		if err != nil {
			ctx.JSON(handler.StatusForError(err), utils.H{"error": err.Error()})
			return
		}

		ctx.Header("Content-Disposition", `attachment; filename="enhanced_resume.md"`)
		ctx.Data(consts.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
	})

	// 健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{
			"status":  "ok",
			"version": constants.AppVersion,
		})
	})
}

// requestLogger 记录每个请求的方法、路径、状态码和耗时
func requestLogger() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)

		logger.Info().
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", ctx.Response.StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("请求完成")
	}
}
