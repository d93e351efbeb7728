package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"resume-enhancer-go/internal/api/handler"
	"resume-enhancer-go/internal/config"
	"resume-enhancer-go/internal/constants"
	"resume-enhancer-go/internal/parser"
	"resume-enhancer-go/internal/processor"
	"resume-enhancer-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine 按指定上传上限搭建路由，AI评审组件缺席（本地计算部分不受影响）
func newTestEngine(t *testing.T, maxUploadBytes int64) *server.Hertz {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	service := processor.NewAnalysisService(
		[]processor.ComponentOpt{processor.WithcompExtractor(parser.NewAutoExtractor(nil, nil))},
		[]processor.SettingOpt{processor.WithsetMaxUploadBytes(maxUploadBytes)},
	)

	h := server.New(
		server.WithHostPorts("127.0.0.1:0"),
		server.WithMaxRequestBodySize(int(maxUploadBytes)+1024*1024),
	)
	RegisterRoutes(h, handler.NewAnalysisHandler(cfg, service))
	return h
}

// buildAnalyzeForm 构造分析类接口的multipart表单
func buildAnalyzeForm(t *testing.T, filename string, fileContent []byte, jobDescription string) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(fileContent)
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("job_description", jobDescription))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// TestAnalyzeUploadRespectsConfiguredLimit 上传读取量跟随配置上限走。
// 文件超过默认常量上限但仍在配置上限内时，文件末尾的内容必须完整参与分析，
// 不允许被静默截断
func TestAnalyzeUploadRespectsConfiguredLimit(t *testing.T) {
	limit := int64(constants.MaxUploadSizeBytes) * 2
	h := newTestEngine(t, limit)

	filler := strings.Repeat("engineering delivered systems. ", constants.MaxUploadSizeBytes/31+64)
	content := []byte(filler + "zzzmarker")
	require.Greater(t, int64(len(content)), int64(constants.MaxUploadSizeBytes))
	require.Less(t, int64(len(content)), limit)

	body, contentType := buildAnalyzeForm(t, "resume.txt", content, "zzzmarker")
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/resume/analyze",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: contentType},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	assert.Contains(t, report.Keywords.Matched, "zzzmarker")
	assert.Equal(t, 100, report.Keywords.Score)
}

// TestAnalyzeUploadOverLimitRejected 超过配置上限的文件被明确拒绝而不是截断后分析
func TestAnalyzeUploadOverLimitRejected(t *testing.T) {
	h := newTestEngine(t, 1024)

	content := bytes.Repeat([]byte("a"), 4096)
	body, contentType := buildAnalyzeForm(t, "resume.txt", content, "python")
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/resume/analyze",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: contentType},
	)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}
