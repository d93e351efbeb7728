package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"resume-enhancer-go/internal/parser"
	"resume-enhancer-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReviewer 测试用评审实现，可配置固定返回或故障
type stubReviewer struct {
	rating      int
	reviewText  string
	rewriteText string
	err         error

	reviewCalls  int
	rewriteCalls int
}

func (s *stubReviewer) ReviewResume(ctx context.Context, resumeText string, jobDescription string) (string, error) {
	s.reviewCalls++
	if s.err != nil {
		return "", s.err
	}
	return s.reviewText, nil
}

func (s *stubReviewer) ReviewSection(ctx context.Context, sectionName string, sectionText string, jobDescription string) (string, error) {
	s.reviewCalls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("feedback for %s", sectionName), nil
}

func (s *stubReviewer) RewriteSection(ctx context.Context, sectionName string, sectionText string, jobDescription string) (string, error) {
	s.rewriteCalls++
	if s.err != nil {
		return "", s.err
	}
	if s.rewriteText != "" {
		return s.rewriteText, nil
	}
	return "improved " + sectionText, nil
}

func (s *stubReviewer) RateRelevance(ctx context.Context, dimension string, resumeText string, jobDescription string) int {
	if s.err != nil {
		return 0
	}
	return s.rating
}

// fakeExtractor 返回固定文本的提取器
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.text, map[string]interface{}{"text_length": len(f.text)}, nil
}

func newTestService(rev ResumeReviewer, ext TextExtractor) *AnalysisService {
	var compOpts []ComponentOpt
	if rev != nil {
		compOpts = append(compOpts, WithcompReviewer(rev))
	}
	if ext != nil {
		compOpts = append(compOpts, WithcompExtractor(ext))
	}
	return NewAnalysisService(compOpts, nil)
}

func TestAnalyzeTextScenario(t *testing.T) {
	rev := &stubReviewer{rating: 80, reviewText: "Add SQL and AWS keywords."}
	service := newTestService(rev, nil)

	report, err := service.AnalyzeText(context.Background(), "I have Python and Docker experience", "Python SQL AWS")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.AnalysisID)
	assert.Equal(t, 33, report.Keywords.Score)
	assert.Equal(t, []string{"python"}, report.Keywords.Matched)
	assert.Equal(t, []string{"aws", "sql"}, report.Keywords.Missing)

	assert.Equal(t, 80, report.Composite.ExperienceScore)
	assert.Equal(t, 80, report.Composite.SkillScore)
	assert.Equal(t, "Add SQL and AWS keywords.", report.Feedback)
	assert.Empty(t, report.Warnings)
}

func TestAnalyzeTextMissingInputs(t *testing.T) {
	service := newTestService(&stubReviewer{}, nil)

	_, err := service.AnalyzeText(context.Background(), "", "some jd")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = service.AnalyzeText(context.Background(), "some resume", "   ")
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestAnalyzeTextDegradedService(t *testing.T) {
	rev := &stubReviewer{err: errors.New("timeout")}
	service := newTestService(rev, nil)

	report, err := service.AnalyzeText(context.Background(), "Python developer resume text", "Python developer role")
	require.NoError(t, err) // 服务故障就地降级，不向调用方抛错

	assert.Equal(t, 0, report.Composite.ExperienceScore)
	assert.Equal(t, 0, report.Composite.SkillScore)
	assert.Contains(t, report.Feedback, "unavailable")
	assert.NotEmpty(t, report.Warnings)
	// 本地计算部分不受影响
	assert.Greater(t, report.Keywords.Score, 0)
}

func TestAnalyzeDocumentSizeLimit(t *testing.T) {
	service := NewAnalysisService(
		[]ComponentOpt{WithcompExtractor(&fakeExtractor{text: "ok"})},
		[]SettingOpt{WithsetMaxUploadBytes(8)},
	)

	_, err := service.AnalyzeDocument(context.Background(), []byte("0123456789"), "resume.txt", "jd")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestAnalyzeDocumentEmptyExtraction(t *testing.T) {
	service := newTestService(&stubReviewer{}, &fakeExtractor{text: "   \n  "})

	_, err := service.AnalyzeDocument(context.Background(), []byte("%PDF-"), "resume.pdf", "jd text")
	assert.ErrorIs(t, err, ErrEmptyExtraction)
}

func TestAnalyzeDocumentUnsupportedType(t *testing.T) {
	service := newTestService(&stubReviewer{}, parser.NewAutoExtractor(nil, nil))

	_, err := service.AnalyzeDocument(context.Background(), []byte("binary"), "resume.exe", "jd text")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestAnalyzeDocumentPlainText(t *testing.T) {
	service := NewAnalysisService(
		[]ComponentOpt{
			WithcompExtractor(parser.NewAutoExtractor(nil, nil)),
			WithcompReviewer(&stubReviewer{rating: 50, reviewText: "fine"}),
		},
		nil,
	)

	resume := "Experience\nBuilt Python services\nSkills\nPython SQL"
	report, err := service.AnalyzeDocument(context.Background(), []byte(resume), "resume.txt", "Python SQL")
	require.NoError(t, err)
	assert.Equal(t, 100, report.Keywords.Score)

	names := make([]string, 0, len(report.Sections))
	for _, sec := range report.Sections {
		names = append(names, sec.Name)
	}
	assert.Equal(t, []string{"General", "Experience", "Skills"}, names)
}

// TestAnalyzeDocumentSharedAnalysisID 提取日志与分析日志使用同一个分析标识，便于排查时关联
func TestAnalyzeDocumentSharedAnalysisID(t *testing.T) {
	var buf bytes.Buffer
	service := NewAnalysisService(
		[]ComponentOpt{WithcompExtractor(parser.NewAutoExtractor(nil, nil))},
		[]SettingOpt{
			WithsetDebug(true),
			WithsetLogger(log.New(&buf, "", 0)),
		},
	)

	report, err := service.AnalyzeDocument(context.Background(), []byte("Skills\nPython"), "resume.txt", "Python")
	require.NoError(t, err)
	require.NotEmpty(t, report.AnalysisID)

	logs := buf.String()
	assert.Contains(t, logs, "[提取 "+report.AnalysisID+"]")
	assert.Contains(t, logs, "[分析 "+report.AnalysisID+"]")
}

func TestEnhance(t *testing.T) {
	rev := &stubReviewer{rewriteText: "  Led Python development across three teams.  "}
	service := newTestService(rev, nil)

	resume := "Experience\nBuilt internal tools\nSkills\nPython"
	result, err := service.Enhance(context.Background(), resume, "Python developer role")
	require.NoError(t, err)

	require.Len(t, result.Sections, 2)
	assert.Equal(t, "Experience", result.Sections[0].Name)
	assert.Equal(t, "feedback for Experience", result.Sections[0].Feedback)
	// 改写结果已去除首尾空白
	assert.Equal(t, "Led Python development across three teams.", result.Sections[0].Rewritten)

	assert.Contains(t, result.Markdown, "### Experience")
	assert.Contains(t, result.Markdown, "### Skills")
	assert.Empty(t, result.Warnings)
}

func TestEnhanceRewriteFailureKeepsOriginal(t *testing.T) {
	rev := &stubReviewer{err: errors.New("service down")}
	service := newTestService(rev, nil)

	resume := "Experience\nBuilt internal tools"
	result, err := service.Enhance(context.Background(), resume, "Backend role")
	require.NoError(t, err)

	require.Len(t, result.Sections, 1)
	assert.Equal(t, "Experience\nBuilt internal tools", result.Sections[0].Rewritten)
	assert.Contains(t, result.Sections[0].Feedback, "unavailable")
	assert.NotEmpty(t, result.Warnings)
}

func TestEnhanceMissingReviewer(t *testing.T) {
	service := newTestService(nil, nil)

	_, err := service.Enhance(context.Background(), "resume", "jd")
	assert.ErrorIs(t, err, ErrServiceCall)
}

func TestAssembleMarkdown(t *testing.T) {
	md := AssembleMarkdown([]types.SectionFeedback{
		{Name: "Experience", Rewritten: "Did things well."},
		{Name: "Skills", Rewritten: "Python, SQL."},
	})

	expected := "### Experience\n\nDid things well.\n\n### Skills\n\nPython, SQL.\n"
	assert.Equal(t, expected, md)

	assert.Equal(t, "", AssembleMarkdown(nil))
	assert.False(t, strings.HasPrefix(md, "\n"))
}
