package handler

import (
	"context"
	"errors"
	"testing"

	"resume-enhancer-go/internal/config"
	"resume-enhancer-go/internal/parser"
	"resume-enhancer-go/internal/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedReviewer 返回固定文本的评审实现
type fixedReviewer struct {
	text string
	err  error
}

func (f *fixedReviewer) ReviewResume(ctx context.Context, resumeText, jobDescription string) (string, error) {
	return f.text, f.err
}

func (f *fixedReviewer) ReviewSection(ctx context.Context, sectionName, sectionText, jobDescription string) (string, error) {
	return f.text, f.err
}

func (f *fixedReviewer) RewriteSection(ctx context.Context, sectionName, sectionText, jobDescription string) (string, error) {
	return f.text, f.err
}

func (f *fixedReviewer) RateRelevance(ctx context.Context, dimension, resumeText, jobDescription string) int {
	if f.err != nil {
		return 0
	}
	return 70
}

func newTestHandler(t *testing.T) *AnalysisHandler {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	service := processor.NewAnalysisService(
		[]processor.ComponentOpt{
			processor.WithcompExtractor(parser.NewAutoExtractor(nil, nil)),
			processor.WithcompReviewer(&fixedReviewer{text: "Solid resume, add more keywords."}),
		},
		nil,
	)

	return NewAnalysisHandler(cfg, service)
}

func TestHandleAnalyzeTextInput(t *testing.T) {
	h := newTestHandler(t)

	report, err := h.HandleAnalyze(context.Background(), nil, "", "Python and SQL developer", "Python SQL AWS")
	require.NoError(t, err)

	assert.Equal(t, 66, report.Keywords.Score)
	assert.Equal(t, "Solid resume, add more keywords.", report.Feedback)
}

func TestHandleAnalyzeFileInput(t *testing.T) {
	h := newTestHandler(t)

	resume := []byte("Experience\nPython services\nSkills\nPython SQL")
	report, err := h.HandleAnalyze(context.Background(), resume, "resume.txt", "", "Python SQL")
	require.NoError(t, err)

	assert.Equal(t, 100, report.Keywords.Score)
	assert.NotEmpty(t, report.Sections)
}

func TestHandleAnalyzeMissingJobDescription(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.HandleAnalyze(context.Background(), nil, "", "resume text", "")
	assert.ErrorIs(t, err, processor.ErrMissingInput)
}

func TestHandleEnhanceAndExport(t *testing.T) {
	h := newTestHandler(t)

	resume := "Experience\nBuilt internal tools\nSkills\nPython"
	result, err := h.HandleEnhance(context.Background(), nil, "", resume, "Python developer")
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)

	markdown, err := h.HandleExport(context.Background(), nil, "", resume, "Python developer")
	require.NoError(t, err)
	assert.Contains(t, markdown, "### Experience")
	assert.Contains(t, markdown, "### Skills")
}

func TestResolveResumeTextPrefersFile(t *testing.T) {
	h := newTestHandler(t)

	text, err := h.ResolveResumeText(context.Background(), []byte("from file"), "resume.txt", "from form")
	require.NoError(t, err)
	assert.Equal(t, "from file", text)

	text, err = h.ResolveResumeText(context.Background(), nil, "", "  from form  ")
	require.NoError(t, err)
	assert.Equal(t, "from form", text)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, 400, StatusForError(processor.NewMissingInputError("id", "")))
	assert.Equal(t, 400, StatusForError(processor.NewUnsupportedFileError("id", "")))
	assert.Equal(t, 413, StatusForError(processor.NewFileTooLargeError("id", "")))
	assert.Equal(t, 422, StatusForError(processor.NewEmptyExtractionError("id", "")))
	assert.Equal(t, 500, StatusForError(errors.New("boom")))
}
