package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ATSResult ATS兼容性启发式得分及逐项明细
type ATSResult struct {
	Score     int      `json:"score"`     // 0-100
	Breakdown []string `json:"breakdown"` // 每个评分项的人类可读说明
}

// CompatibilityResult 二值兼容性检查结果
type CompatibilityResult struct {
	Pass     bool     `json:"pass"`
	Problems []string `json:"problems"` // 具体的整改建议
}

// expectedHeaders ATS期望在简历中出现的小节标题词
var expectedHeaders = []string{"education", "experience", "projects", "skills", "contact"}

// letterRunPattern 连续4个及以上字母；完全缺失时怀疑字体编码损坏
var letterRunPattern = regexp.MustCompile(`[A-Za-z]{4,}`)

// ATSScore 模拟自动化简历初筛的打分：
// 关键词覆盖40分 + 小节标题20分 + 篇幅区间20分 + 格式问题20分
func ATSScore(resumeText, jdText string) ATSResult {
	var breakdown []string
	total := 0

	// 1. 关键词覆盖 (40分)
	jdWords := coarseTokens(jdText)
	coverage := 0.0
	if len(jdWords) > 0 {
		matched := 0
		resumeWords := coarseTokens(resumeText)
		for w := range jdWords {
			if _, ok := resumeWords[w]; ok {
				matched++
			}
		}
		coverage = math.Min(float64(matched)/float64(len(jdWords)), 1.0)
	}
	keywordPoints := int(math.Round(coverage * 40))
	total += keywordPoints
	breakdown = append(breakdown, fmt.Sprintf("Keyword coverage: %d/40", keywordPoints))

	// 2. 小节标题 (20分，每命中一个得20/5分)
	hits := countHeaderHits(resumeText)
	headerPoints := 20 * hits / len(expectedHeaders)
	total += headerPoints
	breakdown = append(breakdown, fmt.Sprintf("Section headers (%d/%d found): %d/20", hits, len(expectedHeaders), headerPoints))

	// 3. 篇幅区间 (300-1000词得20分，否则10分)
	wordCount := len(strings.Fields(resumeText))
	lengthPoints := 10
	if wordCount >= 300 && wordCount <= 1000 {
		lengthPoints = 20
	}
	total += lengthPoints
	breakdown = append(breakdown, fmt.Sprintf("Length (%d words): %d/20", wordCount, lengthPoints))

	// 4. 格式问题 (20分起，每个问题扣10分)
	issues := formattingIssues(resumeText)
	formatPoints := 20 - 10*len(issues)
	if formatPoints < 0 {
		formatPoints = 0
	}
	total += formatPoints
	breakdown = append(breakdown, fmt.Sprintf("Formatting (%d issue(s)): %d/20", len(issues), formatPoints))

	return ATSResult{
		Score:     clampScore(total),
		Breakdown: breakdown,
	}
}

// CheckCompatibility 基于同一组信号的二值检查，返回是否通过及整改建议
func CheckCompatibility(resumeText string) CompatibilityResult {
	var problems []string

	wordCount := len(strings.Fields(resumeText))
	if wordCount < 300 {
		problems = append(problems, "Resume is too short; aim for at least 300 words.")
	}
	if wordCount > 1000 {
		problems = append(problems, "Resume is too long; keep it under 1000 words.")
	}

	lowered := strings.ToLower(resumeText)
	var missing []string
	for _, header := range expectedHeaders {
		if !strings.Contains(lowered, header) {
			missing = append(missing, header)
		}
	}
	if len(missing) > 0 {
		problems = append(problems, "Missing expected section headers: "+strings.Join(missing, ", ")+".")
	}

	if !letterRunPattern.MatchString(resumeText) {
		problems = append(problems, "Text appears corrupted; the resume may use a non-standard font encoding.")
	}
	if containsWord(resumeText, "table") || containsWord(resumeText, "image") {
		problems = append(problems, "Embedded tables or images may not be readable by automated screeners.")
	}

	return CompatibilityResult{
		Pass:     len(problems) == 0,
		Problems: problems,
	}
}

// countHeaderHits 统计期望标题词在简历中出现的个数
func countHeaderHits(resumeText string) int {
	lowered := strings.ToLower(resumeText)
	hits := 0
	for _, header := range expectedHeaders {
		if strings.Contains(lowered, header) {
			hits++
		}
	}
	return hits
}

// formattingIssues 检测可能影响自动解析的格式问题
func formattingIssues(resumeText string) []string {
	var issues []string
	if containsWord(resumeText, "table") || containsWord(resumeText, "image") {
		issues = append(issues, "embedded table/image artifacts")
	}
	if !letterRunPattern.MatchString(resumeText) {
		issues = append(issues, "no readable text runs; possible font-encoding corruption")
	}
	return issues
}

// containsWord 判断文本的空白切分词中是否含有指定单词（忽略大小写）
func containsWord(text, word string) bool {
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if strings.Trim(w, ".,;:!?()") == word {
			return true
		}
	}
	return false
}
