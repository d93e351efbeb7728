package analyzer

import (
	"math"
	"strings"
)

// CompositeScore 加权综合得分，各子分均为0-100
type CompositeScore struct {
	KeywordScore    int `json:"keyword_score"`
	ExperienceScore int `json:"experience_score"`
	SkillScore      int `json:"skill_score"`
	FormattingScore int `json:"formatting_score"`
	Overall         int `json:"overall"`
}

// Relevance 外部评定的相关性子分（通常来自补全服务的0-100评分）
type Relevance struct {
	Experience int
	Skill      int
}

// 综合得分的固定权重
const (
	weightKeyword    = 0.3
	weightExperience = 0.3
	weightSkill      = 0.2
	weightFormatting = 0.2
)

// CompositeScoreOf 计算加权综合得分
// 关键词子分使用粗粒度的空白切分token（比Extract便宜，仅在综合启发式内部使用）；
// 经验/技能子分由调用方提供，本函数不做网络调用
func CompositeScoreOf(resumeText, jdText string, rel Relevance) CompositeScore {
	keyword := coarseKeywordScore(resumeText, jdText)
	formatting := formattingScore(resumeText)

	overall := math.Round(
		weightKeyword*float64(keyword) +
			weightExperience*float64(rel.Experience) +
			weightSkill*float64(rel.Skill) +
			weightFormatting*float64(formatting))

	return CompositeScore{
		KeywordScore:    keyword,
		ExperienceScore: rel.Experience,
		SkillScore:      rel.Skill,
		FormattingScore: formatting,
		Overall:         clampScore(int(overall)),
	}
}

// coarseKeywordScore 基于空白切分的全词匹配得分，公式与Match相同
func coarseKeywordScore(resumeText, jdText string) int {
	jdWords := coarseTokens(jdText)
	if len(jdWords) == 0 {
		return 0
	}
	resumeWords := coarseTokens(resumeText)

	matched := 0
	for w := range jdWords {
		if _, ok := resumeWords[w]; ok {
			matched++
		}
	}
	return 100 * matched / len(jdWords)
}

// coarseTokens 小写后按空白切分的去重词集
func coarseTokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

// formattingScore 格式启发式：篇幅超长和缺少标点分隔的"文字墙"各扣20分
// 两项惩罚独立叠加，结果钳制在[0,100]
func formattingScore(resumeText string) int {
	score := 100
	wordCount := len(strings.Fields(resumeText))

	if wordCount > 1000 {
		score -= 20
	}

	terminators := strings.Count(resumeText, ".") +
		strings.Count(resumeText, "!") +
		strings.Count(resumeText, "?")
	ratio := 0.0
	if wordCount > 0 {
		ratio = float64(terminators) / float64(wordCount)
	}
	if ratio < 0.03 {
		score -= 20
	}

	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
