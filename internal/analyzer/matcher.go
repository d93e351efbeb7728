package analyzer

// MatchResult 两个token集合的匹配结果
// 不变量: Matched ∪ Missing = jdTokens，Matched ∩ Missing = ∅
type MatchResult struct {
	Matched TokenSet
	Missing TokenSet
	Score   int // 0-100，岗位描述token被简历覆盖的百分比
}

// Match 计算简历token集合对岗位描述token集合的覆盖情况
// 纯函数，两个集合任意为空都不会出错；岗位描述为空时得分为0
func Match(resumeTokens, jdTokens TokenSet) MatchResult {
	matched := jdTokens.Intersect(resumeTokens)
	missing := jdTokens.Difference(resumeTokens)

	score := 0
	if len(jdTokens) > 0 {
		score = 100 * len(matched) / len(jdTokens) // 整数除法即向下取整
	}

	return MatchResult{
		Matched: matched,
		Missing: missing,
		Score:   score,
	}
}
