package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMatchScenario 对应典型场景：jd="Python SQL AWS"，简历含Python和Docker
func TestMatchScenario(t *testing.T) {
	cfg := DefaultExtractorConfig()
	jdTokens := Extract("Python SQL AWS", cfg)
	resumeTokens := Extract("I have Python and Docker experience", cfg)

	require.Equal(t, NewTokenSet("python", "sql", "aws"), jdTokens)

	result := Match(resumeTokens, jdTokens)

	assert.Equal(t, NewTokenSet("python"), result.Matched)
	assert.Equal(t, NewTokenSet("sql", "aws"), result.Missing)
	assert.Equal(t, 33, result.Score) // floor(100×1/3)
}

// TestMatchDisjoint 词汇完全不相交时得分为0
func TestMatchDisjoint(t *testing.T) {
	result := Match(NewTokenSet("golang", "redis"), NewTokenSet("python", "sql"))

	assert.Empty(t, result.Matched)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, NewTokenSet("python", "sql"), result.Missing)
}

// TestMatchIdentical 规范化后相同的文本得分为100且无缺失
func TestMatchIdentical(t *testing.T) {
	cfg := DefaultExtractorConfig()
	jdTokens := Extract("Senior Go developer with Kubernetes", cfg)
	resumeTokens := Extract("senior go developer WITH kubernetes", cfg)

	require.NotEmpty(t, jdTokens)

	result := Match(resumeTokens, jdTokens)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Missing)
}

// TestMatchEmptyJD 空岗位描述不应触发除零错误
func TestMatchEmptyJD(t *testing.T) {
	result := Match(NewTokenSet("python"), NewTokenSet())

	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Missing)
}

// TestMatchInvariants 验证 Matched ∪ Missing = jdTokens 且两者不相交
func TestMatchInvariants(t *testing.T) {
	cases := []struct {
		resume string
		jd     string
	}{
		{"python docker kubernetes", "python sql aws"},
		{"", "python sql"},
		{"python sql", ""},
		{"backend services in go with postgres", "go postgres grpc kafka"},
	}

	cfg := DefaultExtractorConfig()
	for _, tc := range cases {
		resumeTokens := Extract(tc.resume, cfg)
		jdTokens := Extract(tc.jd, cfg)
		result := Match(resumeTokens, jdTokens)

		// 并集还原jdTokens
		union := make(TokenSet)
		for tok := range result.Matched {
			union[tok] = struct{}{}
		}
		for tok := range result.Missing {
			union[tok] = struct{}{}
		}
		assert.Equal(t, jdTokens, union)

		// 交集为空
		assert.Empty(t, result.Matched.Intersect(result.Missing))
	}
}
