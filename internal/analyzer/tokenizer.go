package analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// TokenSet 规范化后的关键词/短语集合（小写、去重、无空串）
type TokenSet map[string]struct{}

// NewTokenSet 从若干token构建集合
func NewTokenSet(tokens ...string) TokenSet {
	set := make(TokenSet, len(tokens))
	for _, t := range tokens {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Contains 判断token是否在集合中
func (s TokenSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Intersect 返回两个集合的交集
func (s TokenSet) Intersect(other TokenSet) TokenSet {
	result := make(TokenSet)
	for t := range s {
		if other.Contains(t) {
			result[t] = struct{}{}
		}
	}
	return result
}

// Difference 返回在s中但不在other中的token
func (s TokenSet) Difference(other TokenSet) TokenSet {
	result := make(TokenSet)
	for t := range s {
		if !other.Contains(t) {
			result[t] = struct{}{}
		}
	}
	return result
}

// Sorted 返回按字典序排序的token列表，用于稳定的输出和展示
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ExtractorConfig 关键词提取策略配置
// 各策略变体（纯单词、n-gram短语、词表截断）统一在这一个配置后面
type ExtractorConfig struct {
	MinTokenLength int                 // 最短token长度，低于该长度的单词被丢弃
	Stopwords      map[string]struct{} // 停用词表，nil时使用内置表
	NGramMax       int                 // 短语最大词数；>1时在单词之外额外产出2..N词短语
	MaxVocabulary  int                 // 词表上限；>0时仅保留出现频率最高的前N个token
}

// DefaultExtractorConfig 返回默认提取配置（单词、长度3、内置停用词）
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MinTokenLength: 3,
		Stopwords:      defaultStopwords,
		NGramMax:       1,
	}
}

// 单词匹配模式：字母数字开头，词内允许 + - # . 以保留 "c++"、"c#"、"node.js" 这类术语
var wordPattern = regexp.MustCompile(`[a-z0-9][a-z0-9+#.\-]*`)

// hasLetter 判断token中是否含有字母；纯数字/符号串不作为关键词
func hasLetter(token string) bool {
	for _, r := range token {
		if r >= 'a' && r <= 'z' {
			return true
		}
	}
	return false
}

// Extract 将原始文本转换为规范化的关键词/短语集合
// 空文本或不含字母的文本返回空集合，不会报错
func Extract(text string, cfg ExtractorConfig) TokenSet {
	if cfg.MinTokenLength <= 0 {
		cfg.MinTokenLength = 3
	}
	stopwords := cfg.Stopwords
	if stopwords == nil {
		stopwords = defaultStopwords
	}

	lowered := strings.ToLower(text)
	raw := wordPattern.FindAllString(lowered, -1)

	// 先做长度和停用词过滤，得到有序的单词流
	// n-gram在过滤后的流上构建，避免产出由停用词拼成的短语
	filtered := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimRight(tok, ".-") // 去掉句尾的点和连字符
		if len(tok) < cfg.MinTokenLength {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if !hasLetter(tok) {
			continue
		}
		filtered = append(filtered, tok)
	}

	// 按流顺序记录所有候选token（单词+短语），用于词表截断时的频率统计
	stream := make([]string, 0, len(filtered))
	stream = append(stream, filtered...)

	if cfg.NGramMax > 1 {
		for n := 2; n <= cfg.NGramMax; n++ {
			for i := 0; i+n <= len(filtered); i++ {
				stream = append(stream, strings.Join(filtered[i:i+n], " "))
			}
		}
	}

	if cfg.MaxVocabulary > 0 {
		return capVocabulary(stream, cfg.MaxVocabulary)
	}

	return NewTokenSet(stream...)
}

// capVocabulary 保留出现频率最高的前limit个token，频率相同时先出现者优先
func capVocabulary(stream []string, limit int) TokenSet {
	type entry struct {
		token string
		count int
		first int // 首次出现位置
	}

	index := make(map[string]*entry)
	var order []*entry
	for i, tok := range stream {
		if e, ok := index[tok]; ok {
			e.count++
			continue
		}
		e := &entry{token: tok, count: 1, first: i}
		index[tok] = e
		order = append(order, e)
	}

	if len(order) <= limit {
		return NewTokenSet(stream...)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	result := make(TokenSet, limit)
	for _, e := range order[:limit] {
		result[e.token] = struct{}{}
	}
	return result
}
