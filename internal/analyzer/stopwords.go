package analyzer

import "strings"

// defaultStopwords 内置英文停用词表：常见功能词不参与关键词比较
var defaultStopwords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "been", "being", "but",
		"by", "can", "could", "did", "do", "does", "for", "from", "had",
		"has", "have", "her", "hers", "him", "his", "how", "i", "if", "in",
		"into", "is", "it", "its", "may", "might", "more", "most", "must",
		"my", "no", "nor", "not", "of", "on", "or", "our", "ours", "shall",
		"she", "should", "so", "some", "such", "than", "that", "the",
		"their", "theirs", "them", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "up", "upon", "was",
		"we", "were", "what", "when", "where", "which", "while", "who",
		"whom", "why", "will", "with", "would", "you", "your", "yours",
	}
	for _, w := range words {
		defaultStopwords[w] = struct{}{}
	}
}

// DefaultStopwords 返回内置停用词表的副本，可追加自定义词后传入ExtractorConfig
func DefaultStopwords(extra ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStopwords)+len(extra))
	for w := range defaultStopwords {
		set[w] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
