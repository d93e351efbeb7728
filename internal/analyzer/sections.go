package analyzer

import "strings"

// Section 简历中的一个带标签的连续片段
type Section struct {
	Name    string
	RawText string
}

// GeneralSectionName 首个识别到的小节标题之前的内容归入该合成小节
const GeneralSectionName = "General"

// sectionVocabulary 小节标题关键词，按固定优先级排列
// 一行命中多个关键词时，表中靠前者胜出
var sectionVocabulary = []string{
	"education",
	"experience",
	"projects",
	"skills",
	"certifications",
	"achievements",
	"summary",
	"objective",
}

// SplitSections 按标题关键词把简历文本切分为有序的小节列表
// 返回顺序为各小节在原文中首次出现的顺序，首位始终是General小节（可能为空）
// 同名标题再次出现时继续向已有小节追加，保证不丢行
func SplitSections(text string) []Section {
	type accumulator struct {
		name  string
		lines []string
	}

	general := &accumulator{name: GeneralSectionName}
	index := map[string]*accumulator{GeneralSectionName: general}
	order := []*accumulator{general}
	current := general

	for _, line := range strings.Split(text, "\n") {
		lowered := strings.ToLower(line)
		for _, word := range sectionVocabulary {
			if strings.Contains(lowered, word) {
				name := strings.ToUpper(word[:1]) + word[1:]
				acc, ok := index[name]
				if !ok {
					acc = &accumulator{name: name}
					index[name] = acc
					order = append(order, acc)
				}
				current = acc
				break
			}
		}
		// 标题行本身也归入它开启的小节
		current.lines = append(current.lines, line)
	}

	sections := make([]Section, 0, len(order))
	for _, acc := range order {
		sections = append(sections, Section{
			Name:    acc.name,
			RawText: strings.TrimSpace(strings.Join(acc.lines, "\n")),
		})
	}
	return sections
}
