package recommender

import (
	"regexp"
	"strings"
)

// MaxSkills 单次提取返回的技能数上限
const MaxSkills = 10

// capitalizedWord 匹配首字母大写的单词，常见于专有技术名词(如 TensorFlow 去掉驼峰后的 Tensorflow、Spark)
var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// SkillExtractor 基于固定词表加大写词启发式的技能提取器。
// 提取是全函数：任意文本(包括空串与非ASCII)都不会出错。
type SkillExtractor struct {
	vocabulary []string
}

// NewSkillExtractor 创建技能提取器，词表由调用方提供(配置或测试词表)
func NewSkillExtractor(vocabulary []string) *SkillExtractor {
	return &SkillExtractor{vocabulary: vocabulary}
}

// Extract 从自由文本中提取归一化的技能集合。
// 结果去重、保持插入顺序(词表序在前、大写词序在后)并截断到 MaxSkills，
// 同一输入多次调用结果一致。
func (e *SkillExtractor) Extract(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var skills []string
	add := func(skill string) {
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		skills = append(skills, skill)
	}

	// 词表命中按子串匹配，命中的词条转为标题格式("machine learning" -> "Machine Learning")
	for _, keyword := range e.vocabulary {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			add(titleCase(keyword))
		}
	}

	// 原始大小写文本中的大写词(长度>2)按原样收录
	for _, word := range capitalizedWord.FindAllString(text, -1) {
		if len(word) > 2 {
			add(word)
		}
	}

	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return skills
}

// titleCase 将每个空格分隔的词首字母大写
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
