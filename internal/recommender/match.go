package recommender

import (
	"strings"
)

// MatchAnalyzer 比较档案技能与候选文本技能，得出匹配/缺失集合与匹配率
type MatchAnalyzer struct {
	extractor *SkillExtractor
}

// NewMatchAnalyzer 创建匹配分析器，与提取器共用同一份词表
func NewMatchAnalyzer(extractor *SkillExtractor) *MatchAnalyzer {
	return &MatchAnalyzer{extractor: extractor}
}

// Analyze 计算档案文本与候选文本的技能匹配。
// 返回匹配技能、缺失技能(各截断到 MaxSkills)和匹配百分比(保留一位小数)。
// 百分比用截断前的匹配数除以候选技能总数，截断只影响展示。
// 候选技能为空时返回 (nil, nil, 0)，任何输入都不会出错。
func (m *MatchAnalyzer) Analyze(profileText, candidateText string) ([]string, []string, float64) {
	profileSkills := m.extractor.Extract(profileText)
	candidateSkills := m.extractor.Extract(candidateText)

	if len(candidateSkills) == 0 {
		return nil, nil, 0.0
	}

	candidateSet := lowerSet(candidateSkills)
	profileSet := lowerSet(profileSkills)

	var matching []string
	for _, skill := range profileSkills {
		if _, ok := candidateSet[strings.ToLower(skill)]; ok {
			matching = append(matching, skill)
		}
	}

	var missing []string
	for _, skill := range candidateSkills {
		if _, ok := profileSet[strings.ToLower(skill)]; !ok {
			missing = append(missing, skill)
		}
	}

	percentage := round1(float64(len(matching)) / float64(len(candidateSkills)) * 100)

	if len(matching) > MaxSkills {
		matching = matching[:MaxSkills]
	}
	if len(missing) > MaxSkills {
		missing = missing[:MaxSkills]
	}
	return matching, missing, percentage
}

func lowerSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}
