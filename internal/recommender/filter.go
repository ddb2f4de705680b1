package recommender

import (
	"encoding/json"
	"strings"

	"careernet-ml-go/internal/corpus"
	"careernet-ml-go/internal/types"
)

// FilteredScore 被筛掉的行写入的哨兵分数，小于任何合法的余弦分数，
// 排序时自然沉底，并可用 score >= 0 剔除。
const FilteredScore = -1.0

// ApplyFilters 对分数数组应用结构化筛选，返回等长的新数组。
// 未通过任一启用条件的行置为 FilteredScore；候选记录缺失的字段按空值
// 处理(薪资缺失的行无条件通过薪资区间筛选)，绝不报错。
func ApplyFilters(candidates []corpus.Candidate, scores []float64, spec *types.FilterSpec) []float64 {
	filtered := make([]float64, len(scores))
	copy(filtered, scores)
	if spec.IsZero() {
		return filtered
	}

	salaryMin, hasMin := salaryBound(spec.SalaryMin)
	salaryMax, hasMax := salaryBound(spec.SalaryMax)

	for i, c := range candidates {
		if i >= len(filtered) {
			break
		}
		if !passes(c, spec, salaryMin, hasMin, salaryMax, hasMax) {
			filtered[i] = FilteredScore
		}
	}
	return filtered
}

// passes 所有启用的条件取逻辑与
func passes(c corpus.Candidate, spec *types.FilterSpec, salaryMin float64, hasMin bool, salaryMax float64, hasMax bool) bool {
	if spec.Location != "" && !containsFold(c.Location, spec.Location) {
		return false
	}
	if spec.ContractType != "" && !containsFold(c.ContractType, spec.ContractType) {
		return false
	}
	if spec.ExperienceLevel != "" && !containsFold(c.Experience, spec.ExperienceLevel) {
		return false
	}
	// 薪资区间只约束有可解析正薪资的记录，缺数据的行直接放行
	if (hasMin || hasMax) && c.Salary > 0 {
		if hasMin && c.Salary < salaryMin {
			return false
		}
		if hasMax && c.Salary > salaryMax {
			return false
		}
	}
	return true
}

// salaryBound 解析薪资边界。非数字输入视为该条件不适用，而非请求级错误。
func salaryBound(n json.Number) (float64, bool) {
	if n == "" {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
