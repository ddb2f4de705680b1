package types

import (
	"encoding/json"
	"strings"
)

// Profile 用户档案，推荐请求的输入，核心不做持久化
type Profile struct {
	Skills         string `json:"skills"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Location       string `json:"location"`
	ContractType   string `json:"contract_type,omitempty"`
	Languages      string `json:"languages,omitempty"`
	Certifications string `json:"certifications,omitempty"`
}

// QueryText 将档案各字段按固定顺序拼接为查询文本。
// 字段顺序不可变更，否则同一档案会产生不同向量。
func (p Profile) QueryText() string {
	return strings.Join([]string{
		p.Skills, p.Experience, p.Education, p.Location,
		p.ContractType, p.Languages, p.Certifications,
	}, " ")
}

// FilterSpec 结构化筛选条件，各字段均可选，同时出现时取逻辑与。
// 薪资边界用 json.Number 接收，非数字输入按"该条件不适用"处理而非报错。
type FilterSpec struct {
	Location        string      `json:"location,omitempty"`
	SalaryMin       json.Number `json:"salary_min,omitempty"`
	SalaryMax       json.Number `json:"salary_max,omitempty"`
	ContractType    string      `json:"contract_type,omitempty"`
	ExperienceLevel string      `json:"experience_level,omitempty"`
}

// IsZero 判断是否没有任何有效筛选条件
func (f *FilterSpec) IsZero() bool {
	if f == nil {
		return true
	}
	return f.Location == "" && f.SalaryMin == "" && f.SalaryMax == "" &&
		f.ContractType == "" && f.ExperienceLevel == ""
}

// JobRecommendation 单条岗位推荐结果
type JobRecommendation struct {
	JobID                string   `json:"job_id,omitempty"`
	JobRole              string   `json:"job_role,omitempty"`
	Company              string   `json:"company"`
	Location             string   `json:"location"`
	SkillsDescription    string   `json:"skills_description"`
	Score                float64  `json:"score"`
	Explanation          string   `json:"explanation,omitempty"`
	MatchingSkills       []string `json:"matching_skills,omitempty"`
	MissingSkills        []string `json:"missing_skills,omitempty"`
	SkillMatchPercentage float64  `json:"skill_match_percentage"`
}

// RecommendationResponse 岗位推荐响应
type RecommendationResponse struct {
	Recommendations []JobRecommendation `json:"recommendations"`
	Message         string              `json:"message"`
	TotalFound      int                 `json:"total_found"`
	FiltersApplied  *FilterSpec         `json:"filters_applied,omitempty"`
}

// CertificationRecommendation 单条课程/认证推荐结果
type CertificationRecommendation struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Provider             string   `json:"provider,omitempty"`
	Level                string   `json:"level,omitempty"`
	SkillsCovered        []string `json:"skills_covered,omitempty"`
	Score                float64  `json:"score"`
	RelevanceExplanation string   `json:"relevance_explanation,omitempty"`
}

// CertificationResponse 课程/认证推荐响应
type CertificationResponse struct {
	Recommendations []CertificationRecommendation `json:"recommendations"`
	Message         string                        `json:"message"`
	SkillGap        []string                      `json:"skill_gap,omitempty"`
	TotalFound      int                           `json:"total_found"`
}

// CacheStats 缓存统计信息
type CacheStats struct {
	Size       int `json:"cache_size"`
	TTLSeconds int `json:"cache_ttl_seconds"`
	MaxSize    int `json:"max_cache_size"`
}
