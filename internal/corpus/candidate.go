package corpus

import (
	"strconv"
)

// AdapterVersion 字段映射适配器版本。原始语料中的记录字段命名并不统一
// (例如 "Job_Role" 与 "title" 并存)，适配器在加载时一次性归一化为
// Candidate，下游排序代码不再做任何字段回退查找。
const AdapterVersion = "v1"

// Candidate 语料库中的候选记录(岗位或课程)，加载后只读
type Candidate struct {
	ID           string
	Role         string
	Company      string
	Location     string
	ContractType string
	Experience   string
	Salary       float64
	SkillsText   string // 岗位的技能/描述文本，技能匹配的依据

	// 课程/认证专用字段
	Title       string
	Provider    string
	Level       string
	Description string
}

// AdaptJobRecord 将原始岗位记录映射为 Candidate
func AdaptJobRecord(raw map[string]interface{}) Candidate {
	return Candidate{
		ID:           stringField(raw, "_id", "id", "job_id"),
		Role:         stringField(raw, "Job_Role", "job_role", "title"),
		Company:      stringField(raw, "Company", "company"),
		Location:     stringField(raw, "Location", "location"),
		ContractType: stringField(raw, "Contract_Type", "contract_type", "type"),
		Experience:   stringField(raw, "Job Experience", "experience"),
		Salary:       numberField(raw, "salary", "Salary"),
		SkillsText:   stringField(raw, "Skills/Description", "skills_description", "description"),
	}
}

// AdaptCourseRecord 将原始课程记录映射为 Candidate
func AdaptCourseRecord(raw map[string]interface{}) Candidate {
	return Candidate{
		ID:          stringField(raw, "_id", "id"),
		Title:       stringField(raw, "title", "Title"),
		Provider:    stringField(raw, "provider", "Provider"),
		Level:       stringField(raw, "level", "Level"),
		Description: stringField(raw, "description", "Description"),
		SkillsText:  stringField(raw, "skills", "Skills"),
	}
}

// stringField 按优先级取第一个存在且非空的字符串字段
func stringField(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// numberField 按优先级取第一个可解析为正数的数值字段，缺失时返回0
func numberField(raw map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			if n > 0 {
				return n
			}
		case int:
			if n > 0 {
				return float64(n)
			}
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil && f > 0 {
				return f
			}
		}
	}
	return 0
}
