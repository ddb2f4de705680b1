package recommender

import (
	"fmt"
	"strings"
)

// ExplainJob 根据分数档位与技能差集生成确定性的推荐说明。
// 三个子句用". "连接并以"."收尾，空输入的子句直接省略。
func ExplainJob(score float64, matching, missing []string) string {
	var clauses []string

	switch {
	case score >= 80:
		clauses = append(clauses, fmt.Sprintf("Excellent match with %.0f%% similarity", score))
	case score >= 60:
		clauses = append(clauses, fmt.Sprintf("Good match with %.0f%% similarity", score))
	default:
		clauses = append(clauses, fmt.Sprintf("Moderate match with %.0f%% similarity", score))
	}

	if len(matching) > 0 {
		clauses = append(clauses, "You already have the skills: "+joinFirst(matching, 5))
	}

	if len(missing) > 0 {
		clauses = append(clauses, "Skills to develop: "+joinFirst(missing, 3))
	}

	return strings.Join(clauses, ". ") + "."
}

// ExplainCourse 生成课程/认证推荐说明：优先说明课程覆盖了哪些技能缺口、
// 建立在哪些已有技能之上；两者皆空时退化为通用说明。
func ExplainCourse(score float64, gapCovered, buildsOn []string) string {
	var parts []string

	if len(gapCovered) > 0 {
		parts = append(parts, fmt.Sprintf("Covers %d of your missing skills: %s", len(gapCovered), joinFirst(gapCovered, 3)))
	}
	if len(buildsOn) > 0 {
		parts = append(parts, "Builds on your existing skills: "+joinFirst(buildsOn, 2))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Relevant course with %.0f%% match to your profile", score)
	}
	return strings.Join(parts, ". ")
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
