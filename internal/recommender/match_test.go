package recommender

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(vocab ...string) *MatchAnalyzer {
	return NewMatchAnalyzer(NewSkillExtractor(vocab))
}

func TestAnalyzeSkillMatch(t *testing.T) {
	analyzer := newTestAnalyzer("python", "sql", "docker")

	t.Run("匹配与缺失技能", func(t *testing.T) {
		matching, missing, pct := analyzer.Analyze("python and docker", "Python SQL Docker")
		assert.Equal(t, []string{"Python", "Docker"}, matching)
		assert.Equal(t, []string{"Sql"}, missing)
		// 2/3 保留一位小数
		assert.InDelta(t, 66.7, pct, 0.001)
	})

	t.Run("候选技能为空", func(t *testing.T) {
		matching, missing, pct := analyzer.Analyze("python", "")
		assert.Nil(t, matching)
		assert.Nil(t, missing)
		assert.Zero(t, pct)
	})

	t.Run("档案技能为空时全部缺失", func(t *testing.T) {
		matching, missing, pct := analyzer.Analyze("", "python sql")
		assert.Empty(t, matching)
		assert.Equal(t, []string{"Python", "Sql"}, missing)
		assert.Zero(t, pct)
	})

	t.Run("完全匹配为100", func(t *testing.T) {
		_, missing, pct := analyzer.Analyze("python sql docker", "python sql docker")
		assert.Empty(t, missing)
		assert.InDelta(t, 100.0, pct, 0.001)
	})

	t.Run("大小写不敏感", func(t *testing.T) {
		matching, _, pct := analyzer.Analyze("PYTHON", "python")
		assert.Equal(t, []string{"Python"}, matching)
		assert.InDelta(t, 100.0, pct, 0.001)
	})

	t.Run("百分比在0到100之间", func(t *testing.T) {
		inputs := []string{"python", "python sql", "docker sql python", "nothing here"}
		for _, profile := range inputs {
			for _, candidate := range inputs {
				_, _, pct := analyzer.Analyze(profile, candidate)
				assert.GreaterOrEqual(t, pct, 0.0)
				assert.LessOrEqual(t, pct, 100.0)
			}
		}
	})
}

func TestAnalyzeTruncation(t *testing.T) {
	// 候选文本含大量技能时，展示列表截断但百分比按截断前计算
	var vocab []string
	for i := 0; i < 15; i++ {
		vocab = append(vocab, fmt.Sprintf("skill%02d", i))
	}
	analyzer := newTestAnalyzer(vocab...)

	candidateText := strings.Join(vocab, " ")
	matching, missing, pct := analyzer.Analyze("", candidateText)
	require.Empty(t, matching)
	// 提取本身截断到 MaxSkills，缺失列表不会超过该上限
	assert.LessOrEqual(t, len(missing), MaxSkills)
	assert.Zero(t, pct)
}
