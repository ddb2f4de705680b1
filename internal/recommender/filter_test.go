package recommender

import (
	"encoding/json"
	"testing"

	"careernet-ml-go/internal/corpus"
	"careernet-ml-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandidates() []corpus.Candidate {
	return []corpus.Candidate{
		{ID: "1", Location: "Paris, France", ContractType: "Full-time", Experience: "Senior", Salary: 60000},
		{ID: "2", Location: "London, UK", ContractType: "Part-time", Experience: "Junior", Salary: 30000},
		{ID: "3", Location: "Remote", ContractType: "Full-time", Experience: "Mid-level", Salary: 0},
	}
}

func TestApplyFilters(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.7}

	t.Run("无筛选条件时原样返回", func(t *testing.T) {
		got := ApplyFilters(testCandidates(), scores, nil)
		assert.Equal(t, scores, got)

		got = ApplyFilters(testCandidates(), scores, &types.FilterSpec{})
		assert.Equal(t, scores, got)
	})

	t.Run("不修改输入数组", func(t *testing.T) {
		spec := &types.FilterSpec{Location: "Paris"}
		_ = ApplyFilters(testCandidates(), scores, spec)
		assert.Equal(t, []float64{0.9, 0.8, 0.7}, scores)
	})

	t.Run("地点子串匹配大小写不敏感", func(t *testing.T) {
		got := ApplyFilters(testCandidates(), scores, &types.FilterSpec{Location: "paris"})
		assert.Equal(t, 0.9, got[0])
		assert.Equal(t, FilteredScore, got[1])
		assert.Equal(t, FilteredScore, got[2])
	})

	t.Run("薪资区间筛选", func(t *testing.T) {
		spec := &types.FilterSpec{SalaryMin: json.Number("40000")}
		got := ApplyFilters(testCandidates(), scores, spec)
		assert.Equal(t, 0.9, got[0])
		assert.Equal(t, FilteredScore, got[1])
		// 薪资缺失的记录不受薪资条件约束
		assert.Equal(t, 0.7, got[2])
	})

	t.Run("薪资上限", func(t *testing.T) {
		spec := &types.FilterSpec{SalaryMax: json.Number("40000")}
		got := ApplyFilters(testCandidates(), scores, spec)
		assert.Equal(t, FilteredScore, got[0])
		assert.Equal(t, 0.8, got[1])
		assert.Equal(t, 0.7, got[2])
	})

	t.Run("非数字薪资边界视为条件不适用", func(t *testing.T) {
		spec := &types.FilterSpec{SalaryMin: json.Number("not-a-number")}
		got := ApplyFilters(testCandidates(), scores, spec)
		assert.Equal(t, scores, got)
	})

	t.Run("多条件取逻辑与", func(t *testing.T) {
		spec := &types.FilterSpec{Location: "Paris", ContractType: "Part-time"}
		got := ApplyFilters(testCandidates(), scores, spec)
		for _, s := range got {
			assert.Equal(t, FilteredScore, s)
		}
	})

	t.Run("经验级别筛选", func(t *testing.T) {
		spec := &types.FilterSpec{ExperienceLevel: "senior"}
		got := ApplyFilters(testCandidates(), scores, spec)
		assert.Equal(t, 0.9, got[0])
		assert.Equal(t, FilteredScore, got[1])
	})

	t.Run("收紧条件只会减少通过的行", func(t *testing.T) {
		loose := ApplyFilters(testCandidates(), scores, &types.FilterSpec{ContractType: "Full-time"})
		tight := ApplyFilters(testCandidates(), scores, &types.FilterSpec{ContractType: "Full-time", Location: "Paris"})
		for i := range loose {
			if tight[i] != FilteredScore {
				// 在更紧条件下通过的行，在更松条件下必然也通过
				require.NotEqual(t, FilteredScore, loose[i])
			}
		}
	})
}

func TestFilterSpecIsZero(t *testing.T) {
	var nilSpec *types.FilterSpec
	assert.True(t, nilSpec.IsZero())
	assert.True(t, (&types.FilterSpec{}).IsZero())
	assert.False(t, (&types.FilterSpec{Location: "Paris"}).IsZero())
	assert.False(t, (&types.FilterSpec{SalaryMin: json.Number("1")}).IsZero())
}
