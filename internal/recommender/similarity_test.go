package recommender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarities(t *testing.T) {
	t.Run("同向量相似度为1", func(t *testing.T) {
		scores := CosineSimilarities([]float64{1, 2, 3}, [][]float64{{1, 2, 3}})
		require.Len(t, scores, 1)
		assert.InDelta(t, 1.0, scores[0], 1e-9)
	})

	t.Run("正交向量相似度为0", func(t *testing.T) {
		scores := CosineSimilarities([]float64{1, 0}, [][]float64{{0, 1}})
		assert.InDelta(t, 0.0, scores[0], 1e-9)
	})

	t.Run("反向向量相似度为-1", func(t *testing.T) {
		scores := CosineSimilarities([]float64{1, 0}, [][]float64{{-1, 0}})
		assert.InDelta(t, -1.0, scores[0], 1e-9)
	})

	t.Run("零范数查询向量全部记0", func(t *testing.T) {
		scores := CosineSimilarities([]float64{0, 0}, [][]float64{{1, 2}, {3, 4}})
		assert.Equal(t, []float64{0, 0}, scores)
	})

	t.Run("零范数语料行记0不除零", func(t *testing.T) {
		scores := CosineSimilarities([]float64{1, 1}, [][]float64{{0, 0}, {1, 1}})
		assert.Zero(t, scores[0])
		assert.InDelta(t, 1.0, scores[1], 1e-9)
	})

	t.Run("结果与矩阵行数等长", func(t *testing.T) {
		matrix := [][]float64{{1, 0}, {0, 1}, {1, 1}}
		scores := CosineSimilarities([]float64{1, 0}, matrix)
		assert.Len(t, scores, len(matrix))
	})

	t.Run("分数落在区间内", func(t *testing.T) {
		matrix := [][]float64{{0.3, -0.7}, {-2, 5}, {10, 10}}
		for _, s := range CosineSimilarities([]float64{1.5, -0.2}, matrix) {
			assert.LessOrEqual(t, math.Abs(s), 1.0+1e-9)
		}
	})
}

func TestToPercent(t *testing.T) {
	assert.InDelta(t, 100.0, ToPercent(1), 1e-9)
	assert.InDelta(t, 87.65, ToPercent(0.87654), 1e-9)
	assert.InDelta(t, 0.0, ToPercent(0), 1e-9)
	assert.InDelta(t, -50.0, ToPercent(-0.5), 1e-9)
}

func TestRound1(t *testing.T) {
	assert.InDelta(t, 66.7, round1(66.666), 1e-9)
	assert.InDelta(t, 33.3, round1(33.333), 1e-9)
}
