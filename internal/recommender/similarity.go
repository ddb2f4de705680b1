package recommender

import (
	"math"
)

// CosineSimilarities 计算单个查询向量与矩阵各行的余弦相似度。
// 零范数向量(全零行或空行)的相似度记为0，绝不除零。
func CosineSimilarities(query []float64, matrix [][]float64) []float64 {
	scores := make([]float64, len(matrix))
	queryNorm := vectorNorm(query)
	if queryNorm == 0 {
		return scores
	}
	for i, row := range matrix {
		scores[i] = cosine(query, row, queryNorm)
	}
	return scores
}

// cosine dot(a,b) / (|a|*|b|)，b 零范数时返回0
func cosine(a, b []float64, aNorm float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, bSq float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range b {
		bSq += v * v
	}
	if bSq == 0 {
		return 0
	}
	return dot / (aNorm * math.Sqrt(bSq))
}

func vectorNorm(v []float64) float64 {
	var sq float64
	for _, x := range v {
		sq += x * x
	}
	return math.Sqrt(sq)
}

// ToPercent 将[-1,1]区间的相似度换算为0-100的展示分数，保留两位小数。
// 过滤在未缩放的分数上进行，只有面向用户的分数才做缩放。
func ToPercent(sim float64) float64 {
	return math.Round(sim*100*100) / 100
}

// round1 保留一位小数
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
