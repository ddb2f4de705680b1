package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileQueryText(t *testing.T) {
	p := Profile{
		Skills:     "python docker",
		Experience: "5 years",
		Education:  "MSc",
		Location:   "Paris",
	}
	// 字段按固定顺序拼接，空字段保留占位空格
	assert.Equal(t, "python docker 5 years MSc Paris   ", p.QueryText())

	// 同一档案多次调用结果一致
	assert.Equal(t, p.QueryText(), p.QueryText())
}

func TestFilterSpecUnmarshal(t *testing.T) {
	t.Run("数值薪资", func(t *testing.T) {
		var f FilterSpec
		require.NoError(t, json.Unmarshal([]byte(`{"location":"Paris","salary_min":40000}`), &f))
		assert.Equal(t, "Paris", f.Location)
		v, err := f.SalaryMin.Float64()
		require.NoError(t, err)
		assert.Equal(t, 40000.0, v)
	})

	t.Run("字符串薪资同样接受", func(t *testing.T) {
		var f FilterSpec
		require.NoError(t, json.Unmarshal([]byte(`{"salary_max":"60000"}`), &f))
		v, err := f.SalaryMax.Float64()
		require.NoError(t, err)
		assert.Equal(t, 60000.0, v)
	})

	t.Run("IsZero判断", func(t *testing.T) {
		var f FilterSpec
		require.NoError(t, json.Unmarshal([]byte(`{}`), &f))
		assert.True(t, f.IsZero())
	})
}

func TestCacheStatsJSONFields(t *testing.T) {
	data, err := json.Marshal(CacheStats{Size: 3, TTLSeconds: 3600, MaxSize: 1000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cache_size":3,"cache_ttl_seconds":3600,"max_cache_size":1000}`, string(data))
}
