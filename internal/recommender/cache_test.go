package recommender

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"careernet-ml-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCacheBasics(t *testing.T) {
	cache := NewResponseCache(time.Minute, 10)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Put("key1", "value1")
	got, ok := cache.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", got)

	// 覆盖写
	cache.Put("key1", "value2")
	got, _ = cache.Get("key1")
	assert.Equal(t, "value2", got)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 60, stats.TTLSeconds)
	assert.Equal(t, 10, stats.MaxSize)
}

func TestResponseCacheTTL(t *testing.T) {
	cache := NewResponseCache(20*time.Millisecond, 10)
	cache.Put("key", "value")

	_, ok := cache.Get("key")
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	// 过期条目按未命中处理并被清除
	_, ok = cache.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Stats().Size)
}

func TestResponseCacheEviction(t *testing.T) {
	cache := NewResponseCache(time.Minute, 3)

	for i := 0; i < 3; i++ {
		cache.Put(fmt.Sprintf("key%d", i), i)
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 3, cache.Stats().Size)

	// 第4条写入后淘汰最旧的key0，刚写入的条目绝不被淘汰
	cache.Put("key3", 3)
	assert.Equal(t, 3, cache.Stats().Size)

	_, ok := cache.Get("key0")
	assert.False(t, ok, "最旧条目应被淘汰")
	_, ok = cache.Get("key3")
	assert.True(t, ok, "刚写入的条目应保留")
}

func TestResponseCacheClear(t *testing.T) {
	cache := NewResponseCache(time.Minute, 10)
	cache.Put("a", 1)
	cache.Put("b", 2)

	assert.Equal(t, 2, cache.Clear())
	assert.Equal(t, 0, cache.Stats().Size)
	assert.Equal(t, 0, cache.Clear())
}

func TestFingerprint(t *testing.T) {
	profile := types.Profile{Skills: "python", Experience: "5 years", Location: "Paris"}

	t.Run("同一输入指纹一致", func(t *testing.T) {
		assert.Equal(t, Fingerprint(profile, 5, nil), Fingerprint(profile, 5, nil))
	})

	t.Run("首尾空白不影响指纹", func(t *testing.T) {
		padded := types.Profile{Skills: "  python  ", Experience: " 5 years ", Location: "Paris"}
		assert.Equal(t, Fingerprint(profile, 5, nil), Fingerprint(padded, 5, nil))
	})

	t.Run("topN参与指纹", func(t *testing.T) {
		assert.NotEqual(t, Fingerprint(profile, 5, nil), Fingerprint(profile, 10, nil))
	})

	t.Run("筛选条件参与指纹", func(t *testing.T) {
		filters := &types.FilterSpec{Location: "Paris"}
		assert.NotEqual(t, Fingerprint(profile, 5, nil), Fingerprint(profile, 5, filters))

		other := &types.FilterSpec{SalaryMin: json.Number("40000")}
		assert.NotEqual(t, Fingerprint(profile, 5, filters), Fingerprint(profile, 5, other))
	})

	t.Run("空筛选等价于无筛选", func(t *testing.T) {
		assert.Equal(t, Fingerprint(profile, 5, nil), Fingerprint(profile, 5, &types.FilterSpec{}))
	})

	t.Run("档案内容参与指纹", func(t *testing.T) {
		other := types.Profile{Skills: "java", Experience: "5 years", Location: "Paris"}
		assert.NotEqual(t, Fingerprint(profile, 5, nil), Fingerprint(other, 5, nil))
	})
}
