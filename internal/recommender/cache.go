package recommender

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"careernet-ml-go/internal/types"
)

// 缓存默认参数
const (
	DefaultCacheTTL        = time.Hour // 默认条目存活时间
	DefaultCacheMaxEntries = 1000      // 默认最大条目数
)

// cacheEntry 缓存条目，按创建时间做TTL判断与淘汰
type cacheEntry struct {
	value     interface{}
	createdAt time.Time
}

// ResponseCache 推荐结果的进程内缓存。
// TTL 在读取时惰性检查；条目数超限时淘汰创建时间最旧的一条(O(n)扫描，
// 在上限1000的规模下足够)。淘汰依据是创建时间而非访问时间。
// 这是服务中唯一的共享可变状态，用单把互斥锁保护。
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
}

// NewResponseCache 创建缓存，ttl/maxEntries 非正时取默认值
func NewResponseCache(ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &ResponseCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get 返回未过期的缓存值；过期条目当场删除并按未命中处理
func (c *ResponseCache) Get(fingerprint string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	if time.Since(entry.createdAt) >= c.ttl {
		delete(c.entries, fingerprint)
		return nil, false
	}
	return entry.value, true
}

// Put 写入或覆盖条目；超限时淘汰最旧条目，但绝不淘汰刚写入的这条
func (c *ResponseCache) Put(fingerprint string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fingerprint] = cacheEntry{value: value, createdAt: time.Now()}

	if len(c.entries) > c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for key, entry := range c.entries {
			if key == fingerprint {
				continue
			}
			if oldestKey == "" || entry.createdAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.createdAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}
}

// Stats 返回缓存统计信息
func (c *ResponseCache) Stats() types.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.CacheStats{
		Size:       len(c.entries),
		TTLSeconds: int(c.ttl.Seconds()),
		MaxSize:    c.maxEntries,
	}
}

// Clear 清空缓存，返回清除的条目数
func (c *ResponseCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cleared := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	return cleared
}

// Fingerprint 对归一化的档案字段与请求参数做内容哈希，作为缓存键。
// MD5 在这里只做指纹，不承担安全职责。
func Fingerprint(profile types.Profile, topN int, filters *types.FilterSpec) string {
	fields := []string{
		strings.TrimSpace(profile.Skills),
		strings.TrimSpace(profile.Experience),
		strings.TrimSpace(profile.Education),
		strings.TrimSpace(profile.Location),
		strings.TrimSpace(profile.ContractType),
		strings.TrimSpace(profile.Languages),
		strings.TrimSpace(profile.Certifications),
	}

	filtersPart := "no_filters"
	if !filters.IsZero() {
		if data, err := json.Marshal(filters); err == nil {
			filtersPart = string(data)
		}
	}

	payload := fmt.Sprintf("%s|%d|%s", strings.Join(fields, "|"), topN, filtersPart)
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
