package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"careernet-ml-go/internal/config"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound 键不存在，封装底层的 redis.Nil
var ErrNotFound = redis.Nil

// 向量备忘键前缀，键体为文本MD5
const vectorMemoKeyPrefix = "vector_memo:"

// Redis 封装Redis客户端。用于 corpussync 的向量备忘：同一文本在模型
// 版本不变时跳过重复的Embedding调用。请求期的推荐结果缓存是进程内的，
// 不经过这里。
type Redis struct {
	Client *redis.Client
	cfg    *config.RedisConfig
}

// vectorMemoRecord 向量备忘记录
type vectorMemoRecord struct {
	Vector       []float64 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

// NewRedisAdapter 创建Redis客户端连接
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
	if cfg.DialTimeoutSeconds > 0 {
		opt.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opt.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opt.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry追踪钩子
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("注册Redis追踪钩子失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	return &Redis{Client: client, cfg: cfg}, nil
}

// TextMD5 计算文本的MD5指纹，作为向量备忘键
func TextMD5(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// GetVectorMemo 按文本MD5取已计算的向量。
// 模型版本不匹配视为未命中，返回 ErrNotFound。
func (r *Redis) GetVectorMemo(ctx context.Context, textMD5, modelVersion string) ([]float64, error) {
	data, err := r.Client.Get(ctx, vectorMemoKeyPrefix+textMD5).Result()
	if err != nil {
		return nil, err
	}

	var record vectorMemoRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("解析向量备忘记录失败: %w", err)
	}
	if record.ModelVersion != modelVersion {
		return nil, ErrNotFound
	}
	return record.Vector, nil
}

// SetVectorMemo 写入向量备忘记录，按配置的天数过期
func (r *Redis) SetVectorMemo(ctx context.Context, textMD5 string, vector []float64, modelVersion string) error {
	record := vectorMemoRecord{Vector: vector, ModelVersion: modelVersion}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化向量备忘记录失败: %w", err)
	}

	expireDays := r.cfg.VectorMemoExpireDays
	if expireDays <= 0 {
		expireDays = 365
	}
	expiry := time.Duration(expireDays) * 24 * time.Hour

	return r.Client.Set(ctx, vectorMemoKeyPrefix+textMD5, data, expiry).Err()
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.Client.Close()
}
