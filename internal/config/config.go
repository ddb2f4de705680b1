package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`

	// Embedding服务配置
	Embedder EmbedderConfig `yaml:"embedder"`

	// 语料库配置(岗位与课程的索引及向量文件)
	Corpus CorpusConfig `yaml:"corpus"`

	// 推荐结果缓存配置
	Cache CacheConfig `yaml:"cache"`

	// 技能关键词表，可在配置中整体替换
	SkillVocabulary []string `yaml:"skill_vocabulary"`

	// MinIO配置(语料库制品的对象存储)
	MinIO MinIOConfig `yaml:"minio"`

	// MySQL配置(corpussync命令的数据源)
	MySQL MySQLConfig `yaml:"mysql"`

	// Redis配置(corpussync命令的向量备忘)
	Redis RedisConfig `yaml:"redis"`

	// 链路追踪配置
	Tracing TracingConfig `yaml:"tracing"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8000"
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// EmbedderConfig 文本向量化服务配置(OpenAI兼容接口)
type EmbedderConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Timeout    string `yaml:"timeout"` // 单次请求超时，例如 "30s"
}

// CorpusConfig 语料库文件路径及对象存储键
type CorpusConfig struct {
	JobsIndexPath        string `yaml:"jobs_index_path"`
	JobEmbeddingsPath    string `yaml:"job_embeddings_path"`
	CoursesIndexPath     string `yaml:"courses_index_path"`
	CourseEmbeddingsPath string `yaml:"course_embeddings_path"`
	// 若配置了MinIO，启动时先从该存储桶拉取上述文件
	SyncFromObjectStore bool `yaml:"sync_from_object_store"`
}

// CacheConfig 推荐结果缓存配置
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"` // 条目存活时间(秒)
	MaxEntries int `yaml:"max_entries"` // 最大条目数，超出时淘汰最旧条目
}

// MinIOConfig MinIO配置结构
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	BucketName      string `yaml:"bucketName"` // 语料库制品存储桶
	Location        string `yaml:"location"`   // 可选，存储桶区域
}

// MySQLConfig MySQL配置结构
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// 连接池设置
	MaxIdleConns int `yaml:"max_idle_conns"`
	MaxOpenConns int `yaml:"max_open_conns"`
	// 连接生命周期
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
	// 超时设置
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
	// 日志设置
	LogLevel int `yaml:"log_level"` // GORM日志级别(1-4)
}

// RedisConfig Redis配置结构
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	// 向量备忘记录过期时间(天)
	VectorMemoExpireDays int `yaml:"vector_memo_expire_days"`
}

// TracingConfig 链路追踪配置
type TracingConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlp_endpoint"` // OTLP gRPC collector 地址
	ServiceName  string `yaml:"service_name"`
}

// LoadConfig 从文件加载配置，路径为空时在常见位置查找
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".careernet-ml", "config.yaml"),
		}

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
			searchPaths = append(searchPaths, filepath.Join(execDir, "..", "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 找不到配置文件时，测试环境下返回默认配置
		if configPath == "" {
			if inTestEnv() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖敏感配置
	if envKey := os.Getenv("EMBEDDER_API_KEY"); envKey != "" {
		config.Embedder.APIKey = envKey
	}
	if envURL := os.Getenv("EMBEDDER_BASE_URL"); envURL != "" {
		config.Embedder.BaseURL = envURL
	}

	applyDefaults(&config)
	return &config, nil
}

// inTestEnv 通过进程参数判断是否运行在 go test 环境
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 填充缺省值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8000"
	}
	if config.Embedder.Model == "" {
		config.Embedder.Model = "text-embedding-v3"
	}
	if config.Embedder.Dimensions == 0 {
		config.Embedder.Dimensions = 1024
	}
	if config.Embedder.BaseURL == "" {
		config.Embedder.BaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings"
	}
	if config.Embedder.Timeout == "" {
		config.Embedder.Timeout = "30s"
	}
	if config.Corpus.JobsIndexPath == "" {
		config.Corpus.JobsIndexPath = "data/jobs_index.json"
	}
	if config.Corpus.JobEmbeddingsPath == "" {
		config.Corpus.JobEmbeddingsPath = "data/job_embeddings.json"
	}
	if config.Corpus.CoursesIndexPath == "" {
		config.Corpus.CoursesIndexPath = "data/courses_index.json"
	}
	if config.Corpus.CourseEmbeddingsPath == "" {
		config.Corpus.CourseEmbeddingsPath = "data/course_embeddings.json"
	}
	if config.Cache.TTLSeconds == 0 {
		config.Cache.TTLSeconds = 3600 // 默认1小时
	}
	if config.Cache.MaxEntries == 0 {
		config.Cache.MaxEntries = 1000
	}
	if len(config.SkillVocabulary) == 0 {
		config.SkillVocabulary = DefaultSkillVocabulary()
	}
	if config.Tracing.ServiceName == "" {
		config.Tracing.ServiceName = "careernet-ml-go"
	}
}

// DefaultSkillVocabulary 返回内置的技能关键词表。
// 配置文件中的 skill_vocabulary 可整体替换该列表，测试中也可替换为最小词表。
func DefaultSkillVocabulary() []string {
	return []string{
		"python", "java", "javascript", "react", "node", "sql", "mongodb",
		"docker", "kubernetes", "aws", "azure", "gcp", "machine learning",
		"data science", "ai", "deep learning", "tensorflow", "pytorch",
		"git", "linux", "agile", "scrum", "api", "rest", "graphql",
	}
}

// 创建一个默认配置，用于测试环境
func createDefaultConfig() *Config {
	config := &Config{}

	config.Server.Address = ":8000"

	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	if envKey := os.Getenv("EMBEDDER_API_KEY"); envKey != "" {
		config.Embedder.APIKey = envKey
	} else {
		config.Embedder.APIKey = "test_api_key"
	}

	config.MinIO.Endpoint = "localhost:9000"
	config.MinIO.AccessKeyID = "minioadmin"
	config.MinIO.SecretAccessKey = "minioadmin123"
	config.MinIO.UseSSL = false
	config.MinIO.BucketName = "corpus-artifacts"

	config.MySQL.Host = "localhost"
	config.MySQL.Port = 3306
	config.MySQL.Username = "root"
	config.MySQL.Password = "password"
	config.MySQL.Database = "careernet"
	config.MySQL.MaxIdleConns = 10
	config.MySQL.MaxOpenConns = 100
	config.MySQL.ConnMaxLifetimeMinutes = 60
	config.MySQL.ConnectTimeoutSeconds = 10
	config.MySQL.LogLevel = 4

	config.Redis.Address = "localhost:6379"
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.DialTimeoutSeconds = 5
	config.Redis.ReadTimeoutSeconds = 3
	config.Redis.WriteTimeoutSeconds = 3
	config.Redis.VectorMemoExpireDays = 365

	applyDefaults(config)
	return config
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	config := createDefaultConfig()
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}
	return nil
}

// GetDuration utility to parse duration strings from config
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
