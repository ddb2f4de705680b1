package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// 测试环境下找不到配置文件时回退到默认配置
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, "text-embedding-v3", cfg.Embedder.Model)
	assert.Equal(t, 1024, cfg.Embedder.Dimensions)
	assert.Equal(t, "data/jobs_index.json", cfg.Corpus.JobsIndexPath)
	assert.NotEmpty(t, cfg.SkillVocabulary)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
embedder:
  api_key: "file_key"
  model: "custom-model"
cache:
  ttl_seconds: 120
  max_entries: 50
skill_vocabulary:
  - golang
  - rust
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "custom-model", cfg.Embedder.Model)
	assert.Equal(t, 120, cfg.Cache.TTLSeconds)
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
	// 配置中的词表整体替换内置词表
	assert.Equal(t, []string{"golang", "rust"}, cfg.SkillVocabulary)
	// 未配置的字段仍取默认值
	assert.Equal(t, 1024, cfg.Embedder.Dimensions)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("embedder:\n  api_key: \"file_key\"\n"), 0644))

	t.Setenv("EMBEDDER_API_KEY", "env_key")
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "env_key", cfg.Embedder.APIKey, "环境变量应覆盖文件中的密钥")
}

func TestDefaultSkillVocabulary(t *testing.T) {
	vocab := DefaultSkillVocabulary()
	assert.NotEmpty(t, vocab)
	assert.Contains(t, vocab, "python")
	assert.Contains(t, vocab, "machine learning")
	assert.Contains(t, vocab, "graphql")
}

func TestCreateSampleConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")

	require.NoError(t, CreateSampleConfig(path))

	// 生成的示例配置可以被重新加载
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Address)

	// 已存在的文件不会被覆盖
	assert.Error(t, CreateSampleConfig(path))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, GetDuration("30s", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("invalid", time.Minute))
}
