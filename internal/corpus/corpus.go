/*
语料库加载。岗位/课程记录与预计算向量以并行的两个JSON制品提供：
records[i] 对应 embeddings[i]，数量不一致视为加载期致命错误。
制品由 corpussync 命令离线生成，可先从对象存储拉取到本地。
*/

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"careernet-ml-go/internal/logger"
)

// ArtifactFetcher 语料库制品的只读拉取接口，由对象存储层实现
type ArtifactFetcher interface {
	// FetchToFile 将对象下载到本地路径
	FetchToFile(ctx context.Context, objectName string, localPath string) error
}

// Corpus 一份固定的候选集合及其预计算向量，进程生命周期内加载一次
type Corpus struct {
	Records    []Candidate
	Embeddings [][]float64
	Dim        int
}

// Len 返回候选记录数
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// Ready 语料库是否可用于排序
func (c *Corpus) Ready() bool {
	return c.Len() > 0
}

// Load 从本地JSON制品加载语料库。
// indexPath 为原始记录数组，embeddingsPath 为等长的向量矩阵，
// adapt 为字段映射适配器(AdaptJobRecord / AdaptCourseRecord)。
func Load(indexPath, embeddingsPath string, adapt func(map[string]interface{}) Candidate) (*Corpus, error) {
	indexData, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("读取语料库索引 %s 失败: %w", indexPath, err)
	}

	var rawRecords []map[string]interface{}
	if err := json.Unmarshal(indexData, &rawRecords); err != nil {
		return nil, fmt.Errorf("解析语料库索引 %s 失败: %w", indexPath, err)
	}

	embData, err := os.ReadFile(embeddingsPath)
	if err != nil {
		return nil, fmt.Errorf("读取向量文件 %s 失败: %w", embeddingsPath, err)
	}

	var embeddings [][]float64
	if err := json.Unmarshal(embData, &embeddings); err != nil {
		return nil, fmt.Errorf("解析向量文件 %s 失败: %w", embeddingsPath, err)
	}

	// 记录与向量必须一一对应
	if len(rawRecords) != len(embeddings) {
		return nil, fmt.Errorf("语料库记录数(%d)与向量行数(%d)不一致", len(rawRecords), len(embeddings))
	}

	dim := 0
	if len(embeddings) > 0 {
		dim = len(embeddings[0])
	}
	for i, row := range embeddings {
		if len(row) != dim {
			return nil, fmt.Errorf("向量维度不一致: 第%d行为%d维，期望%d维", i, len(row), dim)
		}
	}

	records := make([]Candidate, 0, len(rawRecords))
	for _, raw := range rawRecords {
		records = append(records, adapt(raw))
	}

	logger.Info().
		Int("records", len(records)).
		Int("dim", dim).
		Str("index", indexPath).
		Str("adapter", AdapterVersion).
		Msg("语料库加载完成")

	return &Corpus{Records: records, Embeddings: embeddings, Dim: dim}, nil
}

// LoadOptional 与 Load 相同，但制品文件不存在时返回 nil 而非错误。
// 课程语料库允许缺席：此时认证推荐返回 NotReady，岗位推荐不受影响。
func LoadOptional(indexPath, embeddingsPath string, adapt func(map[string]interface{}) Candidate) (*Corpus, error) {
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		logger.Warn().Str("index", indexPath).Msg("语料库制品不存在，跳过加载")
		return nil, nil
	}
	if _, err := os.Stat(embeddingsPath); os.IsNotExist(err) {
		logger.Warn().Str("embeddings", embeddingsPath).Msg("向量制品不存在，跳过加载")
		return nil, nil
	}
	return Load(indexPath, embeddingsPath, adapt)
}

// FetchArtifacts 启动时先从对象存储把语料库制品同步到本地。
// 单个制品拉取失败只记录日志，由后续的本地加载决定语料库是否可用。
func FetchArtifacts(ctx context.Context, fetcher ArtifactFetcher, paths map[string]string) {
	for objectName, localPath := range paths {
		if err := fetcher.FetchToFile(ctx, objectName, localPath); err != nil {
			logger.Warn().Err(err).Str("object", objectName).Msg("从对象存储拉取语料库制品失败")
			continue
		}
		logger.Info().Str("object", objectName).Str("local", localPath).Msg("语料库制品拉取成功")
	}
}
