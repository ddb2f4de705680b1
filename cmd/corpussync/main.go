/*
corpussync 离线生成推荐服务的语料库制品。

从MySQL读取岗位/课程源数据，批量调用Embedding服务计算向量(Redis中
有同文本同模型的备忘时跳过调用)，输出两对并行JSON文件：记录索引与
等长的向量矩阵。可选地把制品上传到MinIO，并把向量回写源数据行。
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"careernet-ml-go/internal/config"
	"careernet-ml-go/internal/embedder"
	appCoreLogger "careernet-ml-go/internal/logger"
	"careernet-ml-go/internal/storage"
	"careernet-ml-go/internal/storage/models"

	"github.com/spf13/pflag"
	"gorm.io/datatypes"
)

func main() {
	var configPath string
	var migrate, upload, writeBack bool
	var batchSize int
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，为空时在常见位置查找")
	pflag.BoolVar(&migrate, "migrate", false, "先执行建表迁移")
	pflag.BoolVar(&upload, "upload", false, "生成后把制品上传到对象存储")
	pflag.BoolVar(&writeBack, "write-back", false, "把计算出的向量回写到源数据行")
	pflag.IntVar(&batchSize, "batch-size", 16, "单次Embedding请求的文本条数")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	if batchSize <= 0 {
		batchSize = 16
	}

	storageManager, err := storage.NewStorage(cfg)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()

	if storageManager.MySQL == nil {
		appCoreLogger.Fatal().Msg("corpussync 需要MySQL数据源，请检查配置")
	}
	if migrate {
		if err := storageManager.MySQL.AutoMigrate(); err != nil {
			appCoreLogger.Fatal().Err(err).Msg("建表迁移失败")
		}
		appCoreLogger.Info().Msg("建表迁移完成")
	}

	textEmbedder, err := embedder.NewOpenAIEmbedder(cfg.Embedder)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("初始化Embedder失败")
	}

	ctx := appCoreLogger.WithContext(context.Background())
	syncer := &corpusSyncer{
		cfg:       cfg,
		storage:   storageManager,
		embedder:  textEmbedder,
		batchSize: batchSize,
		writeBack: writeBack,
	}

	if err := syncer.syncJobs(ctx); err != nil {
		appCoreLogger.Fatal().Err(err).Msg("生成岗位语料库制品失败")
	}
	if err := syncer.syncCourses(ctx); err != nil {
		appCoreLogger.Fatal().Err(err).Msg("生成课程语料库制品失败")
	}

	if upload {
		if storageManager.MinIO == nil {
			appCoreLogger.Fatal().Msg("未配置MinIO，无法上传制品")
		}
		for _, localPath := range []string{
			cfg.Corpus.JobsIndexPath,
			cfg.Corpus.JobEmbeddingsPath,
			cfg.Corpus.CoursesIndexPath,
			cfg.Corpus.CourseEmbeddingsPath,
		} {
			if _, err := os.Stat(localPath); err != nil {
				continue
			}
			objectName := filepath.Base(localPath)
			if err := storageManager.MinIO.UploadFile(ctx, objectName, localPath); err != nil {
				appCoreLogger.Fatal().Err(err).Str("object", objectName).Msg("上传制品失败")
			}
		}
		appCoreLogger.Info().Msg("制品上传完成")
	}

	appCoreLogger.Info().Msg("语料库同步完成")
}

// corpusSyncer 聚合一次同步运行所需的依赖
type corpusSyncer struct {
	cfg       *config.Config
	storage   *storage.Storage
	embedder  *embedder.OpenAIEmbedder
	batchSize int
	writeBack bool
}

// syncJobs 生成岗位索引与向量制品
func (s *corpusSyncer) syncJobs(ctx context.Context) error {
	var rows []models.JobPosting
	if err := s.storage.MySQL.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return fmt.Errorf("读取岗位源数据失败: %w", err)
	}
	if len(rows) == 0 {
		appCoreLogger.Warn().Msg("岗位源数据为空，跳过岗位制品生成")
		return nil
	}

	index := make([]map[string]interface{}, 0, len(rows))
	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		index = append(index, map[string]interface{}{
			"_id":                row.JobID,
			"Job_Role":           row.JobRole,
			"Company":            row.Company,
			"Location":           row.Location,
			"Contract_Type":      row.ContractType,
			"Job Experience":     row.ExperienceLevel,
			"salary":             row.Salary,
			"Skills/Description": row.SkillsDescription,
		})
		texts = append(texts, row.JobRole+" "+row.SkillsDescription)
	}

	vectors, err := s.embedTexts(ctx, texts)
	if err != nil {
		return err
	}

	if s.writeBack {
		s.writeBackJobVectors(ctx, rows, vectors)
	}

	appCoreLogger.Info().Int("rows", len(rows)).Msg("岗位向量计算完成")
	return writeArtifacts(s.cfg.Corpus.JobsIndexPath, index, s.cfg.Corpus.JobEmbeddingsPath, vectors)
}

// syncCourses 生成课程索引与向量制品。课程源表为空不算错误。
func (s *corpusSyncer) syncCourses(ctx context.Context) error {
	var rows []models.CourseListing
	if err := s.storage.MySQL.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return fmt.Errorf("读取课程源数据失败: %w", err)
	}
	if len(rows) == 0 {
		appCoreLogger.Warn().Msg("课程源数据为空，跳过课程制品生成")
		return nil
	}

	index := make([]map[string]interface{}, 0, len(rows))
	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		index = append(index, map[string]interface{}{
			"_id":         row.CourseID,
			"title":       row.Title,
			"provider":    row.Provider,
			"level":       row.Level,
			"description": row.Description,
			"skills":      row.Skills,
		})
		texts = append(texts, row.Title+" "+row.Description+" "+row.Skills)
	}

	vectors, err := s.embedTexts(ctx, texts)
	if err != nil {
		return err
	}

	if s.writeBack {
		s.writeBackCourseVectors(ctx, rows, vectors)
	}

	appCoreLogger.Info().Int("rows", len(rows)).Msg("课程向量计算完成")
	return writeArtifacts(s.cfg.Corpus.CoursesIndexPath, index, s.cfg.Corpus.CourseEmbeddingsPath, vectors)
}

// embedTexts 批量计算向量。Redis可用时按文本MD5做备忘：
// 同一文本在同一模型版本下只计算一次。
func (s *corpusSyncer) embedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	modelVersion := s.cfg.Embedder.Model
	vectors := make([][]float64, len(texts))

	// 先查备忘，收集未命中的下标
	var pending []int
	for i, text := range texts {
		if s.storage.Redis != nil {
			vec, err := s.storage.Redis.GetVectorMemo(ctx, storage.TextMD5(text), modelVersion)
			if err == nil {
				vectors[i] = vec
				continue
			}
			if !errors.Is(err, storage.ErrNotFound) {
				appCoreLogger.Warn().Err(err).Msg("读取向量备忘失败，回退到Embedding调用")
			}
		}
		pending = append(pending, i)
	}
	appCoreLogger.Info().
		Int("total", len(texts)).
		Int("memo_hits", len(texts)-len(pending)).
		Msg("向量备忘查询完成")

	// 未命中的文本分批向量化
	for start := 0; start < len(pending); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batchIdx := pending[start:end]

		batchTexts := make([]string, len(batchIdx))
		for j, idx := range batchIdx {
			batchTexts[j] = texts[idx]
		}

		batchVectors, err := s.embedder.EmbedStrings(ctx, batchTexts)
		if err != nil {
			return nil, fmt.Errorf("批量向量化失败(起始下标%d): %w", batchIdx[0], err)
		}

		for j, idx := range batchIdx {
			vectors[idx] = batchVectors[j]
			if s.storage.Redis != nil {
				if err := s.storage.Redis.SetVectorMemo(ctx, storage.TextMD5(texts[idx]), batchVectors[j], modelVersion); err != nil {
					appCoreLogger.Warn().Err(err).Msg("写入向量备忘失败")
				}
			}
		}
	}

	return vectors, nil
}

// writeBackJobVectors 把向量回写到岗位源数据行，失败只记录日志
func (s *corpusSyncer) writeBackJobVectors(ctx context.Context, rows []models.JobPosting, vectors [][]float64) {
	db := s.storage.MySQL.DB().WithContext(ctx)
	for i, row := range rows {
		data, err := json.Marshal(vectors[i])
		if err != nil {
			appCoreLogger.Warn().Err(err).Str("job_id", row.JobID).Msg("序列化向量失败")
			continue
		}
		err = db.Model(&models.JobPosting{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
			"embedding":       datatypes.JSON(data),
			"embedding_model": s.cfg.Embedder.Model,
		}).Error
		if err != nil {
			appCoreLogger.Warn().Err(err).Str("job_id", row.JobID).Msg("回写岗位向量失败")
		}
	}
}

// writeBackCourseVectors 把向量回写到课程源数据行，失败只记录日志
func (s *corpusSyncer) writeBackCourseVectors(ctx context.Context, rows []models.CourseListing, vectors [][]float64) {
	db := s.storage.MySQL.DB().WithContext(ctx)
	for i, row := range rows {
		data, err := json.Marshal(vectors[i])
		if err != nil {
			appCoreLogger.Warn().Err(err).Str("course_id", row.CourseID).Msg("序列化向量失败")
			continue
		}
		err = db.Model(&models.CourseListing{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
			"embedding":       datatypes.JSON(data),
			"embedding_model": s.cfg.Embedder.Model,
		}).Error
		if err != nil {
			appCoreLogger.Warn().Err(err).Str("course_id", row.CourseID).Msg("回写课程向量失败")
		}
	}
}

// writeArtifacts 原子地写出一对并行制品：索引与向量矩阵
func writeArtifacts(indexPath string, index []map[string]interface{}, embeddingsPath string, vectors [][]float64) error {
	if err := writeJSONFile(indexPath, index); err != nil {
		return fmt.Errorf("写出索引制品失败: %w", err)
	}
	if err := writeJSONFile(embeddingsPath, vectors); err != nil {
		return fmt.Errorf("写出向量制品失败: %w", err)
	}
	appCoreLogger.Info().Str("index", indexPath).Str("embeddings", embeddingsPath).Msg("制品写出完成")
	return nil
}

// writeJSONFile 先写临时文件再改名，避免半成品制品被服务端加载
func writeJSONFile(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
