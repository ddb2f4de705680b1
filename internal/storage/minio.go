package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"careernet-ml-go/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArtifactStore 语料库制品的对象存储接口
type ArtifactStore interface {
	// FetchToFile 将对象下载到本地路径
	FetchToFile(ctx context.Context, objectName string, localPath string) error

	// UploadFile 将本地文件上传为对象
	UploadFile(ctx context.Context, objectName string, localPath string) error
}

// 确保MinIO实现了ArtifactStore接口
var _ ArtifactStore = (*MinIO)(nil)

// MinIO 提供语料库制品的对象存储功能
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
	logger *log.Logger
}

// NewMinIO 创建MinIO客户端并确保制品存储桶存在
func NewMinIO(cfg *config.MinIOConfig, logger *log.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	bucket := cfg.BucketName
	if bucket == "" {
		bucket = "corpus-artifacts"
	}

	m := &MinIO{
		client: client,
		cfg:    cfg,
		bucket: bucket,
		logger: logger,
	}

	if err := m.ensureBucketExists(bucket, cfg.Location); err != nil {
		return nil, fmt.Errorf("确保制品存储桶 %s 存在失败: %w", bucket, err)
	}

	logger.Printf("[MinIO] Client initialized for endpoint: %s, bucket: %s", cfg.Endpoint, bucket)
	return m, nil
}

// ensureBucketExists 检查存储桶，不存在则创建
func (m *MinIO) ensureBucketExists(bucket, location string) error {
	ctx := context.Background()
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("创建存储桶失败: %w", err)
		}
		m.logger.Printf("[MinIO] Bucket %s created", bucket)
	}
	return nil
}

// FetchToFile 将制品对象下载到本地路径，必要时创建父目录
func (m *MinIO) FetchToFile(ctx context.Context, objectName string, localPath string) error {
	if dir := filepath.Dir(localPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	if err := m.client.FGetObject(ctx, m.bucket, objectName, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("下载对象 %s 失败: %w", objectName, err)
	}
	return nil
}

// UploadFile 将本地制品文件上传到存储桶
func (m *MinIO) UploadFile(ctx context.Context, objectName string, localPath string) error {
	_, err := m.client.FPutObject(ctx, m.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("上传对象 %s 失败: %w", objectName, err)
	}
	m.logger.Printf("[MinIO] Uploaded %s to bucket %s", objectName, m.bucket)
	return nil
}
