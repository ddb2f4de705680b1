package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"careernet-ml-go/internal/api/router"
	"careernet-ml-go/internal/config"
	"careernet-ml-go/internal/corpus"
	"careernet-ml-go/internal/embedder"
	appCoreLogger "careernet-ml-go/internal/logger"
	"careernet-ml-go/internal/recommender"
	"careernet-ml-go/internal/storage"
	"careernet-ml-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

var (
	version     = "1.0.0"           //nolint:gochecknoglobals
	serviceName = "careernet-ml-go" //nolint:gochecknoglobals
)

func main() {
	var configPath string
	var createConfig bool
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，为空时在常见位置查找")
	pflag.BoolVar(&createConfig, "create-config", false, "生成示例配置文件后退出")
	pflag.Parse()

	if createConfig {
		target := configPath
		if target == "" {
			target = "config.yaml"
		}
		if err := config.CreateSampleConfig(target); err != nil {
			glog.Fatalf("生成示例配置失败: %v", err)
		}
		glog.Infof("示例配置已写入 %s", target)
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Infof("%s v%s 配置加载成功", serviceName, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 链路追踪(可选)
	shutdownTracing, err := tracing.InitTracerProvider(ctx, cfg.Tracing)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}
	defer func() {
		flushCtx, cancelFlush := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelFlush()
		if err := shutdownTracing(flushCtx); err != nil {
			glog.Warnf("关闭链路追踪失败: %v", err)
		}
	}()

	storageManager, err := storage.NewStorage(cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	// 配置了对象存储同步时，启动前先拉取语料库制品
	if cfg.Corpus.SyncFromObjectStore && storageManager.MinIO != nil {
		corpus.FetchArtifacts(ctx, storageManager.MinIO, map[string]string{
			filepath.Base(cfg.Corpus.JobsIndexPath):        cfg.Corpus.JobsIndexPath,
			filepath.Base(cfg.Corpus.JobEmbeddingsPath):    cfg.Corpus.JobEmbeddingsPath,
			filepath.Base(cfg.Corpus.CoursesIndexPath):     cfg.Corpus.CoursesIndexPath,
			filepath.Base(cfg.Corpus.CourseEmbeddingsPath): cfg.Corpus.CourseEmbeddingsPath,
		})
	}

	// 岗位语料库缺席时服务照常启动，推荐接口返回503直到制品就位
	jobs, err := corpus.LoadOptional(cfg.Corpus.JobsIndexPath, cfg.Corpus.JobEmbeddingsPath, corpus.AdaptJobRecord)
	if err != nil {
		glog.Fatalf("加载岗位语料库失败: %v", err)
	}
	courses, err := corpus.LoadOptional(cfg.Corpus.CoursesIndexPath, cfg.Corpus.CourseEmbeddingsPath, corpus.AdaptCourseRecord)
	if err != nil {
		glog.Fatalf("加载课程语料库失败: %v", err)
	}
	glog.Infof("语料库加载完成: 岗位 %d 条, 课程 %d 条", jobs.Len(), courses.Len())

	textEmbedder, err := embedder.NewOpenAIEmbedder(cfg.Embedder)
	if err != nil {
		glog.Fatalf("初始化Embedder失败: %v", err)
	}
	glog.Infof("Embedder初始化成功, 模型: %s", cfg.Embedder.Model)

	cache := recommender.NewResponseCache(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Cache.MaxEntries,
	)
	svc := recommender.NewService(textEmbedder, jobs, courses, cfg.SkillVocabulary, cache)
	glog.Info("推荐服务初始化成功")

	serverOpts := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	}
	var tracerCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		tracer, tCfg := hertztracing.NewServerTracer()
		tracerCfg = tCfg
		serverOpts = append(serverOpts, tracer)
	}

	h := server.New(serverOpts...)
	if tracerCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	}

	router.RegisterRoutes(h, cfg, svc)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化zerolog全局日志并接入Hertz的hlog
func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
	if cfg.Logger.Level == "debug" {
		glog.SetLevel(glog.LevelDebug)
	} else {
		glog.SetLevel(glog.LevelInfo)
	}
}
