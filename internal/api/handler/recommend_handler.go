package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"

	"careernet-ml-go/internal/config"
	"careernet-ml-go/internal/recommender"
	"careernet-ml-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
)

// RecommendHandler 负责处理岗位与课程推荐请求。
// 所有业务逻辑都在 recommender.Service 中，这里只做参数解析与错误映射。
type RecommendHandler struct {
	cfg    *config.Config
	svc    *recommender.Service
	logger *log.Logger
}

// NewRecommendHandler 创建一个新的 RecommendHandler 实例
func NewRecommendHandler(cfg *config.Config, svc *recommender.Service) *RecommendHandler {
	return &RecommendHandler{
		cfg:    cfg,
		svc:    svc,
		logger: log.New(os.Stdout, "[RecommendHandler] ", log.LstdFlags|log.Lshortfile),
	}
}

// filteredRecommendRequest 带筛选条件的推荐请求体
type filteredRecommendRequest struct {
	UserCV  types.Profile     `json:"user_cv"`
	Filters *types.FilterSpec `json:"filters,omitempty"`
}

// HandleRecommendJobs 处理岗位推荐请求
// POST /api/recommend?top_n=5
func (h *RecommendHandler) HandleRecommendJobs(ctx context.Context, c *app.RequestContext) {
	requestID := uuid.NewString()
	topN := queryInt(c, "top_n", recommender.DefaultTopN, 1, 50)

	var profile types.Profile
	if err := json.Unmarshal(c.Request.Body(), &profile); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "请求体不是合法的档案JSON"})
		return
	}

	resp, err := h.svc.RecommendJobs(ctx, profile, topN, nil)
	if err != nil {
		h.writeRecommendError(c, requestID, err)
		return
	}
	c.JSON(consts.StatusOK, resp)
}

// HandleRecommendJobsFiltered 处理带结构化筛选的岗位推荐请求
// POST /api/recommend-filtered?top_n=5
func (h *RecommendHandler) HandleRecommendJobsFiltered(ctx context.Context, c *app.RequestContext) {
	requestID := uuid.NewString()
	topN := queryInt(c, "top_n", recommender.DefaultTopN, 1, 50)

	var req filteredRecommendRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "请求体不是合法的推荐请求JSON"})
		return
	}

	resp, err := h.svc.RecommendJobs(ctx, req.UserCV, topN, req.Filters)
	if err != nil {
		h.writeRecommendError(c, requestID, err)
		return
	}
	c.JSON(consts.StatusOK, resp)
}

// HandleRecommendBatch 处理批量推荐请求，单个档案失败不影响其余结果
// POST /api/recommend-batch?top_n=5
func (h *RecommendHandler) HandleRecommendBatch(ctx context.Context, c *app.RequestContext) {
	topN := queryInt(c, "top_n", recommender.DefaultTopN, 1, 50)

	var profiles []types.Profile
	if err := json.Unmarshal(c.Request.Body(), &profiles); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "请求体不是合法的档案列表JSON"})
		return
	}

	results := make([]interface{}, 0, len(profiles))
	for _, profile := range profiles {
		resp, err := h.svc.RecommendJobs(ctx, profile, topN, nil)
		if err != nil {
			results = append(results, map[string]string{"error": err.Error()})
			continue
		}
		results = append(results, resp)
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"results": results})
}

// HandleRecommendCertifications 处理课程/认证推荐请求
// POST /api/recommend-certifications?target_job_role=&top_n=5
func (h *RecommendHandler) HandleRecommendCertifications(ctx context.Context, c *app.RequestContext) {
	requestID := uuid.NewString()
	topN := queryInt(c, "top_n", recommender.DefaultTopN, 1, 20)
	targetRole := c.Query("target_job_role")

	var profile types.Profile
	if err := json.Unmarshal(c.Request.Body(), &profile); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "请求体不是合法的档案JSON"})
		return
	}

	resp, err := h.svc.RecommendCertifications(ctx, profile, targetRole, topN)
	if err != nil {
		h.writeRecommendError(c, requestID, err)
		return
	}
	c.JSON(consts.StatusOK, resp)
}

// HandleCacheStats 返回缓存统计
// GET /api/cache/stats
func (h *RecommendHandler) HandleCacheStats(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, h.svc.CacheStats())
}

// HandleCacheClear 清空推荐缓存
// DELETE /api/cache/clear
func (h *RecommendHandler) HandleCacheClear(ctx context.Context, c *app.RequestContext) {
	cleared := h.svc.CacheClear()
	c.JSON(consts.StatusOK, map[string]interface{}{
		"message":       "Cache cleared successfully",
		"items_cleared": cleared,
	})
}

// HandleHealth 健康检查，报告模型与语料库就绪状态
// GET /api/health
func (h *RecommendHandler) HandleHealth(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"model_loaded":  h.svc.JobsReady(),
		"jobs_count":    h.svc.JobCount(),
		"courses_count": h.svc.CourseCount(),
	})
}

// HandleRoot 根路径状态
// GET /
func (h *RecommendHandler) HandleRoot(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]interface{}{
		"status":       "ok",
		"message":      "CareerNetwork ML Service is running",
		"model_loaded": h.svc.JobsReady(),
		"jobs_count":   h.svc.JobCount(),
	})
}

// writeRecommendError 将服务层错误映射为HTTP状态码。
// NotReady 是可稍后重试的独立失败类别(503)，内部故障统一返回500。
func (h *RecommendHandler) writeRecommendError(c *app.RequestContext, requestID string, err error) {
	if errors.Is(err, recommender.ErrNotReady) {
		h.logger.Printf("请求 %s 被拒绝: 服务未就绪", requestID)
		c.JSON(consts.StatusServiceUnavailable, map[string]string{
			"error": "Model or corpus data not loaded. Please run the corpus sync first.",
		})
		return
	}

	var stageErr *recommender.StageError
	if errors.As(err, &stageErr) {
		h.logger.Printf("请求 %s 在 %s 阶段失败: %v", requestID, stageErr.Stage, err)
	} else {
		h.logger.Printf("请求 %s 失败: %v", requestID, err)
	}
	c.JSON(consts.StatusInternalServerError, map[string]string{
		"error": "Error generating recommendations: " + err.Error(),
	})
}

// queryInt 解析整型查询参数并限制在[min,max]区间
func queryInt(c *app.RequestContext, key string, defaultValue, min, max int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
