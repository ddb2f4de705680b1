package router

import (
	"careernet-ml-go/internal/api/handler"
	"careernet-ml-go/internal/config"
	"careernet-ml-go/internal/recommender"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// RegisterRoutes 注册所有API路由
func RegisterRoutes(h *server.Hertz, cfg *config.Config, svc *recommender.Service) {
	recommendHandler := handler.NewRecommendHandler(cfg, svc)

	h.GET("/", recommendHandler.HandleRoot)

	api := h.Group("/api")
	{
		api.GET("/health", recommendHandler.HandleHealth)

		api.POST("/recommend", recommendHandler.HandleRecommendJobs)
		api.POST("/recommend-filtered", recommendHandler.HandleRecommendJobsFiltered)
		api.POST("/recommend-batch", recommendHandler.HandleRecommendBatch)
		api.POST("/recommend-certifications", recommendHandler.HandleRecommendCertifications)

		cache := api.Group("/cache")
		{
			cache.GET("/stats", recommendHandler.HandleCacheStats)
			cache.DELETE("/clear", recommendHandler.HandleCacheClear)
		}
	}
}
