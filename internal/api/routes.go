package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/locker-gateway/internal/api/middleware"
)

// RegisterRoutes 注册门控板接口
func RegisterRoutes(r *gin.Engine, h *Handler, authCfg middleware.AuthConfig, rl middleware.RateLimitConfig, logger *zap.Logger) {
	if r == nil || h == nil {
		return
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RequestTracing(), middleware.AccessLog(logger))
	if authCfg.Enabled {
		v1.Use(middleware.APIKeyAuth(authCfg, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(authCfg.APIKeys)))
	} else {
		logger.Warn("api authentication disabled - only for development!")
	}
	v1.Use(middleware.RateLimit(rl))

	// 控制
	v1.POST("/locks/:no/open", h.OpenDoor)
	v1.GET("/temperature", h.GetTemperature)
	v1.PUT("/temperature", h.SetTemperature)
	v1.POST("/light", h.SetLight)
	v1.POST("/signal", h.SetSignal)
	v1.PUT("/prices", h.SetPrices)

	// 查询
	v1.GET("/status", h.GetStatus)
	v1.GET("/commands", h.ListCommands)
	v1.GET("/frames", h.ListFrames)
	v1.GET("/events", h.ListEvents)
	v1.GET("/ports", h.ListPorts)

	logger.Info("door api routes registered", zap.Int("endpoints", 11))
}
