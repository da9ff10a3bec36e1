package app

import (
	"net/http"

	cfgpkg "github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/httpserver"
)

// NewHTTPServer 根据配置创建 HTTP 服务器
func NewHTTPServer(cfg *cfgpkg.Config, metricsHandler http.Handler, readyFn func() bool) *httpserver.Server {
	opts := httpserver.Options{
		ReadyFn: readyFn,
		Swagger: cfg.API.Swagger,
	}
	if cfg.Metrics.Enable {
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = metricsHandler
	}
	return httpserver.New(cfg.HTTP, opts)
}
