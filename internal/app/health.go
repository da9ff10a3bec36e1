package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/locker-gateway/internal/health"
)

// NewHealthAggregator 创建健康检查聚合器：串口链路 + 控制板上报
func NewHealthAggregator(link health.SerialLink, board health.BoardState, window time.Duration) *health.Aggregator {
	return health.NewAggregator(
		health.NewSerialChecker(link),
		health.NewBoardChecker(board, window),
	)
}

// RegisterHealthRoutes 注册健康检查HTTP路由
func RegisterHealthRoutes(r *gin.Engine, aggregator *health.Aggregator) {
	health.RegisterHTTPRoutes(r, aggregator)
}

// AddDatabaseChecker 添加数据库检查器到聚合器
func AddDatabaseChecker(aggregator *health.Aggregator, pool *pgxpool.Pool) {
	if pool != nil {
		aggregator.AddChecker(health.NewDatabaseChecker(pool))
	}
}
