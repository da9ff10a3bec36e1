package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pruner 按保留期删除过期记录（*pg.FrameJournal.Prune、*gormrepo.Repository.PruneCommands）
type Pruner func(ctx context.Context, before time.Time) (int64, error)

// RetentionCleaner 定期清理帧流水与请求审计
type RetentionCleaner struct {
	targets   map[string]Pruner
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	// 统计
	statsCleaned int64
}

// NewRetentionCleaner 创建清理器，retention 或 interval 非正数时使用默认值
func NewRetentionCleaner(retention, interval time.Duration, logger *zap.Logger) *RetentionCleaner {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionCleaner{
		targets:   make(map[string]Pruner),
		retention: retention,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Add 登记清理目标
func (c *RetentionCleaner) Add(name string, p Pruner) {
	if p != nil {
		c.targets[name] = p
	}
}

// Len 已登记目标数
func (c *RetentionCleaner) Len() int { return len(c.targets) }

// Start 启动清理循环，阻塞直至 ctx 结束
func (c *RetentionCleaner) Start(ctx context.Context) {
	c.logger.Info("retention cleaner started",
		zap.Duration("retention", c.retention),
		zap.Duration("check_interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("retention cleaner stopped",
				zap.Int64("total_cleaned", c.statsCleaned))
			return
		case <-ticker.C:
			c.Clean(ctx)
		}
	}
}

// Clean 执行一轮清理，返回本轮删除的行数
func (c *RetentionCleaner) Clean(ctx context.Context) int64 {
	cutoff := c.now().Add(-c.retention)
	var total int64
	for name, p := range c.targets {
		n, err := p(ctx, cutoff)
		if err != nil {
			c.logger.Error("retention prune failed", zap.String("target", name), zap.Error(err))
			continue
		}
		if n > 0 {
			c.logger.Info("retention pruned",
				zap.String("target", name),
				zap.Int64("rows", n),
				zap.Time("before", cutoff))
		}
		total += n
	}
	c.statsCleaned += total
	return total
}

// Stats 获取统计信息
func (c *RetentionCleaner) Stats() map[string]interface{} {
	return map[string]interface{}{
		"total_cleaned": c.statsCleaned,
		"targets":       len(c.targets),
	}
}
