package app

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/events"
	pgstorage "github.com/taoyao-code/locker-gateway/internal/storage/pg"
	redisstorage "github.com/taoyao-code/locker-gateway/internal/storage/redis"
)

// EventSinks 已启用的事件投递目标
type EventSinks struct {
	Publishers []events.Publisher
	Stream     *redisstorage.StreamPublisher // Redis 未启用时为 nil
	Journal    *pgstorage.FrameJournal       // 数据库未启用时为 nil
}

// NewEventSinks 按配置组装 webhook / Redis Stream / 帧流水
func NewEventSinks(cfg *cfgpkg.Config, rdb *redisstorage.Client, pool *pgxpool.Pool, log *zap.Logger) EventSinks {
	var out EventSinks
	wh := cfg.Events.Webhook
	if wh.Enabled {
		w := events.NewWebhook(&http.Client{Timeout: wh.Timeout}, wh.URL, wh.APIKey, wh.Secret)
		if wh.Retries >= 0 {
			w.Retries = wh.Retries
		}
		out.Publishers = append(out.Publishers, w)
		log.Info("event webhook enabled", zap.String("url", wh.URL), zap.Int("retries", w.Retries))
	}
	if rdb != nil {
		out.Stream = redisstorage.NewStreamPublisher(rdb.Client, cfg.Redis.Stream, cfg.Redis.MaxLen)
		out.Publishers = append(out.Publishers, out.Stream)
		log.Info("event stream enabled", zap.String("stream", out.Stream.Stream()))
	}
	if pool != nil {
		out.Journal = pgstorage.NewFrameJournal(pool)
		out.Publishers = append(out.Publishers, out.Journal)
		log.Info("frame journal enabled")
	}
	return out
}

// NewEventQueue 创建异步投递队列；没有任何目标时返回 nil
func NewEventQueue(cfg cfgpkg.EventsConfig, sinks EventSinks, obs events.Observer, log *zap.Logger) *events.Queue {
	if len(sinks.Publishers) == 0 {
		log.Info("no event sinks configured, events disabled")
		return nil
	}
	fanout := events.NewFanout(log.Named("events"), obs, sinks.Publishers...)
	return events.NewQueue(fanout, cfg.QueueSize, log.Named("events"))
}
