package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Publisher 事件投递目标
type Publisher interface {
	Name() string
	Publish(ctx context.Context, ev *Event) error
}

// Observer 投递结果指标钩子
type Observer interface {
	ObservePublish(sink string, err error)
}

// Fanout 依次投递到所有目标，单个失败不影响其他目标
type Fanout struct {
	sinks []Publisher
	log   *zap.Logger
	obs   Observer
}

func NewFanout(logger *zap.Logger, obs Observer, sinks ...Publisher) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{sinks: sinks, log: logger, obs: obs}
}

func (f *Fanout) Name() string { return "fanout" }

// Len 目标数量
func (f *Fanout) Len() int { return len(f.sinks) }

func (f *Fanout) Publish(ctx context.Context, ev *Event) error {
	var errs []error
	for _, s := range f.sinks {
		err := s.Publish(ctx, ev)
		if f.obs != nil {
			f.obs.ObservePublish(s.Name(), err)
		}
		if err != nil {
			f.log.Warn("publish event failed",
				zap.String("sink", s.Name()),
				zap.String("event_id", ev.ID),
				zap.String("event_type", string(ev.Type)),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Queue 异步事件队列（不阻塞读循环），队列满时丢弃
type Queue struct {
	pub     Publisher
	log     *zap.Logger
	ch      chan *Event
	dropped atomic.Int64
	wg      sync.WaitGroup
}

func NewQueue(pub Publisher, size int, logger *zap.Logger) *Queue {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{pub: pub, log: logger, ch: make(chan *Event, size)}
}

// Enqueue 入队事件，返回是否成功
func (q *Queue) Enqueue(ev *Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		q.dropped.Add(1)
		q.log.Warn("event queue full, dropped", zap.String("event_id", ev.ID), zap.String("event_type", string(ev.Type)))
		return false
	}
}

// Dropped 累计丢弃数
func (q *Queue) Dropped() int64 { return q.dropped.Load() }

// Start 启动消费 worker，ctx 结束后处理完已入队事件再退出
func (q *Queue) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Wait 等待 worker 退出
func (q *Queue) Wait() { q.wg.Wait() }

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case ev := <-q.ch:
			_ = q.pub.Publish(ctx, ev)
		case <-ctx.Done():
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	ctx := context.Background()
	for {
		select {
		case ev := <-q.ch:
			_ = q.pub.Publish(ctx, ev)
		default:
			return
		}
	}
}
