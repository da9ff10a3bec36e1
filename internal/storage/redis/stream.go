package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taoyao-code/locker-gateway/internal/events"
)

// DefaultStream 默认事件流 key
const DefaultStream = "locker:events"

var _ events.Publisher = (*StreamPublisher)(nil)

// StreamPublisher 将事件 XADD 到 Redis Stream，按 MAXLEN 近似裁剪
type StreamPublisher struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
}

func NewStreamPublisher(rdb redis.Cmdable, stream string, maxLen int64) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (p *StreamPublisher) Name() string { return "redis" }

// Stream 流 key
func (p *StreamPublisher) Stream() string { return p.stream }

func (p *StreamPublisher) Publish(ctx context.Context, ev *events.Event) error {
	args, err := p.addArgs(ev)
	if err != nil {
		return err
	}
	if err := p.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis xadd: %w", err)
	}
	return nil
}

func (p *StreamPublisher) addArgs(ev *events.Event) (*redis.XAddArgs, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id":   ev.ID,
			"event_type": string(ev.Type),
			"cmd":        ev.Cmd,
			"payload":    string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return args, nil
}

// Recent 读取最近 n 条事件（新的在前）
func (p *StreamPublisher) Recent(ctx context.Context, n int64) ([]events.Event, error) {
	msgs, err := p.rdb.XRevRangeN(ctx, p.stream, "+", "-", n).Result()
	if err != nil {
		return nil, fmt.Errorf("redis xrevrange: %w", err)
	}
	out := make([]events.Event, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values["payload"].(string)
		if !ok {
			continue
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
