package redis

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/locker-gateway/internal/events"
)

func TestStreamPublisher_AddArgs(t *testing.T) {
	p := NewStreamPublisher(nil, "", 500)
	assert.Equal(t, DefaultStream, p.Stream())
	assert.Equal(t, "redis", p.Name())

	ev := &events.Event{ID: "evt-1", Type: events.TypeOpenReply, Cmd: "A4", Data: map[string]any{"lock_no": 1}}
	args, err := p.addArgs(ev)
	require.NoError(t, err)
	assert.Equal(t, DefaultStream, args.Stream)
	assert.Equal(t, int64(500), args.MaxLen)
	assert.True(t, args.Approx)

	values := args.Values.(map[string]any)
	assert.Equal(t, "evt-1", values["event_id"])
	assert.Equal(t, "door.open_reply", values["event_type"])

	var decoded events.Event
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &decoded))
	assert.Equal(t, "A4", decoded.Cmd)
}

func TestStreamPublisher_NoTrim(t *testing.T) {
	args, err := NewStreamPublisher(nil, "s", 0).addArgs(&events.Event{ID: "x"})
	require.NoError(t, err)
	assert.Zero(t, args.MaxLen)
	assert.False(t, args.Approx)
}

// 需要真实 Redis：设置 TEST_REDIS_ADDR 后运行
func TestStreamPublisher_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR 未设置，跳过测试")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	stream := "locker:test:events"
	_ = rdb.Del(ctx, stream).Err()
	defer rdb.Del(ctx, stream)

	p := NewStreamPublisher(rdb, stream, 100)
	require.NoError(t, p.Publish(ctx, &events.Event{ID: "a", Type: events.TypeStatus}))
	require.NoError(t, p.Publish(ctx, &events.Event{ID: "b", Type: events.TypeOpenReply}))

	got, err := p.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
}
