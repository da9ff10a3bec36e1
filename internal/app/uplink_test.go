package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/locker-gateway/internal/config"
	"github.com/taoyao-code/locker-gateway/internal/device"
	"github.com/taoyao-code/locker-gateway/internal/events"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

type fakeDeliverer struct {
	match bool
	got   []door.Command
}

func (f *fakeDeliverer) Deliver(c door.Command) bool {
	f.got = append(f.got, c)
	return f.match
}

type memQueue struct{ events []*events.Event }

func (q *memQueue) Enqueue(ev *events.Event) bool {
	q.events = append(q.events, ev)
	return true
}

// attach 构造适配器并挂上 Uplink，返回逐帧喂入函数
func attach(t *testing.T, u *Uplink) func(cmd byte, data []byte) {
	t.Helper()
	a := door.NewAdapter(door.DefaultLayout(), nil)
	u.Attach(a)
	return func(cmd byte, data []byte) {
		t.Helper()
		require.NoError(t, a.ProcessBytes(door.Build(door.DefaultLayout(), cmd, data)))
	}
}

func TestUplink_StatusChangedOnly(t *testing.T) {
	req := &fakeDeliverer{}
	q := &memQueue{}
	feed := attach(t, NewUplink(req, device.NewState(), q, zap.NewNop()))

	closed := []byte{'2', '0', 0, 0, 0, 0x01, 0x00, 0x01}
	opened := []byte{'2', '0', 0, 0, 0, 0x01, 0x01, 0x00}

	feed(door.CmdStatus, closed)
	feed(door.CmdStatus, closed)
	feed(door.CmdStatus, opened)

	require.Len(t, q.events, 2, "重复的状态上报不投递")
	for _, ev := range q.events {
		assert.Equal(t, events.TypeStatusChanged, ev.Type)
	}
	assert.Equal(t, true, q.events[1].Data["door_opened"])
	assert.Len(t, req.got, 3, "每条指令都交给应答关联")
}

func TestUplink_RepliesForwarded(t *testing.T) {
	tests := []struct {
		name      string
		cmd       byte
		data      []byte
		match     bool
		wantType  events.Type
		solicited bool
	}{
		{"开锁应答", door.CmdOpenDoor, []byte{0x00, 0x00}, true, events.TypeOpenReply, true},
		{"主动上报的开锁结果", door.CmdOpenDoor, []byte{0x02, 0x00}, false, events.TypeOpenReply, false},
		{"温度应答", door.CmdReadTemp, []byte{0x01, 0x08, 0xFE}, true, events.TypeTemperature, true},
		{"设置温度应答", door.CmdSetTemp, []byte{0x01, 0x08, 0xFE}, true, events.TypeTemperature, true},
		{"灯控应答", door.CmdLight, []byte{0x01}, true, events.TypeAck, true},
		{"信号输出应答", door.CmdSignal, []byte{0x01}, false, events.TypeAck, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &memQueue{}
			feed := attach(t, NewUplink(&fakeDeliverer{match: tt.match}, device.NewState(), q, nil))
			feed(tt.cmd, tt.data)
			require.Len(t, q.events, 1)
			assert.Equal(t, tt.wantType, q.events[0].Type)
			assert.Equal(t, tt.solicited, q.events[0].Data["solicited"])
		})
	}
}

func TestUplink_SolicitedIsPerCommand(t *testing.T) {
	req := &fakeDeliverer{match: true}
	q := &memQueue{}
	feed := attach(t, NewUplink(req, device.NewState(), q, nil))

	feed(door.CmdLight, []byte{0x01})
	req.match = false
	feed(door.CmdLight, []byte{0x01})

	require.Len(t, q.events, 2)
	assert.Equal(t, true, q.events[0].Data["solicited"])
	assert.Equal(t, false, q.events[1].Data["solicited"])
}

func TestUplink_RoutesToStateCache(t *testing.T) {
	st := device.NewState()
	feed := attach(t, NewUplink(&fakeDeliverer{}, st, nil, nil))

	feed(door.CmdStatus, []byte{'2', '0', 0, 0, 0, 0x01, 0x00, 0x01})
	feed(door.CmdReadTemp, []byte{0x01, 0x08, 0xFE})

	snap := st.Snapshot()
	assert.NotNil(t, snap.Status, "无事件目标时仍更新状态缓存")
	assert.NotNil(t, snap.Temperature)
	assert.False(t, snap.LastFrameAt.IsZero())
}

func TestNewEventQueue_NoSinks(t *testing.T) {
	cfg := &cfgpkg.Config{}
	sinks := NewEventSinks(cfg, nil, nil, zap.NewNop())
	assert.Empty(t, sinks.Publishers)
	assert.Nil(t, sinks.Stream)
	assert.Nil(t, sinks.Journal)
	assert.Nil(t, NewEventQueue(cfg.Events, sinks, nil, zap.NewNop()))
}

func TestNewEventSinks_Webhook(t *testing.T) {
	cfg := &cfgpkg.Config{}
	cfg.Events.Webhook = cfgpkg.WebhookConfig{Enabled: true, URL: "http://127.0.0.1:1/hook", Timeout: time.Second, Retries: 1}
	sinks := NewEventSinks(cfg, nil, nil, zap.NewNop())
	require.Len(t, sinks.Publishers, 1)
	assert.Equal(t, "webhook", sinks.Publishers[0].Name())
	assert.NotNil(t, NewEventQueue(cfg.Events, sinks, nil, zap.NewNop()))
}
