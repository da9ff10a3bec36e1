package app

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/locker-gateway/internal/events"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

// Deliverer 应答关联（*outbound.Requester 满足）
type Deliverer interface {
	Deliver(c door.Command) bool
}

// StateSink 状态缓存（*device.State 满足）
type StateSink interface {
	Apply(c door.Command) bool
}

// EventQueue 异步事件队列（*events.Queue 满足）
type EventQueue interface {
	Enqueue(ev *events.Event) bool
}

// Router 指令分发（*door.Adapter 满足）
type Router interface {
	Listen(h door.Handler)
	Register(cmd uint8, h door.Handler)
}

// Uplink 上行指令处理：应答关联 -> 状态缓存 -> 事件投递
// 状态上报每秒一次，只有门锁状态变化时才投递
type Uplink struct {
	requester Deliverer
	state     StateSink
	queue     EventQueue
	log       *zap.Logger

	// 最近一条指令是否为在途请求的应答，由监听器写入、路由处理器读取
	solicited bool
}

// NewUplink 创建上行处理器；queue 为空时不投递事件
func NewUplink(requester Deliverer, state StateSink, queue EventQueue, logger *zap.Logger) *Uplink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uplink{requester: requester, state: state, queue: queue, log: logger}
}

// Attach 挂到适配器：监听器负责应答关联，路由表按指令码分发
// 监听器先于路由表执行，且同一读循环内串行
func (u *Uplink) Attach(r Router) {
	r.Listen(u.correlate)
	r.Register(door.CmdStatus, u.handleStatus)
	r.Register(door.CmdReadTemp, u.handleTemperature)
	r.Register(door.CmdSetTemp, u.handleTemperature)
	r.Register(door.CmdOpenDoor, u.handleReply)
	r.Register(door.CmdLight, u.handleReply)
	r.Register(door.CmdSignal, u.handleReply)
}

func (u *Uplink) correlate(c door.Command) error {
	u.solicited = false
	if u.requester != nil {
		u.solicited = u.requester.Deliver(c)
	}
	return nil
}

// handleStatus 5D 状态上报：更新缓存，仅门锁状态变化时投递
func (u *Uplink) handleStatus(c door.Command) error {
	if !u.apply(c) {
		return nil
	}
	ev, ok := u.event(c)
	if !ok {
		return nil
	}
	ev.Type = events.TypeStatusChanged
	u.queue.Enqueue(ev)
	return nil
}

// handleTemperature 28/A8 温度参数应答
func (u *Uplink) handleTemperature(c door.Command) error {
	u.apply(c)
	u.forward(c)
	return nil
}

// handleReply A4/A6/A7 应答或主动上报
func (u *Uplink) handleReply(c door.Command) error {
	u.apply(c)
	u.forward(c)
	return nil
}

func (u *Uplink) apply(c door.Command) bool {
	if u.state == nil {
		return false
	}
	return u.state.Apply(c)
}

func (u *Uplink) forward(c door.Command) {
	ev, ok := u.event(c)
	if !ok {
		return
	}
	ev.Data["solicited"] = u.solicited
	u.queue.Enqueue(ev)
}

func (u *Uplink) event(c door.Command) (*events.Event, bool) {
	if u.queue == nil {
		return nil, false
	}
	ev, ok := events.FromCommand(c)
	if !ok {
		u.log.Debug("uplink payload not decodable", zap.Stringer("cmd", c))
		return nil, false
	}
	return ev, true
}
