package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/locker-gateway/internal/device"
	"github.com/taoyao-code/locker-gateway/internal/events"
	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
	"github.com/taoyao-code/locker-gateway/internal/storage/models"
	pgstorage "github.com/taoyao-code/locker-gateway/internal/storage/pg"
)

// Controller 控制板下行指令（*outbound.Requester 满足）
type Controller interface {
	OpenDoor(ctx context.Context, lockNo int, openFor time.Duration) (door.OpenDoorReply, error)
	ReadTemperature(ctx context.Context) (door.TemperatureReply, error)
	SetTemperature(ctx context.Context, mode door.TempMode, upper, lower int) (door.TemperatureReply, error)
	SetLight(ctx context.Context, on bool) (door.AckReply, error)
	SetSignal(ctx context.Context, channel int, on bool) (door.AckReply, error)
	SetPrices(ctx context.Context, prices []int) error
}

// DeviceState 控制板状态缓存（*device.State 满足）
type DeviceState interface {
	Snapshot() device.Snapshot
	Online(now time.Time, window time.Duration) bool
}

// Link 串口链路（*serialport.Conn 满足）
type Link interface {
	Online() bool
	Device() string
	OpenedAt() time.Time
}

// CommandStore 下行请求审计（*gormrepo.Repository 满足）
type CommandStore interface {
	RecentCommands(ctx context.Context, cmd int, limit int) ([]models.CommandLog, error)
}

// FrameStore 上行帧流水（*pg.FrameJournal 满足）
type FrameStore interface {
	Recent(ctx context.Context, limit int) ([]pgstorage.JournalEntry, error)
}

// EventStore 事件流（*redis.StreamPublisher 满足）
type EventStore interface {
	Recent(ctx context.Context, n int64) ([]events.Event, error)
}

// Deps 处理器依赖；存储类依赖可为空，对应接口返回 503
type Deps struct {
	Controller Controller
	State      DeviceState
	Link       Link
	Commands   CommandStore
	Frames     FrameStore
	Events     EventStore
	ListPorts  func() ([]string, error)

	// 未指定开锁时长时使用
	DefaultOpen time.Duration
	// 超过该时长未收到上报视为控制板离线
	OnlineWindow time.Duration
}

// Handler 门控板 HTTP 接口
type Handler struct {
	deps   Deps
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler 创建处理器
func NewHandler(deps Deps, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.OnlineWindow <= 0 {
		deps.OnlineWindow = 3 * time.Second
	}
	return &Handler{deps: deps, logger: logger, now: time.Now}
}
