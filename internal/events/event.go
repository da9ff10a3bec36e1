package events

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

// Type 事件类型
type Type string

const (
	// TypeStatus 状态上报（每秒一次）
	TypeStatus Type = "door.status"

	// TypeStatusChanged 门锁状态发生变化
	TypeStatusChanged Type = "door.status_changed"

	// TypeOpenReply 开锁应答
	TypeOpenReply Type = "door.open_reply"

	// TypeTemperature 温度参数应答
	TypeTemperature Type = "door.temperature"

	// TypeAck 灯控/信号应答
	TypeAck Type = "door.ack"
)

// Event 标准事件结构
type Event struct {
	ID        string         `json:"event_id"`   // 事件唯一ID（用于去重）
	Type      Type           `json:"event_type"` // 事件类型
	Cmd       string         `json:"cmd"`        // 指令码，如 A4
	Raw       string         `json:"raw"`        // 原始帧 hex
	Timestamp int64          `json:"timestamp"`  // 接收时间（Unix毫秒）
	Data      map[string]any `json:"data"`
}

// New 创建事件
func New(t Type, c door.Command, data map[string]any) *Event {
	ts := c.RecvAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Cmd:       fmt.Sprintf("%02X", c.Cmd),
		Raw:       strings.ToUpper(hex.EncodeToString(c.Raw)),
		Timestamp: ts.UnixMilli(),
		Data:      data,
	}
}

// FromCommand 将分类后的指令转换为事件；数据域无法解析时返回 false
func FromCommand(c door.Command) (*Event, bool) {
	switch c.Kind {
	case door.KindStatus:
		s, err := c.Status()
		if err != nil {
			return nil, false
		}
		return New(TypeStatus, c, StatusData(s)), true
	case door.KindOpenDoor:
		r, err := c.OpenDoor()
		if err != nil {
			return nil, false
		}
		data := map[string]any{"lock_no": r.LockNo()}
		if r.HasResult {
			data["result"] = r.Result
			data["success"] = r.Success()
		}
		return New(TypeOpenReply, c, data), true
	case door.KindTemperature:
		r, err := c.Temperature()
		if err != nil {
			return nil, false
		}
		return New(TypeTemperature, c, map[string]any{
			"mode":  int(r.Mode),
			"upper": r.Upper,
			"lower": r.Lower,
		}), true
	case door.KindLight, door.KindSignal:
		r, err := c.Ack()
		if err != nil {
			return nil, false
		}
		return New(TypeAck, c, map[string]any{
			"kind": c.Kind.String(),
			"echo": strings.ToUpper(hex.EncodeToString(r.Echo)),
		}), true
	default:
		return nil, false
	}
}

// StatusData 状态上报事件数据
func StatusData(s door.StatusReport) map[string]any {
	locks := make([]map[string]any, 0, s.LockCount())
	for n := 1; n <= s.LockCount(); n++ {
		locks = append(locks, map[string]any{
			"lock_no": n,
			"opened":  s.LockOpened(n),
			"closed":  s.LockClosed(n),
		})
	}
	return map[string]any{
		"temperature": s.Temperature,
		"door_opened": s.DoorOpened(),
		"door_closed": s.DoorClosed(),
		"locks":       locks,
	}
}
