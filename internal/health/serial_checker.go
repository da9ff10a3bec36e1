package health

import (
	"context"
	"time"
)

// SerialLink 串口链路状态（*serialport.Conn 满足）
type SerialLink interface {
	Online() bool
	Device() string
	OpenedAt() time.Time
}

// SerialChecker 串口链路健康检查器
type SerialChecker struct {
	link SerialLink
	now  func() time.Time
}

// NewSerialChecker 创建串口健康检查器
func NewSerialChecker(link SerialLink) *SerialChecker {
	return &SerialChecker{link: link, now: time.Now}
}

func (c *SerialChecker) Name() string { return "serial" }

// Check 串口未打开为 Unhealthy
func (c *SerialChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	details := map[string]interface{}{
		"device": c.link.Device(),
	}
	if !c.link.Online() {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "serial port not open",
			Details: details,
			Latency: time.Since(start),
		}
	}
	if at := c.link.OpenedAt(); !at.IsZero() {
		details["opened_at"] = at
		details["uptime"] = c.now().Sub(at).Truncate(time.Second).String()
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: details,
		Latency: time.Since(start),
	}
}

// BoardState 控制板上报状态（*device.State 满足）
type BoardState interface {
	Online(now time.Time, window time.Duration) bool
}

// BoardChecker 控制板上报检查：串口正常但收不到状态上报时为 Degraded
type BoardChecker struct {
	state  BoardState
	window time.Duration
	now    func() time.Time
}

// NewBoardChecker window 内收到过帧视为在线
func NewBoardChecker(state BoardState, window time.Duration) *BoardChecker {
	if window <= 0 {
		window = 3 * time.Second
	}
	return &BoardChecker{state: state, window: window, now: time.Now}
}

func (c *BoardChecker) Name() string { return "board" }

func (c *BoardChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if !c.state.Online(c.now(), c.window) {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "no report from board",
			Details: map[string]interface{}{"window": c.window.String()},
			Latency: time.Since(start),
		}
	}
	return CheckResult{Status: StatusHealthy, Message: "ok", Latency: time.Since(start)}
}
