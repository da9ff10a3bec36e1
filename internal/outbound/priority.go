package outbound

import "github.com/taoyao-code/locker-gateway/internal/protocol/door"

// 下行指令优先级定义
// 注意: 数值越小=优先级越高，等待串口时先放行
const (
	// PriorityEmergency 紧急指令
	// 场景: 开锁
	PriorityEmergency = 1

	// PriorityHigh 高优先级指令
	// 场景: 读取温度参数
	PriorityHigh = 2

	// PriorityNormal 普通优先级指令
	// 场景: 设置温度、灯控、信号输出
	PriorityNormal = 3

	// PriorityLow 低优先级指令
	// 场景: 下发价格
	PriorityLow = 4

	priorityLevels = 5
)

// GetCommandPriority 根据门控板指令码返回优先级
func GetCommandPriority(cmd uint8) int {
	switch cmd {
	case door.CmdOpenDoor:
		return PriorityEmergency
	case door.CmdReadTemp:
		return PriorityHigh
	case door.CmdSetTemp, door.CmdLight, door.CmdSignal:
		return PriorityNormal
	case door.CmdStatus:
		return PriorityLow
	default:
		return PriorityNormal
	}
}
