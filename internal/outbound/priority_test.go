package outbound

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

func TestGetCommandPriority(t *testing.T) {
	tests := []struct {
		name     string
		cmd      uint8
		expected int
	}{
		{name: "开锁=紧急优先级", cmd: door.CmdOpenDoor, expected: PriorityEmergency},
		{name: "读温度=高优先级", cmd: door.CmdReadTemp, expected: PriorityHigh},
		{name: "设温度=普通优先级", cmd: door.CmdSetTemp, expected: PriorityNormal},
		{name: "灯控=普通优先级", cmd: door.CmdLight, expected: PriorityNormal},
		{name: "价格=低优先级", cmd: door.CmdStatus, expected: PriorityLow},
		{name: "未知命令=普通优先级", cmd: 0xEE, expected: PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority := GetCommandPriority(tt.cmd)
			assert.Equal(t, tt.expected, priority,
				"命令 0x%02X 的优先级应该是 %d，实际是 %d",
				tt.cmd, tt.expected, priority)
		})
	}
}
