package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

func classify(t *testing.T, cmd byte, data []byte) door.Command {
	t.Helper()
	c, ok := door.Classify(door.RawFrame(door.Build(door.DefaultLayout(), cmd, data)))
	require.True(t, ok)
	return c
}

func TestFromCommand(t *testing.T) {
	t.Run("状态上报", func(t *testing.T) {
		ev, ok := FromCommand(classify(t, door.CmdStatus, []byte{'2', '0', 0, 0, 0, 0x01, 0x00, 0x01}))
		require.True(t, ok)
		assert.Equal(t, TypeStatus, ev.Type)
		assert.Equal(t, "5D", ev.Cmd)
		assert.Equal(t, "20", ev.Data["temperature"])
		assert.Equal(t, true, ev.Data["door_closed"])
		assert.NotEmpty(t, ev.ID)
		assert.NotZero(t, ev.Timestamp)
	})

	t.Run("开锁应答", func(t *testing.T) {
		ev, ok := FromCommand(classify(t, door.CmdOpenDoor, []byte{0x01, 0x00}))
		require.True(t, ok)
		assert.Equal(t, TypeOpenReply, ev.Type)
		assert.Equal(t, 2, ev.Data["lock_no"])
		assert.Equal(t, true, ev.Data["success"])
		assert.Equal(t, "3BB30003A40100", ev.Raw[:14])
	})

	t.Run("温度应答", func(t *testing.T) {
		ev, ok := FromCommand(classify(t, door.CmdReadTemp, []byte{0x02, 0x1E, 0xF6}))
		require.True(t, ok)
		assert.Equal(t, TypeTemperature, ev.Type)
		assert.Equal(t, -10, ev.Data["lower"])
	})

	t.Run("信号应答", func(t *testing.T) {
		ev, ok := FromCommand(classify(t, door.CmdSignal, []byte{0x01, 0x01}))
		require.True(t, ok)
		assert.Equal(t, TypeAck, ev.Type)
		assert.Equal(t, "0101", ev.Data["echo"])
	})

	t.Run("未知类型", func(t *testing.T) {
		_, ok := FromCommand(door.Command{Kind: door.KindUnknown})
		assert.False(t, ok)
	})
}
