package door

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifyFrame(t *testing.T, cmd byte, data []byte) Command {
	t.Helper()
	c, ok := Classify(RawFrame(makeFrame(cmd, data)))
	require.True(t, ok)
	return c
}

func TestCommand_OpenDoor(t *testing.T) {
	t.Run("带结果", func(t *testing.T) {
		r, err := classifyFrame(t, CmdOpenDoor, []byte{0x02, 0x00}).OpenDoor()
		require.NoError(t, err)
		assert.Equal(t, 3, r.LockNo())
		assert.True(t, r.Success())
	})

	t.Run("开锁失败", func(t *testing.T) {
		r, err := classifyFrame(t, CmdOpenDoor, []byte{0x00, 0x01}).OpenDoor()
		require.NoError(t, err)
		assert.Equal(t, 1, r.LockNo())
		assert.False(t, r.Success())
	})

	t.Run("缺少结果字节", func(t *testing.T) {
		r, err := classifyFrame(t, CmdOpenDoor, []byte{0x01}).OpenDoor()
		require.NoError(t, err)
		assert.False(t, r.HasResult)
		assert.False(t, r.Success())
	})

	t.Run("类型不符", func(t *testing.T) {
		_, err := classifyFrame(t, CmdLight, nil).OpenDoor()
		assert.ErrorIs(t, err, ErrKindMismatch)
	})
}

func TestCommand_Temperature(t *testing.T) {
	r, err := classifyFrame(t, CmdSetTemp, []byte{0x01, 0x0A, 0xFB}).Temperature()
	require.NoError(t, err)
	assert.Equal(t, TempModeCool, r.Mode)
	assert.Equal(t, 10, r.Upper)
	assert.Equal(t, -5, r.Lower)

	_, err = Command{Kind: KindTemperature, Data: []byte{0x01}}.Temperature()
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestCommand_Status(t *testing.T) {
	data := []byte{'2', '5', '.', '5', 0x00, 0x03,
		0x00, 0x01, // 1号：关门且锁舌伸出
		0x01, 0x00, // 2号：开门锁舌缩回
		0x00, 0x00, // 3号：锁舌缩回
	}
	s, err := classifyFrame(t, CmdStatus, data).Status()
	require.NoError(t, err)

	assert.Equal(t, "25.5", s.Temperature)
	assert.Equal(t, 3, s.LockCount())
	assert.True(t, s.LockClosed(1))
	assert.False(t, s.LockOpened(1))
	assert.True(t, s.LockOpened(2))
	assert.False(t, s.LockClosed(2))
	assert.True(t, s.LockOpened(3))
	assert.True(t, s.DoorOpened())
	assert.False(t, s.DoorClosed())
	assert.False(t, s.LockOpened(0))
	assert.False(t, s.LockClosed(4))
}

func TestCommand_StatusAllClosed(t *testing.T) {
	s, err := classifyFrame(t, CmdStatus, []byte{'-', '3', 0, 0, 0, 0x02, 0x00, 0x01, 0x00, 0x01}).Status()
	require.NoError(t, err)
	assert.Equal(t, "-3", s.Temperature)
	assert.True(t, s.DoorClosed())
	assert.False(t, s.DoorOpened())
}

func TestCommand_Ack(t *testing.T) {
	r, err := classifyFrame(t, CmdSignal, []byte{0x02, 0x01}).Ack()
	require.NoError(t, err)
	assert.Equal(t, CmdSignal, r.Cmd)
	assert.Equal(t, []byte{0x02, 0x01}, r.Echo)

	_, err = classifyFrame(t, CmdOpenDoor, []byte{0x00}).Ack()
	assert.ErrorIs(t, err, ErrKindMismatch)
}
