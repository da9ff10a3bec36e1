package door

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_OpenDoor(t *testing.T) {
	raw := RawFrame{0x3B, 0xB3, 0x00, 0x02, 0xA4, 0x01, 0x2F}
	cmd, ok := Classify(raw)
	require.True(t, ok)
	assert.Equal(t, KindOpenDoor, cmd.Kind)
	assert.Equal(t, CmdOpenDoor, cmd.Cmd)
	assert.Equal(t, []byte{0x01}, cmd.Data)
	assert.Equal(t, raw, cmd.Raw)
	assert.False(t, cmd.RecvAt.IsZero())
}

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		wantOK   bool
		wantKind Kind
	}{
		{name: "未知指令", raw: makeFrame(0xFF, []byte{0x01}), wantOK: false},
		{name: "读取温度", raw: makeFrame(CmdReadTemp, []byte{0x01, 0x08, 0x02}), wantOK: true, wantKind: KindTemperature},
		{name: "设置温度", raw: makeFrame(CmdSetTemp, []byte{0x02, 0x30, 0xF6}), wantOK: true, wantKind: KindTemperature},
		{name: "温度数据不足", raw: makeFrame(CmdReadTemp, []byte{0x01}), wantOK: false},
		{name: "开锁无数据", raw: makeFrame(CmdOpenDoor, nil), wantOK: false},
		{name: "状态上报", raw: makeFrame(CmdStatus, []byte{'2', '3', 0, 0, 0, 0x01, 0x00, 0x01}), wantOK: true, wantKind: KindStatus},
		{name: "状态锁数量与数据不符", raw: makeFrame(CmdStatus, []byte{'2', '3', 0, 0, 0, 0x02, 0x00, 0x01}), wantOK: false},
		{name: "灯控应答", raw: makeFrame(CmdLight, nil), wantOK: true, wantKind: KindLight},
		{name: "信号应答", raw: makeFrame(CmdSignal, []byte{0x01}), wantOK: true, wantKind: KindSignal},
		{name: "旧版状态指令", raw: makeFrame(CmdStatusLegacy, []byte{0x00}), wantOK: false},
		{name: "帧过短", raw: []byte{0x3B, 0xB3, 0x00}, wantOK: false},
		{name: "声明长度超出帧", raw: []byte{0x3B, 0xB3, 0x00, 0x09, 0xA4, 0x01, 0x00}, wantOK: false},
		{name: "声明长度为0", raw: []byte{0x3B, 0xB3, 0x00, 0x00, 0xA4, 0x00}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := Classify(RawFrame(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKind, cmd.Kind)
			}
		})
	}
}

func TestNewClassifier_InvalidLayoutFallsBack(t *testing.T) {
	raw := RawFrame{0x3B, 0xB3, 0x00, 0x02, 0xA4, 0x01, 0x2F}
	tests := []struct {
		name   string
		layout Layout
	}{
		{"字节序为空", Layout{Header: DefaultHeader, MaxDataLen: 16, Capacity: 64}},
		{"帧头为空", Layout{Order: DefaultLayout().Order, MaxDataLen: 16, Capacity: 64}},
		{"容量不足", Layout{Header: DefaultHeader, Order: DefaultLayout().Order, MaxDataLen: 16, Capacity: 8}},
		{"零值", Layout{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.layout.Validate())
			var (
				c  Command
				ok bool
			)
			require.NotPanics(t, func() { c, ok = NewClassifier(tt.layout).Classify(raw) })
			require.True(t, ok)
			assert.Equal(t, CmdOpenDoor, c.Cmd)
			assert.Equal(t, []byte{0x01}, c.Data)
		})
	}
}

func TestClassifier_DataIsCopied(t *testing.T) {
	raw := RawFrame(makeFrame(CmdOpenDoor, []byte{0x02, 0x00}))
	c := NewClassifier(DefaultLayout())
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	cmd, ok := c.Classify(raw)
	require.True(t, ok)
	assert.Equal(t, fixed, cmd.RecvAt)

	raw[DefaultLayout().DataPos()] = 0x09
	assert.Equal(t, byte(0x02), cmd.Data[0])
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "open_door", KindOpenDoor.String())
	assert.Equal(t, "temperature", KindTemperature.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Contains(t, Command{Kind: KindStatus, Cmd: CmdStatus}.String(), "0x5D")
}
