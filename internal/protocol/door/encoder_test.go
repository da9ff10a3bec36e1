package door

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDoorRequest(t *testing.T) {
	tests := []struct {
		name    string
		lockNo  int
		openFor time.Duration
		want    []byte
	}{
		{name: "1号锁3秒", lockNo: 1, openFor: 3 * time.Second, want: []byte{0x00, 0x1E}},
		{name: "时长封顶", lockNo: 4, openFor: time.Minute, want: []byte{0x03, 0xFF}},
		{name: "负时长", lockNo: 2, openFor: -time.Second, want: []byte{0x01, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := OpenDoorRequest(tt.lockNo, tt.openFor)
			assert.Equal(t, CmdOpenDoor, r.Cmd)
			assert.Equal(t, tt.want, r.Data)
		})
	}
}

func TestRequests_RoundTripThroughDecoder(t *testing.T) {
	l := DefaultLayout()
	reqs := []Request{
		OpenDoorRequest(1, time.Second),
		ReadTemperatureRequest(),
		SetTemperatureRequest(TempModeHeat, 30, -10),
		PriceRequest(l, []int{150, 300}),
		LightRequest(true),
		SignalRequest(2, false),
	}
	var stream []byte
	for _, r := range reqs {
		stream = append(stream, r.Frame(l)...)
	}

	frames := NewStreamDecoder(l, nil).Feed(stream)
	require.Len(t, frames, len(reqs))
	for i, f := range frames {
		cmd, ok := f.Cmd(l)
		require.True(t, ok)
		assert.Equal(t, reqs[i].Cmd, cmd)
		assert.NoError(t, VerifyChecksum(f))
	}
}

func TestSetTemperatureRequest_Signed(t *testing.T) {
	r := SetTemperatureRequest(TempModeCool, 5, -5)
	assert.Equal(t, []byte{0x01, 0x05, 0xFB}, r.Data)
}

func TestPriceRequest(t *testing.T) {
	r := PriceRequest(DefaultLayout(), []int{0x0102, 0x00FF})
	assert.Equal(t, CmdStatus, r.Cmd)
	assert.Equal(t, []byte{0x02, 0x01, 0x02, 0x00, 0xFF}, r.Data)

	le := DefaultLayout()
	le.Order = binary.LittleEndian
	r = PriceRequest(le, []int{0x0102})
	assert.Equal(t, []byte{0x01, 0x02, 0x01}, r.Data)
}

func TestLightAndSignalRequest(t *testing.T) {
	assert.Equal(t, []byte{0x01}, LightRequest(true).Data)
	assert.Equal(t, []byte{0x00}, LightRequest(false).Data)
	assert.Equal(t, []byte{0x03, 0x01}, SignalRequest(3, true).Data)
}
