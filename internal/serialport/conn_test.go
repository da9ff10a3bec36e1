package serialport

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/taoyao-code/locker-gateway/internal/config"
)

// pipeOpener 用 net.Pipe 模拟串口，测试端拿到设备侧
type pipeOpener struct {
	ends   chan net.Conn
	opened atomic.Int32
}

func newPipeOpener() *pipeOpener { return &pipeOpener{ends: make(chan net.Conn, 8)} }

func (o *pipeOpener) Open(string, *serial.Mode) (Port, error) {
	host, dev := net.Pipe()
	o.opened.Add(1)
	o.ends <- dev
	return host, nil
}

func recvDevice(t *testing.T, o *pipeOpener) net.Conn {
	t.Helper()
	select {
	case d := <-o.ends:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("port not opened")
		return nil
	}
}

func TestConn_ReadWriteReconnect(t *testing.T) {
	op := newPipeOpener()
	conn := NewConn(Options{Device: "fake", ReconnectInterval: 10 * time.Millisecond}, op, nil, nil)

	recv := make(chan []byte, 4)
	var resets atomic.Int32
	conn.SetOnRead(func(b []byte) { recv <- append([]byte(nil), b...) })
	conn.SetOnReset(func() { resets.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- conn.Run(ctx) }()

	dev := recvDevice(t, op)
	require.Eventually(t, conn.Online, time.Second, 5*time.Millisecond)

	t.Run("上行数据回调", func(t *testing.T) {
		_, err := dev.Write([]byte{0x3B, 0xB3, 0x00})
		require.NoError(t, err)
		select {
		case got := <-recv:
			assert.Equal(t, []byte{0x3B, 0xB3, 0x00}, got)
		case <-time.After(time.Second):
			t.Fatal("no data delivered")
		}
	})

	t.Run("下行写入", func(t *testing.T) {
		require.NoError(t, conn.Write(ctx, []byte{0x09, 0x08}))
		buf := make([]byte, 8)
		_ = dev.SetReadDeadline(time.Now().Add(time.Second))
		n, err := dev.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x09, 0x08}, buf[:n])
	})

	t.Run("断线后重连并重置", func(t *testing.T) {
		require.NoError(t, dev.Close())
		require.Eventually(t, func() bool { return resets.Load() == 1 }, time.Second, 5*time.Millisecond)
		_ = recvDevice(t, op)
		require.Eventually(t, conn.Online, time.Second, 5*time.Millisecond)
		assert.Equal(t, int32(2), op.opened.Load())
	})

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.False(t, conn.Online())
}

func TestConn_WriteOffline(t *testing.T) {
	conn := NewConn(Options{Device: "fake"}, newPipeOpener(), nil, nil)
	assert.ErrorIs(t, conn.Write(context.Background(), []byte{0x01}), ErrNotConnected)
}

func TestModeFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SerialConfig
		want    *serial.Mode
		wantErr bool
	}{
		{
			name: "默认8N1",
			cfg:  config.SerialConfig{BaudRate: 9600, Parity: "none", StopBits: 1},
			want: &serial.Mode{BaudRate: 9600, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit},
		},
		{
			name: "偶校验两位停止位",
			cfg:  config.SerialConfig{BaudRate: 19200, DataBits: 7, Parity: "even", StopBits: 2},
			want: &serial.Mode{BaudRate: 19200, DataBits: 7, Parity: serial.EvenParity, StopBits: serial.TwoStopBits},
		},
		{name: "波特率非法", cfg: config.SerialConfig{BaudRate: 0}, wantErr: true},
		{name: "校验位非法", cfg: config.SerialConfig{BaudRate: 9600, Parity: "space"}, wantErr: true},
		{name: "停止位非法", cfg: config.SerialConfig{BaudRate: 9600, StopBits: 3}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ModeFromConfig(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(0, 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Equal(t, int64(5), l.Stats().AllowedTotal)

	slow := NewRateLimiter(1, 1)
	require.NoError(t, slow.Wait(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, slow.Wait(ctx))
	assert.Equal(t, int64(1), slow.Stats().FailedTotal)
}
