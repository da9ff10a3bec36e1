package config

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/locker-gateway/internal/protocol/door"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "locker-gateway", cfg.App.Name)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, 3*time.Second, cfg.Worker.ResponseTimeout)
	assert.Equal(t, 20*time.Millisecond, cfg.Worker.IdleGap)
	assert.Equal(t, "3BB3", cfg.Protocol.Header)
	assert.False(t, cfg.Redis.Enabled)

	l, err := cfg.Protocol.Layout()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3B, 0xB3}, l.Header)
	assert.Equal(t, binary.BigEndian, l.Order)
	assert.Equal(t, door.DefaultCapacity, l.Capacity)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locker.yaml")
	content := `
serial:
  device: /dev/ttyUSB0
  baudRate: 115200
protocol:
  header: "7E"
  byteOrder: little
  maxDataLen: 64
  bufferCapacity: 256
worker:
  responseTimeout: 1500ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("LOCKER_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Device)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 1500*time.Millisecond, cfg.Worker.ResponseTimeout)

	l, err := cfg.Protocol.Layout()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7E}, l.Header)
	assert.Equal(t, binary.LittleEndian, l.Order)
	assert.Equal(t, 64, l.MaxDataLen)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestProtocolConfig_Layout(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProtocolConfig
		wantErr bool
	}{
		{name: "默认帧头", cfg: ProtocolConfig{Header: "3B B3", MaxDataLen: 1024, BufferCapacity: 2048}},
		{name: "非法十六进制", cfg: ProtocolConfig{Header: "ZZ", MaxDataLen: 1024, BufferCapacity: 2048}, wantErr: true},
		{name: "空帧头", cfg: ProtocolConfig{Header: "", MaxDataLen: 1024, BufferCapacity: 2048}, wantErr: true},
		{name: "未知字节序", cfg: ProtocolConfig{Header: "3BB3", ByteOrder: "middle", MaxDataLen: 1024, BufferCapacity: 2048}, wantErr: true},
		{name: "容量不足", cfg: ProtocolConfig{Header: "3BB3", MaxDataLen: 1024, BufferCapacity: 512}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Layout()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Serial.Parity = "mark"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = *cfg
	bad.Serial.StopBits = 3
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = *cfg
	bad.Worker.ResponseTimeout = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}
