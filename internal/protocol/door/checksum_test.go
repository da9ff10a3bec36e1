package door

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0x00), Checksum(nil))
	assert.Equal(t, byte(0x2F), Checksum([]byte{0x3B, 0xB3, 0x00, 0x02, 0xA4, 0x01}))
}

func TestVerifyChecksum(t *testing.T) {
	tests := []struct {
		name    string
		frame   []byte
		wantErr bool
	}{
		{name: "校验正确", frame: []byte{0x3B, 0xB3, 0x00, 0x02, 0xA4, 0x01, 0x2F}},
		{name: "校验错误", frame: []byte{0x3B, 0xB3, 0x00, 0x02, 0xA4, 0x01, 0x2E}, wantErr: true},
		{name: "空数据", frame: nil, wantErr: true},
		{name: "仅校验位", frame: []byte{0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyChecksum(tt.frame)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
