package door

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// 门控板协议帧布局：
// header[N] | len[2] | cmd[1] | data[len-1] | xor[1]
// len 覆盖 cmd+data，不含帧头与校验位；xor 为前面所有字节的异或

// 指令码
const (
	CmdOpenDoor     uint8 = 0xA4 // 开锁
	CmdLight        uint8 = 0xA6 // 控制灯
	CmdSignal       uint8 = 0xA7 // 控制信号输出
	CmdReadTemp     uint8 = 0x28 // 读取温度参数
	CmdSetTemp      uint8 = 0xA8 // 设置温度参数
	CmdStatusLegacy uint8 = 0x5C // 旧版状态上报，已废弃
	CmdStatus       uint8 = 0x5D // 状态上报（每秒一次，门状态变化立即触发）/ 下发价格
)

const (
	lengthFieldBytes  = 2
	checksumBytes     = 1
	defaultResyncStep = 2
)

// 默认参数
const (
	DefaultCapacity   = 2048
	DefaultMaxDataLen = 1024
)

// DefaultHeader 默认帧头
var DefaultHeader = []byte{0x3B, 0xB3}

var ErrBadLayout = errors.New("bad frame layout")

// RawFrame 一帧完整且校验通过的原始字节
type RawFrame []byte

// Layout 帧结构参数（帧头、长度字节序、数据上限、缓冲容量）
type Layout struct {
	Header     []byte
	Order      binary.ByteOrder
	MaxDataLen int
	Capacity   int
}

// DefaultLayout 返回门控板默认帧结构
func DefaultLayout() Layout {
	return Layout{
		Header:     append([]byte(nil), DefaultHeader...),
		Order:      binary.BigEndian,
		MaxDataLen: DefaultMaxDataLen,
		Capacity:   DefaultCapacity,
	}
}

// LenPos 长度字段偏移
func (l Layout) LenPos() int { return len(l.Header) }

// CmdPos 指令码偏移
func (l Layout) CmdPos() int { return len(l.Header) + lengthFieldBytes }

// DataPos 数据域偏移
func (l Layout) DataPos() int { return l.CmdPos() + 1 }

// MinFrameLen 最短帧长度（无数据域）
func (l Layout) MinFrameLen() int { return l.DataPos() + checksumBytes }

// FrameLen 按长度字段计算整帧长度
func (l Layout) FrameLen(declared int) int {
	return len(l.Header) + lengthFieldBytes + declared + checksumBytes
}

// Validate 校验参数组合是否可用
func (l Layout) Validate() error {
	if len(l.Header) == 0 {
		return fmt.Errorf("%w: empty header", ErrBadLayout)
	}
	if l.Order == nil {
		return fmt.Errorf("%w: nil byte order", ErrBadLayout)
	}
	if l.MaxDataLen < 0 || l.MaxDataLen > 0xFFFF-1 {
		return fmt.Errorf("%w: maxDataLen %d out of range", ErrBadLayout, l.MaxDataLen)
	}
	if l.Capacity < l.FrameLen(l.MaxDataLen+1) {
		return fmt.Errorf("%w: capacity %d cannot hold a %d byte data field", ErrBadLayout, l.Capacity, l.MaxDataLen)
	}
	return nil
}

// resyncStep 校验失败后的滑动步长，帧头不足2字节时按帧头长度滑动
func (l Layout) resyncStep() int {
	if len(l.Header) < defaultResyncStep {
		return len(l.Header)
	}
	return defaultResyncStep
}

// Cmd 帧内指令码
func (f RawFrame) Cmd(l Layout) (uint8, bool) {
	if len(f) <= l.CmdPos() {
		return 0, false
	}
	return f[l.CmdPos()], true
}
