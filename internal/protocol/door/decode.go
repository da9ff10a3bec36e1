package door

import (
	"errors"
	"fmt"
)

var (
	ErrBadPayload   = errors.New("bad payload")
	ErrKindMismatch = errors.New("command kind mismatch")
)

// OpenDoorReply A4 开锁应答：data[0]=锁序号(从0开始)，data[1]=结果(0成功，可缺省)
type OpenDoorReply struct {
	Index     int
	Result    int
	HasResult bool
}

// LockNo 锁编号，从1开始
func (r OpenDoorReply) LockNo() int { return r.Index + 1 }

// Success 开锁成功
func (r OpenDoorReply) Success() bool { return r.HasResult && r.Result == 0 }

// TempMode 温度控制类型
type TempMode uint8

const (
	TempModeNone TempMode = 0x00 // 不控制
	TempModeCool TempMode = 0x01 // 制冷
	TempModeHeat TempMode = 0x02 // 加热
)

// TemperatureReply 28/A8 温度参数：控制类型 + 上限 + 下限（有符号，-50~+50）
type TemperatureReply struct {
	Mode  TempMode
	Upper int
	Lower int
}

// 状态上报数据域：temp[5] ASCII | count[1] | (lock, tongue) * count
const (
	statusTempLen  = 5
	statusCountPos = 5
	statusLocksPos = 6
)

// StatusReport 5D 状态上报
// lock: 0x00 门锁关 0x01 门锁开；tongue: 0x00 锁舌缩回 0x01 锁舌伸出
type StatusReport struct {
	Temperature string
	Locks       []byte
	Tongues     []byte
}

func validStatus(data []byte) bool {
	if len(data) < statusLocksPos {
		return false
	}
	n := int(data[statusCountPos])
	return len(data) >= statusLocksPos+2*n
}

// OpenDoor 解析开锁应答
func (c Command) OpenDoor() (OpenDoorReply, error) {
	if c.Kind != KindOpenDoor {
		return OpenDoorReply{}, fmt.Errorf("%w: %s", ErrKindMismatch, c.Kind)
	}
	if len(c.Data) < 1 {
		return OpenDoorReply{}, ErrBadPayload
	}
	r := OpenDoorReply{Index: int(c.Data[0])}
	if len(c.Data) >= 2 {
		r.Result = int(c.Data[1])
		r.HasResult = true
	}
	return r, nil
}

// Temperature 解析温度参数
func (c Command) Temperature() (TemperatureReply, error) {
	if c.Kind != KindTemperature {
		return TemperatureReply{}, fmt.Errorf("%w: %s", ErrKindMismatch, c.Kind)
	}
	if len(c.Data) < 3 {
		return TemperatureReply{}, ErrBadPayload
	}
	return TemperatureReply{
		Mode:  TempMode(c.Data[0]),
		Upper: int(int8(c.Data[1])),
		Lower: int(int8(c.Data[2])),
	}, nil
}

// Status 解析状态上报
func (c Command) Status() (StatusReport, error) {
	if c.Kind != KindStatus {
		return StatusReport{}, fmt.Errorf("%w: %s", ErrKindMismatch, c.Kind)
	}
	if !validStatus(c.Data) {
		return StatusReport{}, ErrBadPayload
	}
	n := int(c.Data[statusCountPos])
	s := StatusReport{
		Temperature: asciiUntilNUL(c.Data[:statusTempLen]),
		Locks:       make([]byte, n),
		Tongues:     make([]byte, n),
	}
	for i := 0; i < n; i++ {
		s.Locks[i] = c.Data[statusLocksPos+2*i]
		s.Tongues[i] = c.Data[statusLocksPos+2*i+1]
	}
	return s, nil
}

func asciiUntilNUL(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// LockCount 锁数量
func (s StatusReport) LockCount() int { return len(s.Locks) }

// LockOpened 锁舌缩回即可拉开门（lockNo 从1开始）
func (s StatusReport) LockOpened(lockNo int) bool {
	i := lockNo - 1
	if i < 0 || i >= len(s.Tongues) {
		return false
	}
	return s.Tongues[i] == 0x00
}

// LockClosed 门锁关闭且锁舌伸出才算锁上
func (s StatusReport) LockClosed(lockNo int) bool {
	i := lockNo - 1
	if i < 0 || i >= len(s.Locks) {
		return false
	}
	return s.Locks[i] == 0x00 && s.Tongues[i] == 0x01
}

// DoorOpened 至少一把锁打开
func (s StatusReport) DoorOpened() bool {
	for n := 1; n <= s.LockCount(); n++ {
		if s.LockOpened(n) {
			return true
		}
	}
	return false
}

// DoorClosed 所有锁都锁上
func (s StatusReport) DoorClosed() bool {
	for n := 1; n <= s.LockCount(); n++ {
		if !s.LockClosed(n) {
			return false
		}
	}
	return true
}

// AckReply A6/A7 控制应答：数据域原样回显下发参数
type AckReply struct {
	Cmd  uint8
	Echo []byte
}

// Ack 解析灯控/信号应答
func (c Command) Ack() (AckReply, error) {
	if c.Kind != KindLight && c.Kind != KindSignal {
		return AckReply{}, fmt.Errorf("%w: %s", ErrKindMismatch, c.Kind)
	}
	return AckReply{Cmd: c.Cmd, Echo: append([]byte(nil), c.Data...)}, nil
}
