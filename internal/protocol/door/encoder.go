package door

import "time"

// Build 构造一帧下行数据（与 StreamDecoder 对应）
func Build(l Layout, cmd uint8, data []byte) []byte {
	declared := 1 + len(data)
	buf := make([]byte, 0, l.FrameLen(declared))
	// header
	buf = append(buf, l.Header...)
	// len = cmd + data
	lb := make([]byte, lengthFieldBytes)
	l.Order.PutUint16(lb, uint16(declared))
	buf = append(buf, lb...)
	// cmd
	buf = append(buf, cmd)
	// payload
	buf = append(buf, data...)
	// xor of all previous bytes
	buf = append(buf, Checksum(buf))
	return buf
}

// Request 下行指令：指令码 + 数据域
type Request struct {
	Cmd  uint8
	Data []byte
}

// Frame 按布局编码
func (r Request) Frame(l Layout) []byte { return Build(l, r.Cmd, r.Data) }

// maxOpenUnits 开锁时长以100ms为单位，单字节上限
const maxOpenUnits = 0xFF

// OpenDoorRequest A4 开锁：lockNo 从1开始，openFor 为开锁后自动落锁的延时
func OpenDoorRequest(lockNo int, openFor time.Duration) Request {
	units := int(openFor / (100 * time.Millisecond))
	if units > maxOpenUnits {
		units = maxOpenUnits
	}
	if units < 0 {
		units = 0
	}
	return Request{Cmd: CmdOpenDoor, Data: []byte{byte(lockNo - 1), byte(units)}}
}

// ReadTemperatureRequest 28 读取温度参数
func ReadTemperatureRequest() Request {
	return Request{Cmd: CmdReadTemp, Data: []byte{}}
}

// SetTemperatureRequest A8 设置温度参数
func SetTemperatureRequest(mode TempMode, upper, lower int) Request {
	return Request{Cmd: CmdSetTemp, Data: []byte{byte(mode), byte(int8(upper)), byte(int8(lower))}}
}

// PriceRequest 5D 设置数码管价格（单位：分），count[1] + price[2]*count
func PriceRequest(l Layout, prices []int) Request {
	data := make([]byte, 1+2*len(prices))
	data[0] = byte(len(prices))
	for i, p := range prices {
		l.Order.PutUint16(data[1+2*i:], uint16(p))
	}
	return Request{Cmd: CmdStatus, Data: data}
}

// LightRequest A6 控制灯
func LightRequest(on bool) Request {
	return Request{Cmd: CmdLight, Data: []byte{boolByte(on)}}
}

// SignalRequest A7 控制信号输出
func SignalRequest(channel int, on bool) Request {
	return Request{Cmd: CmdSignal, Data: []byte{byte(channel), boolByte(on)}}
}

func boolByte(v bool) byte {
	if v {
		return 0x01
	}
	return 0x00
}
