package door

import (
	"fmt"
	"time"
)

// Kind 指令形态（同一形态可对应多个指令码）
type Kind uint8

const (
	KindUnknown Kind = iota
	KindOpenDoor
	KindTemperature
	KindStatus
	KindLight
	KindSignal
)

func (k Kind) String() string {
	switch k {
	case KindOpenDoor:
		return "open_door"
	case KindTemperature:
		return "temperature"
	case KindStatus:
		return "status"
	case KindLight:
		return "light"
	case KindSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// shape 指令码对应的形态与数据域最小长度校验
type shape struct {
	kind  Kind
	valid func(data []byte) bool
}

func minLen(n int) func([]byte) bool {
	return func(data []byte) bool { return len(data) >= n }
}

// shapes 已知指令码集合：28/A8 共用温度参数形态
var shapes = map[uint8]shape{
	CmdOpenDoor: {kind: KindOpenDoor, valid: minLen(1)},
	CmdReadTemp: {kind: KindTemperature, valid: minLen(3)},
	CmdSetTemp:  {kind: KindTemperature, valid: minLen(3)},
	CmdStatus:   {kind: KindStatus, valid: validStatus},
	CmdLight:    {kind: KindLight, valid: minLen(0)},
	CmdSignal:   {kind: KindSignal, valid: minLen(0)},
}

// Command 分类后的指令：指令码 + 原始帧 + 数据域
type Command struct {
	Kind   Kind
	Cmd    uint8
	Raw    RawFrame
	Data   []byte
	RecvAt time.Time
}

func (c Command) String() string {
	return fmt.Sprintf("Command{cmd=0x%02X, kind=%s, data=% X}", c.Cmd, c.Kind, c.Data)
}

// Classifier 帧分类器
type Classifier struct {
	layout Layout
	now    func() time.Time
}

// NewClassifier 创建分类器，layout 非法时回退到默认布局（与 NewStreamDecoder 一致）
func NewClassifier(layout Layout) *Classifier {
	if layout.Validate() != nil {
		layout = DefaultLayout()
	}
	return &Classifier{layout: layout, now: time.Now}
}

// Classify 识别指令码并切出数据域；未知指令或数据不符合形态时返回 false
func (c *Classifier) Classify(raw RawFrame) (Command, bool) {
	l := c.layout
	if len(raw) < l.MinFrameLen() {
		return Command{}, false
	}
	cmd := raw[l.CmdPos()]
	declared := int(l.Order.Uint16(raw[l.LenPos() : l.LenPos()+lengthFieldBytes]))
	dataLen := declared - 1
	if dataLen < 0 || l.DataPos()+dataLen > len(raw)-checksumBytes {
		return Command{}, false
	}
	sh, ok := shapes[cmd]
	if !ok {
		return Command{}, false
	}
	data := make([]byte, dataLen)
	copy(data, raw[l.DataPos():l.DataPos()+dataLen])
	if !sh.valid(data) {
		return Command{}, false
	}
	return Command{Kind: sh.kind, Cmd: cmd, Raw: raw, Data: data, RecvAt: c.now()}, true
}

// Classify 使用默认布局分类
func Classify(raw RawFrame) (Command, bool) {
	return NewClassifier(DefaultLayout()).Classify(raw)
}
