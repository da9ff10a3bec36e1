package adapter

// Adapter 串口链路上的协议适配器接口
// 要求：
// - Sniff 用于首批字节初判
// - ProcessBytes 处理来自串口的原始字节流（内部负责半包/粘包/噪声）
// - Reset 在链路重建或确认失步时清空内部缓冲
type Adapter interface {
	Sniff(prefix []byte) bool
	ProcessBytes(p []byte) error
	Reset()
}
