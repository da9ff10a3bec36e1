package door

// ResyncReason 重新同步原因
type ResyncReason string

const (
	ResyncHeader   ResyncReason = "header"   // 帧头不匹配，滑动1字节
	ResyncLength   ResyncReason = "length"   // 长度字段不合理，滑动2字节
	ResyncChecksum ResyncReason = "checksum" // 校验失败，滑动2字节
)

// FaultKind 解码器内部异常类型
type FaultKind string

const (
	FaultOverflow FaultKind = "overflow" // 缓冲区放不下新数据，已清空
	FaultPanic    FaultKind = "panic"    // 扫描过程中的意外异常，已恢复
)

// Observer 诊断钩子：解码过程中的静默事件在此暴露
type Observer interface {
	OnFrame(cmd uint8)
	OnResync(reason ResyncReason)
	OnFault(kind FaultKind)
	OnClassify(cmd uint8, ok bool)
}

// NopObserver 空实现
type NopObserver struct{}

func (NopObserver) OnFrame(uint8)          {}
func (NopObserver) OnResync(ResyncReason)  {}
func (NopObserver) OnFault(FaultKind)      {}
func (NopObserver) OnClassify(uint8, bool) {}
