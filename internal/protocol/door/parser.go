package door

import (
	"sync/atomic"
)

type extractStatus int

const (
	extractOK extractStatus = iota
	extractPartial
	extractBadLength
	extractBadChecksum
)

// Stats 解码器累计统计
type Stats struct {
	Frames         uint64 `json:"frames"`
	HeaderResync   uint64 `json:"header_resync"`
	LengthResync   uint64 `json:"length_resync"`
	ChecksumResync uint64 `json:"checksum_resync"`
	Overflows      uint64 `json:"overflows"`
	Faults         uint64 `json:"faults"`
	Buffered       int64  `json:"buffered"`
}

// StreamDecoder 处理半包/粘包/噪声的流式解码器
// 非并发安全：一个连接一个实例，由读循环串行调用
type StreamDecoder struct {
	layout Layout
	buf    *buffer
	obs    Observer

	frames         atomic.Uint64
	headerResync   atomic.Uint64
	lengthResync   atomic.Uint64
	checksumResync atomic.Uint64
	overflows      atomic.Uint64
	faults         atomic.Uint64
	buffered       atomic.Int64
}

// NewStreamDecoder 创建流式解码器，layout 非法时回退到默认布局
func NewStreamDecoder(layout Layout, obs Observer) *StreamDecoder {
	if layout.Validate() != nil {
		layout = DefaultLayout()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &StreamDecoder{layout: layout, buf: newBuffer(layout.Capacity), obs: obs}
}

// Layout 返回解码器使用的帧结构
func (d *StreamDecoder) Layout() Layout { return d.layout }

// Feed 追加数据并尽可能解出多帧，按流中顺序返回
func (d *StreamDecoder) Feed(p []byte) (frames []RawFrame) {
	if len(p) == 0 {
		return nil
	}
	d.append(p)

	defer func() {
		if r := recover(); r != nil {
			d.faults.Add(1)
			d.obs.OnFault(FaultPanic)
		}
		d.buf.compact()
		d.buffered.Store(int64(d.buf.readable()))
	}()

	for d.buf.readable() >= d.layout.MinFrameLen() {
		d.buf.markPos()
		if !d.matchHeader() {
			d.buf.seek(1)
			d.headerResync.Add(1)
			d.obs.OnResync(ResyncHeader)
			continue
		}
		fr, st := d.tryExtract()
		switch st {
		case extractPartial:
			// 半包，保留 mark 之后的全部字节
			d.buf.seek(0)
			return frames
		case extractBadLength:
			d.buf.seek(d.layout.resyncStep())
			d.lengthResync.Add(1)
			d.obs.OnResync(ResyncLength)
		case extractBadChecksum:
			d.buf.seek(d.layout.resyncStep())
			d.checksumResync.Add(1)
			d.obs.OnResync(ResyncChecksum)
		case extractOK:
			frames = append(frames, fr)
			d.frames.Add(1)
			d.obs.OnFrame(fr[d.layout.CmdPos()])
		}
	}
	return frames
}

// Reset 清空缓冲，丢弃未完成的半包
func (d *StreamDecoder) Reset() {
	d.buf.clear()
	d.buffered.Store(0)
}

// Buffered 当前缓冲中未消费的字节数
func (d *StreamDecoder) Buffered() int { return int(d.buffered.Load()) }

// Stats 返回累计统计，可在其他 goroutine 读取
func (d *StreamDecoder) Stats() Stats {
	return Stats{
		Frames:         d.frames.Load(),
		HeaderResync:   d.headerResync.Load(),
		LengthResync:   d.lengthResync.Load(),
		ChecksumResync: d.checksumResync.Load(),
		Overflows:      d.overflows.Load(),
		Faults:         d.faults.Load(),
		Buffered:       d.buffered.Load(),
	}
}

// append 写入新数据；空间不足时清空整个缓冲后继续（超出容量的块只保留尾部）
func (d *StreamDecoder) append(p []byte) {
	d.buf.compact()
	if d.buf.write(p) {
		return
	}
	d.overflows.Add(1)
	d.obs.OnFault(FaultOverflow)
	d.buf.clear()
	if len(p) > d.buf.capacity() {
		p = p[len(p)-d.buf.capacity():]
	}
	d.buf.write(p)
}

// matchHeader 逐字节比对帧头
func (d *StreamDecoder) matchHeader() bool {
	for i, h := range d.layout.Header {
		if d.buf.at(i) != h {
			return false
		}
	}
	return true
}

// tryExtract 帧头已匹配，读取长度并尝试取出整帧
func (d *StreamDecoder) tryExtract() (RawFrame, extractStatus) {
	l := d.layout
	lenField := []byte{d.buf.at(l.LenPos()), d.buf.at(l.LenPos() + 1)}
	declared := int(l.Order.Uint16(lenField))
	dataLen := declared - 1
	if dataLen < 0 || dataLen > l.MaxDataLen {
		return nil, extractBadLength
	}
	total := l.FrameLen(declared)
	if d.buf.readable() < total {
		return nil, extractPartial
	}
	if Checksum(d.buf.data[d.buf.r:d.buf.r+total-1]) != d.buf.at(total-1) {
		return nil, extractBadChecksum
	}
	fr := RawFrame(d.buf.slice(0, total))
	d.buf.skip(total)
	return fr, extractOK
}
