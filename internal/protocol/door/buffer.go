package door

// buffer 定长累积缓冲：data[r:w] 为未消费字节，mark 记录本轮扫描的帧起点
type buffer struct {
	data []byte
	r    int
	w    int
	mark int
}

func newBuffer(capacity int) *buffer {
	return &buffer{data: make([]byte, capacity)}
}

func (b *buffer) capacity() int { return len(b.data) }

func (b *buffer) readable() int { return b.w - b.r }

func (b *buffer) free() int { return len(b.data) - b.w }

// write 追加到尾部，空间不足时返回 false 且不修改任何状态
func (b *buffer) write(p []byte) bool {
	if len(p) > b.free() {
		return false
	}
	b.w += copy(b.data[b.w:], p)
	return true
}

// at 读游标之后第 i 个字节
func (b *buffer) at(i int) byte { return b.data[b.r+i] }

// slice 复制读游标之后 [off, off+n) 的字节
func (b *buffer) slice(off, n int) []byte {
	out := make([]byte, n)
	copy(out, b.data[b.r+off:b.r+off+n])
	return out
}

func (b *buffer) markPos() { b.mark = b.r }

// seek 将读游标置于 mark+n
func (b *buffer) seek(n int) { b.r = b.mark + n }

func (b *buffer) skip(n int) { b.r += n }

// compact 丢弃已消费字节，未消费部分（含半包）平移到头部
func (b *buffer) compact() {
	if b.r == 0 {
		return
	}
	n := copy(b.data, b.data[b.r:b.w])
	b.r, b.w, b.mark = 0, n, 0
}

func (b *buffer) clear() { b.r, b.w, b.mark = 0, 0, 0 }
