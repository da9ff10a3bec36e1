package door

import (
	"bytes"
	"errors"
	"sync"

	"github.com/taoyao-code/locker-gateway/internal/protocol/adapter"
)

var _ adapter.Adapter = (*Adapter)(nil)

// Adapter 门控板协议适配器：流式解码 + 分类 + 路由表
// ProcessBytes 与 Reset 需由同一读循环串行调用
type Adapter struct {
	decoder    *StreamDecoder
	classifier *Classifier
	table      *Table
	obs        Observer

	mu        sync.RWMutex
	listeners []Handler
}

// NewAdapter 创建适配器
func NewAdapter(layout Layout, obs Observer) *Adapter {
	if obs == nil {
		obs = NopObserver{}
	}
	dec := NewStreamDecoder(layout, obs)
	return &Adapter{
		decoder:    dec,
		classifier: NewClassifier(dec.Layout()),
		table:      NewTable(),
		obs:        obs,
	}
}

// Register 注册指令处理器
func (a *Adapter) Register(cmd uint8, h Handler) { a.table.Register(cmd, h) }

// Listen 订阅所有分类成功的指令（先于路由表调用）
func (a *Adapter) Listen(h Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, h)
}

// ProcessBytes 处理上行字节流；处理器错误汇总返回，不影响后续帧
func (a *Adapter) ProcessBytes(p []byte) error {
	var errs []error
	for _, raw := range a.decoder.Feed(p) {
		cmd, ok := a.classifier.Classify(raw)
		c, _ := raw.Cmd(a.decoder.Layout())
		a.obs.OnClassify(c, ok)
		if !ok {
			continue
		}
		a.mu.RLock()
		ls := a.listeners
		a.mu.RUnlock()
		for _, h := range ls {
			if err := h(cmd); err != nil {
				errs = append(errs, err)
			}
		}
		if err := a.table.Route(cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset 连接重建或失步时清空解码缓冲
func (a *Adapter) Reset() { a.decoder.Reset() }

// Stats 解码统计
func (a *Adapter) Stats() Stats { return a.decoder.Stats() }

// Layout 帧结构
func (a *Adapter) Layout() Layout { return a.decoder.Layout() }

// Sniff 粗略判断是否为门控板协议（检查帧头）
func (a *Adapter) Sniff(prefix []byte) bool {
	h := a.decoder.Layout().Header
	if len(prefix) < len(h) {
		return false
	}
	return bytes.Equal(prefix[:len(h)], h)
}
